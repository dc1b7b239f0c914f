// Package object provides the target object model that mixins are applied to.
//
// An Object is an ordered record of own properties plus an optional
// delegation parent. Reads resolve through the delegation chain, writes
// always create or replace own properties, which keeps values shared by an
// ancestor isolated from its descendants.
//
// Methods are plain values of type Func whose calling context is explicit:
//
//	greeter := object.New(nil, "name", "Ada", "greet", object.Func(
//		func(this *object.Object, args ...any) (any, error) {
//			return "hello " + this.Lookup("name").(string), nil
//		}))
//	out, err := greeter.Call("greet")
//
// Every value is classified by KindOf into a KindEnum, so code that needs to
// treat arrays, token strings, objects and functions differently switches
// over the kind instead of probing types ad hoc.
package object
