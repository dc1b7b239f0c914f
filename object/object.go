package object

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotCallable is returned by Call when the named member does not resolve
// to a callable value.
var ErrNotCallable = errors.New("property is not callable")

// Object is a mutable key-value record with an optional delegation parent.
//
// Own properties keep their insertion order. Lookups that miss on the
// object itself continue through the delegation chain (Proto, Proto.Proto, ...),
// but writes always land on the object itself, so values held by an ancestor
// are never modified through a descendant.
//
// An Object is not safe for concurrent mutation.
type Object struct {
	proto *Object
	keys  []string
	props map[string]any
}

// New creates an object delegating to proto (which may be nil) and
// initialised with the given key/value pairs. It panics if kv has an odd
// length or a key is not a string, the same way a malformed composite
// literal would fail to compile.
func New(proto *Object, kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("object.New: odd number of key/value arguments")
	}

	o := &Object{
		proto: proto,
		props: make(map[string]any, len(kv)/2),
	}

	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("object.New: key at position %d is %T, not string", i, kv[i]))
		}

		o.Set(key, kv[i+1])
	}

	return o
}

// Proto returns the delegation parent, or nil.
func (o *Object) Proto() *Object {
	return o.proto
}

// Own returns the value stored on the object itself.
func (o *Object) Own(key string) (any, bool) {
	v, ok := o.props[key]
	return v, ok
}

// HasOwn reports whether key is an own property.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Get resolves key through the delegation chain.
func (o *Object) Get(key string) (any, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		if v, ok := cur.props[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Lookup is Get without the presence flag.
func (o *Object) Lookup(key string) any {
	v, _ := o.Get(key)
	return v
}

// Has reports whether key resolves on the object or one of its ancestors.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Owner returns the object in the delegation chain that holds key.
func (o *Object) Owner(key string) *Object {
	for cur := o; cur != nil; cur = cur.proto {
		if _, ok := cur.props[key]; ok {
			return cur
		}
	}

	return nil
}

// Set stores an own property. Existing keys keep their position.
func (o *Object) Set(key string, value any) {
	if o.props == nil {
		o.props = make(map[string]any)
	}

	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.props[key] = value
}

// Delete removes an own property. Inherited values are untouched.
func (o *Object) Delete(key string) {
	if _, ok := o.props[key]; !ok {
		return
	}

	delete(o.props, key)

	if i := slices.Index(o.keys, key); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}
}

// Keys returns own property names in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of own properties.
func (o *Object) Len() int {
	return len(o.keys)
}

// IsPrototypeOf reports whether o is a strict ancestor of other.
func (o *Object) IsPrototypeOf(other *Object) bool {
	if o == nil || other == nil {
		return false
	}

	for cur := other.proto; cur != nil; cur = cur.proto {
		if cur == o {
			return true
		}
	}

	return false
}

// Clone returns a shallow copy of the own properties. The copy delegates to
// the same parent.
func (o *Object) Clone() *Object {
	c := &Object{
		proto: o.proto,
		keys:  slices.Clone(o.keys),
		props: make(map[string]any, len(o.props)),
	}

	for k, v := range o.props {
		c.props[k] = v
	}

	return c
}

// Call invokes the callable member key with o as the calling context.
func (o *Object) Call(key string, args ...any) (any, error) {
	v, ok := o.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not defined", ErrNotCallable, key)
	}

	fn, ok := AsFunc(v)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotCallable, key, KindOf(v))
	}

	return fn(o, args...)
}

// Export converts the own properties into a plain map, recursively
// converting nested objects and arrays. Inherited properties are not
// included. Intended for assertions and encoding.
func (o *Object) Export() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = exportValue(o.props[k])
	}

	return out
}

func exportValue(v any) any {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil
		}

		return x.Export()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = exportValue(x[i])
		}

		return out
	default:
		return v
	}
}
