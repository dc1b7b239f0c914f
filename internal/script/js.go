package script

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dop251/goja"

	"remixin/object"
)

func compileJS(source string, opts Options) (object.Func, error) {
	// parenthesised so a bare function literal is an expression
	prog, err := goja.Compile(opts.name(), "("+source+"\n)", false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, opts.name(), err)
	}

	if _, err := loadJS(goja.New(), prog); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, opts.name(), err)
	}

	return func(this *object.Object, args ...any) (any, error) {
		return callJS(prog, opts, this, args)
	}, nil
}

func loadJS(vm *goja.Runtime, prog *goja.Program) (goja.Callable, error) {
	v, err := vm.RunProgram(prog)
	if err != nil {
		return nil, err
	}

	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, errors.New("source does not evaluate to a function")
	}

	return fn, nil
}

func callJS(prog *goja.Program, opts Options, this *object.Object, args []any) (any, error) {
	c := &jsCall{
		vm:      goja.New(),
		proxies: make(map[*object.Object]*goja.Object),
		targets: make(map[*goja.Object]*object.Object),
	}

	fn, err := loadJS(c.vm, prog)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", opts.name(), err)
	}

	if opts.Timeout > 0 {
		timer := time.AfterFunc(opts.Timeout, func() {
			c.vm.Interrupt(ErrTimeout)
		})
		defer timer.Stop()
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = c.toJS(arg, nil)
	}

	thisValue := goja.Undefined()
	if this != nil {
		thisValue = c.wrap(this)
	}

	out, err := fn(thisValue, jsArgs...)
	if err != nil {
		return nil, c.error(opts, err)
	}

	return c.toGo(out), nil
}

// jsCall holds the runtime of one call and the proxies created during it.
type jsCall struct {
	vm      *goja.Runtime
	proxies map[*object.Object]*goja.Object
	targets map[*goja.Object]*object.Object

	// last error returned by a Go function called from the script, and the
	// exception value raised for it
	thrown      error
	thrownValue goja.Value
}

func (c *jsCall) error(opts Options, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("script %s: %w after %s", opts.name(), ErrTimeout, opts.Timeout)
	}

	var ex *goja.Exception
	if c.thrown != nil && errors.As(err, &ex) && ex.Value() == c.thrownValue {
		return fmt.Errorf("script %s: %w", opts.name(), c.thrown)
	}

	return fmt.Errorf("script %s: %w", opts.name(), err)
}

func (c *jsCall) wrap(o *object.Object) *goja.Object {
	if p, ok := c.proxies[o]; ok {
		return p
	}

	p := c.vm.NewDynamicObject(&jsObject{call: c, target: o})
	c.proxies[o] = p
	c.targets[p] = o

	return p
}

func (c *jsCall) unwrap(v goja.Value) (*object.Object, bool) {
	o, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}

	t, ok := c.targets[o]

	return t, ok
}

// toJS converts a Go value. Methods read off owner are bound to it unless the
// script calls them on another object.
func (c *jsCall) toJS(v any, owner *object.Object) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case *object.Object:
		if x == nil {
			return goja.Null()
		}

		return c.wrap(x)
	case goja.Value:
		return x
	}

	if fn, ok := object.AsFunc(v); ok {
		return c.function(fn, owner)
	}

	switch object.KindOf(v) {
	case object.KindNull:
		return goja.Null()
	case object.KindString:
		s, _ := object.ToString(v)
		return c.vm.ToValue(s)
	case object.KindArray:
		items := object.ToSlice(v)

		values := make([]any, len(items))
		for i, item := range items {
			values[i] = c.toJS(item, nil)
		}

		return c.vm.NewArray(values...)
	}

	return c.vm.ToValue(v)
}

func (c *jsCall) function(fn object.Func, owner *object.Object) goja.Value {
	return c.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		this := owner
		if t, ok := c.unwrap(call.This); ok {
			this = t
		}

		args := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = c.toGo(arg)
		}

		ret, err := fn(this, args...)
		if err != nil {
			goErr := c.vm.NewGoError(err)
			c.thrown, c.thrownValue = err, goErr
			panic(goErr)
		}

		return c.toJS(ret, nil)
	})
}

// toGo converts a JS value. Integral numbers become int, plain objects
// *object.Object with their key order, arrays []any. Functions become nil.
func (c *jsCall) toGo(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}

	o, ok := v.(*goja.Object)
	if !ok {
		if n, ok := v.Export().(int64); ok {
			return int(n)
		}

		return v.Export()
	}

	if t, ok := c.targets[o]; ok {
		return t
	}

	if _, ok := goja.AssertFunction(o); ok {
		return nil
	}

	switch o.ClassName() {
	case "Array":
		out := make([]any, int(o.Get("length").ToInteger()))
		for i := range out {
			out[i] = c.toGo(o.Get(strconv.Itoa(i)))
		}

		return out
	case "Object":
		out := object.New(nil)
		for _, key := range o.Keys() {
			out.Set(key, c.toGo(o.Get(key)))
		}

		return out
	default:
		return o.Export()
	}
}

// jsObject exposes an *object.Object to scripts. Reads resolve through the
// delegation chain; writes and deletes touch own properties only.
type jsObject struct {
	call   *jsCall
	target *object.Object
}

func (p *jsObject) Get(key string) goja.Value {
	v, ok := p.target.Get(key)
	if !ok {
		return nil
	}

	return p.call.toJS(v, p.target)
}

func (p *jsObject) Set(key string, val goja.Value) bool {
	p.target.Set(key, p.call.toGo(val))
	return true
}

func (p *jsObject) Has(key string) bool {
	return p.target.Has(key)
}

func (p *jsObject) Delete(key string) bool {
	p.target.Delete(key)
	return true
}

func (p *jsObject) Keys() []string {
	return p.target.Keys()
}
