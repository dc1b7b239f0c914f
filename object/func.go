package object

// Func is a method body. The calling context is passed explicitly as this.
type Func func(this *Object, args ...any) (any, error)

// Invoker is a callable already bound to its calling context.
type Invoker func(args ...any) (any, error)

// AroundFunc receives the wrapped method as next, bound to this.
type AroundFunc func(this *Object, next Invoker, args ...any) (any, error)

// Bind fixes the calling context of f.
func (f Func) Bind(this *Object) Invoker {
	return func(args ...any) (any, error) {
		return f(this, args...)
	}
}

// AsFunc returns v as a Func if it can be called as a method.
// Invokers ignore the calling context they are given.
func AsFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(*Object, ...any) (any, error):
		return fn, fn != nil
	case Invoker:
		if fn == nil {
			return nil, false
		}

		return func(_ *Object, args ...any) (any, error) { return fn(args...) }, true
	case func(...any) (any, error):
		if fn == nil {
			return nil, false
		}

		return func(_ *Object, args ...any) (any, error) { return fn(args...) }, true
	default:
		return nil, false
	}
}

// AsAround returns v as an AroundFunc. A plain method body is adapted to the
// positional convention: it receives next as its first argument.
func AsAround(v any) (AroundFunc, bool) {
	switch fn := v.(type) {
	case AroundFunc:
		return fn, fn != nil
	case func(*Object, Invoker, ...any) (any, error):
		return fn, fn != nil
	}

	fn, ok := AsFunc(v)
	if !ok {
		return nil, false
	}

	return func(this *Object, next Invoker, args ...any) (any, error) {
		positional := make([]any, 0, len(args)+1)
		positional = append(positional, next)
		positional = append(positional, args...)

		return fn(this, positional...)
	}, true
}
