package mixin

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"remixin/object"
	"remixin/options"
)

// Before wraps each named method so its modifier runs first with a copy of
// the arguments. The modifier's result is discarded; a modifier error is
// returned without running the method.
func (e *Engine) Before(target *object.Object, methods any) error {
	return e.wrapEach(target, methods, KeyBefore, func(orig object.Func, mod any) (object.Func, bool) {
		fn, ok := object.AsFunc(mod)
		if !ok {
			return nil, false
		}

		return func(this *object.Object, args ...any) (any, error) {
			if _, err := fn(this, slices.Clone(args)...); err != nil {
				return nil, err
			}

			return orig(this, args...)
		}, true
	})
}

// After wraps each named method so its modifier runs once the method has
// returned, with a copy of the original arguments. The method's result is
// returned unchanged.
func (e *Engine) After(target *object.Object, methods any) error {
	return e.wrapEach(target, methods, KeyAfter, func(orig object.Func, mod any) (object.Func, bool) {
		fn, ok := object.AsFunc(mod)
		if !ok {
			return nil, false
		}

		return func(this *object.Object, args ...any) (any, error) {
			seen := slices.Clone(args)

			ret, err := orig(this, args...)
			if err != nil {
				return nil, err
			}

			if _, err := fn(this, seen...); err != nil {
				return nil, err
			}

			return ret, nil
		}, true
	})
}

// Around wraps each named method with a modifier that receives the previous
// method bound to the calling context. The modifier decides whether and how
// the method runs and what is returned.
func (e *Engine) Around(target *object.Object, methods any) error {
	return e.wrapEach(target, methods, KeyAround, func(orig object.Func, mod any) (object.Func, bool) {
		fn, ok := object.AsAround(mod)
		if !ok {
			return nil, false
		}

		return func(this *object.Object, args ...any) (any, error) {
			return fn(this, orig.Bind(this), args...)
		}, true
	})
}

type wrapFunc func(orig object.Func, modifier any) (object.Func, bool)

func (e *Engine) wrapEach(target *object.Object, methods any, step string, wrap wrapFunc) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	mods, err := asProps(methods, step)
	if err != nil || mods == nil {
		return err
	}

	for _, name := range mods.Keys() {
		mod, _ := mods.Own(name)

		current, _ := target.Get(name)

		orig, ok := object.AsFunc(current)
		if !ok {
			if e.enforces(options.CheckMethods) {
				return fmt.Errorf("%w %q", ErrMissingMethod, name)
			}

			e.log.Debug("wrapping a non-function property",
				zap.String("step", step),
				zap.String("key", name),
				zap.Stringer("kind", object.KindOf(current)))

			orig = notCallable(name, current)
		}

		wrapped, ok := wrap(orig, mod)
		if !ok {
			return fmt.Errorf("%w: %s modifier for %q should be a function, got %s",
				ErrArgument, step, name, object.KindOf(mod))
		}

		target.Set(name, wrapped)
	}

	return nil
}

// notCallable stands in for a missing method in permissive mode; the wrapper
// is installed and fails when the missing method would have run.
func notCallable(name string, current any) object.Func {
	return func(*object.Object, ...any) (any, error) {
		return nil, fmt.Errorf("%w: %q is %s", object.ErrNotCallable, name, object.KindOf(current))
	}
}
