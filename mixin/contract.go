package mixin

import (
	"fmt"

	"remixin/object"
	"remixin/options"
)

// Requires checks that every name in list resolves on target, directly or
// through its delegation chain. All missing names are reported together.
// It is a no-op unless requires checks are enabled.
func (e *Engine) Requires(target *object.Object, list any) error {
	if !e.enforces(options.CheckRequires) || object.IsNull(list) {
		return nil
	}

	if err := checkTarget(target); err != nil {
		return err
	}

	names, ok := propertyNames(list)
	if !ok {
		return fmt.Errorf("%w: requires should be a list of required property names", ErrArgument)
	}

	var missing []string
	for _, name := range names {
		if !target.Has(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &MissingPropertiesError{Names: missing}
	}

	return nil
}

// RequirePrototype checks that target is ancestor itself or inherits from it.
// It is a no-op unless prototype checks are enabled.
func (e *Engine) RequirePrototype(target *object.Object, ancestor any) error {
	if !e.enforces(options.CheckPrototype) || object.IsNull(ancestor) {
		return nil
	}

	if err := checkTarget(target); err != nil {
		return err
	}

	proto, ok := ancestor.(*object.Object)
	if !ok {
		return fmt.Errorf("%w: requirePrototype should be an object, got %s", ErrArgument, object.KindOf(ancestor))
	}

	if proto != target && !proto.IsPrototypeOf(target) {
		return ErrNotAnInstance
	}

	return nil
}

func propertyNames(list any) ([]string, bool) {
	switch l := list.(type) {
	case []string:
		return l, true
	case []any:
		names := make([]string, 0, len(l))

		for _, item := range l {
			name, ok := item.(string)
			if !ok {
				return nil, false
			}

			names = append(names, name)
		}

		return names, true
	default:
		return nil, false
	}
}
