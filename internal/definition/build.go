package definition

import (
	"errors"
	"fmt"

	"remixin/mixin"
	"remixin/object"
)

// ErrInvalid is returned by Build when validation reports errors.
var ErrInvalid = errors.New("invalid definitions")

// Build validates f and creates its mixins with e, parents first. Script
// functions must already be compiled into reg.
func Build(e *mixin.Engine, f *File, reg *Registry) (map[string]*mixin.Mixin, error) {
	if reg == nil {
		reg = NewRegistry()
	}

	if diags := Validate(f, reg); diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, diags.Error())
	}

	order, err := Order(f)
	if err != nil {
		return nil, err
	}

	built := make(map[string]*mixin.Mixin, len(f.Mixins))

	for _, i := range order {
		def := &f.Mixins[i]

		spec, err := buildSpec(def, reg)
		if err != nil {
			return nil, fmt.Errorf("mixin %q: %w", def.Name, err)
		}

		args := make([]any, 0, len(def.Parents)+1)
		for _, p := range def.Parents {
			args = append(args, built[p])
		}

		args = append(args, spec)

		m, err := e.NewNamed(def.Name, args...)
		if err != nil {
			return nil, fmt.Errorf("mixin %q: %w", def.Name, err)
		}

		built[def.Name] = m
	}

	return built, nil
}

// buildSpec turns a definition into a property spec. Values are copied so
// mixins built from the same file share nothing.
func buildSpec(def *MixinDef, reg *Registry) (*object.Object, error) {
	spec := object.New(nil)

	if def.Properties.Object != nil {
		for _, key := range def.Properties.Keys() {
			v, _ := def.Properties.Own(key)

			resolved, err := resolve(v, reg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			spec.Set(key, resolved)
		}
	}

	for _, props := range []struct {
		key   string
		value Props
	}{
		{mixin.KeyDefaults, def.Defaults},
		{mixin.KeyOverride, def.Override},
		{mixin.KeyMerge, def.Merge},
	} {
		if props.value.Object == nil {
			continue
		}

		resolved, err := resolve(props.value.Object, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", props.key, err)
		}

		spec.Set(props.key, resolved)
	}

	if len(def.Requires) > 0 {
		spec.Set(mixin.KeyRequires, []string(def.Requires))
	}

	if def.RequirePrototype != "" {
		proto, ok := reg.Prototype(def.RequirePrototype)
		if !ok {
			return nil, fmt.Errorf("prototype %q is not registered", def.RequirePrototype)
		}

		spec.Set(mixin.KeyRequirePrototype, proto)
	}

	for _, step := range []struct {
		key      string
		bindings Bindings
	}{
		{mixin.KeyBefore, def.Before},
		{mixin.KeyAfter, def.After},
		{mixin.KeyAround, def.Around},
	} {
		if len(step.bindings) == 0 {
			continue
		}

		methods := object.New(nil)

		for _, b := range step.bindings {
			fn, err := lookupFunc(reg, b.Func)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", step.key, b.Method, err)
			}

			methods.Set(b.Method, fn)
		}

		spec.Set(step.key, methods)
	}

	if def.ApplyTo != "" {
		hook, ok := reg.Hook(def.ApplyTo)
		if !ok {
			return nil, fmt.Errorf("applyTo hook %q is not registered", def.ApplyTo)
		}

		spec.Set(mixin.KeyApplyTo, hook)
	}

	return spec, nil
}

// resolve replaces function references with registered functions, copying
// objects and arrays on the way.
func resolve(value any, reg *Registry) (any, error) {
	switch x := value.(type) {
	case FuncRef:
		return lookupFunc(reg, string(x))
	case *object.Object:
		out := object.New(nil)

		for _, key := range x.Keys() {
			item, _ := x.Own(key)

			v, err := resolve(item, reg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			out.Set(key, v)
		}

		return out, nil
	case []any:
		out := make([]any, len(x))

		for i, item := range x {
			v, err := resolve(item, reg)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	default:
		return value, nil
	}
}

func lookupFunc(reg *Registry, name string) (object.Func, error) {
	fn, ok := reg.Func(name)
	if !ok {
		return nil, fmt.Errorf("function %q is not registered", name)
	}

	return fn, nil
}
