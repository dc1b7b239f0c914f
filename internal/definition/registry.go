package definition

import (
	"errors"
	"fmt"
	"slices"

	"remixin/internal/common"
	"remixin/internal/script"
	"remixin/mixin"
	"remixin/object"
)

// Registry holds the Go values a definition file refers to by name.
type Registry struct {
	funcs  map[string]object.Func
	hooks  map[string]mixin.Hook
	protos map[string]*object.Object
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs:  make(map[string]object.Func),
		hooks:  make(map[string]mixin.Hook),
		protos: make(map[string]*object.Object),
	}
}

// AddFunc registers a function usable as a property value or a modifier.
func (r *Registry) AddFunc(name string, fn object.Func) {
	r.funcs[name] = fn
}

// Func returns a registered function.
func (r *Registry) Func(name string) (object.Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// HasFunc returns true if a function with the given name is registered.
func (r *Registry) HasFunc(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// FuncNames returns all registered function names, sorted.
func (r *Registry) FuncNames() []string {
	return common.SortedKeys(r.funcs)
}

// AddHook registers an applyTo hook.
func (r *Registry) AddHook(name string, hook mixin.Hook) {
	r.hooks[name] = hook
}

// Hook returns the hook registered under name. A function of that name is
// adapted into a hook called with the target and the options.
func (r *Registry) Hook(name string) (mixin.Hook, bool) {
	if hook, ok := r.hooks[name]; ok {
		return hook, true
	}

	fn, ok := r.funcs[name]
	if !ok {
		return nil, false
	}

	return func(_ *mixin.Mixin, target *object.Object, options any) error {
		_, err := fn(target, options)
		return err
	}, true
}

// HookNames returns the names usable as applyTo, sorted.
func (r *Registry) HookNames() []string {
	names := common.Unique(append(common.SortedKeys(r.hooks), r.FuncNames()...))
	slices.Sort(names)

	return names
}

// AddPrototype registers an object usable as requirePrototype.
func (r *Registry) AddPrototype(name string, proto *object.Object) {
	r.protos[name] = proto
}

// Prototype returns a registered prototype.
func (r *Registry) Prototype(name string) (*object.Object, bool) {
	proto, ok := r.protos[name]
	return proto, ok
}

// PrototypeNames returns all registered prototype names, sorted.
func (r *Registry) PrototypeNames() []string {
	return common.SortedKeys(r.protos)
}

// CompileFunctions compiles the script functions of f into the registry.
// Every function is attempted; the errors are joined.
func (r *Registry) CompileFunctions(f *File, opts script.Options) error {
	var errs []error

	for i := range f.Functions {
		def := &f.Functions[i]

		lang, err := script.ParseLang(def.Lang)
		if err != nil {
			errs = append(errs, fmt.Errorf("function %q: %w", def.Name, err))
			continue
		}

		o := opts
		o.Name = def.Name

		fn, err := script.Compile(lang, def.Source, o)
		if err != nil {
			errs = append(errs, fmt.Errorf("function %q: %w", def.Name, err))
			continue
		}

		r.AddFunc(def.Name, fn)
	}

	return errors.Join(errs...)
}
