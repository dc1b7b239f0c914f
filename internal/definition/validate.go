package definition

import (
	"fmt"
	"slices"
	"strings"

	"remixin/internal/common"
	"remixin/internal/diagnostic"
	"remixin/internal/match"
	"remixin/internal/script"
	"remixin/mixin"
	"remixin/object"
)

// maxSuggestions limits "did you mean" lists.
const maxSuggestions = 3

// Validate checks a definition file against the registry. Script functions
// declared in the file count as known even before they are compiled.
func Validate(f *File, reg *Registry) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	if f == nil {
		diags.AddError("file_is_nil", "definition file is nil", "", "")
		return diags
	}

	if reg == nil {
		reg = NewRegistry()
	}

	if f.Version != "" && f.Version != Version {
		diags.AddError("unsupported_version",
			fmt.Sprintf("unsupported version %q, expected %q", f.Version, Version), "", "version")
	}

	v := &validator{
		diags:  diags,
		reg:    reg,
		funcs:  validateFunctions(diags, f, reg),
		mixins: validateMixinNames(diags, f),
	}

	for i := range f.Mixins {
		v.validateMixin(&f.Mixins[i])
	}

	if _, err := Order(f); err != nil {
		diags.AddError("parent_cycle", fmt.Sprintf("parents form a cycle: %v", err), "", "parents")
	}

	return diags
}

type validator struct {
	diags  *diagnostic.Diagnostics
	reg    *Registry
	funcs  []string
	mixins []string
}

// validateFunctions checks the script functions and returns every known
// function name.
func validateFunctions(diags *diagnostic.Diagnostics, f *File, reg *Registry) []string {
	seen := make(map[string]bool, len(f.Functions))
	names := reg.FuncNames()

	for i := range f.Functions {
		def := &f.Functions[i]
		key := fmt.Sprintf("functions[%d]", i)

		if def.Name == "" {
			diags.AddError("missing_name", "function name is required", "", key)
			continue
		}

		if seen[def.Name] {
			diags.AddError("duplicate_function", fmt.Sprintf("function %q is defined more than once", def.Name), "", key)
		}

		seen[def.Name] = true
		names = append(names, def.Name)

		if lang := strings.TrimSpace(def.Lang); lang != "" {
			if _, err := script.ParseLang(lang); err != nil {
				diags.AddError("unknown_lang", fmt.Sprintf("function %q: %v", def.Name, err), "", key+".lang")
			}
		}

		if strings.TrimSpace(def.Source) == "" {
			diags.AddError("empty_source", fmt.Sprintf("function %q has no source", def.Name), "", key+".source")
		}
	}

	return names
}

func validateMixinNames(diags *diagnostic.Diagnostics, f *File) []string {
	seen := make(map[string]bool, len(f.Mixins))
	names := make([]string, 0, len(f.Mixins))

	for i := range f.Mixins {
		name := f.Mixins[i].Name

		if name == "" {
			diags.AddError("missing_name", "mixin name is required", "", fmt.Sprintf("mixins[%d]", i))
			continue
		}

		if seen[name] {
			diags.AddError("duplicate_mixin", fmt.Sprintf("mixin %q is defined more than once", name), name, "name")
			continue
		}

		seen[name] = true
		names = append(names, name)
	}

	return names
}

func (v *validator) validateMixin(def *MixinDef) {
	for _, p := range def.Parents {
		if !slices.Contains(v.mixins, p) {
			v.diags.AddError("unknown_parent", fmt.Sprintf("unknown parent mixin %q", p),
				def.Name, "parents", match.Suggest(p, v.mixins, maxSuggestions)...)
		}
	}

	if def.Properties.Object != nil {
		for _, key := range def.Properties.Keys() {
			if mixin.IsReserved(key) {
				v.diags.AddError("reserved_property",
					fmt.Sprintf("property %q is reserved; use the %s field", key, key), def.Name, "properties."+key)
			}
		}
	}

	for _, props := range []struct {
		key   string
		value Props
	}{
		{"properties", def.Properties},
		{mixin.KeyDefaults, def.Defaults},
		{mixin.KeyOverride, def.Override},
		{mixin.KeyMerge, def.Merge},
	} {
		if props.value.Object != nil {
			walkRefs(props.value.Object, func(ref FuncRef) {
				v.checkFunc(def.Name, props.key, string(ref))
			})
		}
	}

	v.validateMerge(def)

	for _, name := range def.Requires {
		if strings.TrimSpace(name) == "" {
			v.diags.AddError("invalid_requires", "required property names must not be empty", def.Name, mixin.KeyRequires)
		}
	}

	if def.RequirePrototype != "" {
		if _, ok := v.reg.Prototype(def.RequirePrototype); !ok {
			v.diags.AddError("unknown_prototype", fmt.Sprintf("unknown prototype %q", def.RequirePrototype),
				def.Name, mixin.KeyRequirePrototype,
				match.Suggest(def.RequirePrototype, v.reg.PrototypeNames(), maxSuggestions)...)
		}
	}

	v.validateBindings(def.Name, mixin.KeyBefore, def.Before)
	v.validateBindings(def.Name, mixin.KeyAfter, def.After)
	v.validateBindings(def.Name, mixin.KeyAround, def.Around)

	if def.ApplyTo != "" {
		if _, ok := v.reg.Hook(def.ApplyTo); !ok && !slices.Contains(v.funcs, def.ApplyTo) {
			known := common.Unique(append(v.reg.HookNames(), v.funcs...))
			v.diags.AddError("unknown_hook", fmt.Sprintf("unknown applyTo hook %q", def.ApplyTo),
				def.Name, mixin.KeyApplyTo, match.Suggest(def.ApplyTo, known, maxSuggestions)...)
		}
	}
}

// validateMerge warns about values merge would skip or reject.
func (v *validator) validateMerge(def *MixinDef) {
	if def.Merge.Object == nil {
		return
	}

	for _, key := range def.Merge.Keys() {
		value, _ := def.Merge.Own(key)
		if _, ok := value.(FuncRef); ok {
			v.diags.AddWarning("unsupported_merge_value",
				fmt.Sprintf("merge value %q is a function and cannot be merged", key), def.Name, "merge."+key)

			continue
		}

		kind := object.KindOf(value)
		if kind != object.KindNull && !kind.IsMergeable() {
			v.diags.AddWarning("unsupported_merge_value",
				fmt.Sprintf("merge value %q of kind %s cannot be merged", key, kind), def.Name, "merge."+key)
		}
	}
}

func (v *validator) validateBindings(mixinName, step string, bindings Bindings) {
	seen := make(map[string]bool, len(bindings))

	for _, b := range bindings {
		key := step + "." + b.Method

		if seen[b.Method] {
			v.diags.AddError("duplicate_binding", fmt.Sprintf("method %q is bound more than once", b.Method), mixinName, key)
		}

		seen[b.Method] = true

		v.checkFunc(mixinName, key, b.Func)
	}
}

func (v *validator) checkFunc(mixinName, key, name string) {
	if slices.Contains(v.funcs, name) {
		return
	}

	v.diags.AddError("unknown_function", fmt.Sprintf("unknown function %q", name),
		mixinName, key, match.Suggest(name, v.funcs, maxSuggestions)...)
}

// walkRefs calls fn for every FuncRef inside value.
func walkRefs(value any, fn func(FuncRef)) {
	switch x := value.(type) {
	case FuncRef:
		fn(x)
	case *object.Object:
		for _, key := range x.Keys() {
			item, _ := x.Own(key)
			walkRefs(item, fn)
		}
	case []any:
		for _, item := range x {
			walkRefs(item, fn)
		}
	}
}
