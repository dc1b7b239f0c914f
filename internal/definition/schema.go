package definition

// Version is the only definition file version understood.
const Version = "1"

// File represents the root of a YAML definition file.
type File struct {
	// Version of the definition schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Functions defines script functions available to the mixins.
	Functions []FunctionDef `yaml:"functions,omitempty"`

	// Mixins is the list of named mixins.
	Mixins []MixinDef `yaml:"mixins"`
}

// FunctionDef is a function written in a script language.
type FunctionDef struct {
	Name string `yaml:"name"`

	// Lang is "js" (default) or "lua".
	Lang string `yaml:"lang,omitempty"`

	// Source is a JS function expression, or a Lua chunk returning a function.
	Source string `yaml:"source"`

	Description string `yaml:"description,omitempty"`
}

// MixinDef describes one named mixin. Every field maps to the spec key of
// the same name; Properties holds the plain properties.
type MixinDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Parents are names of other mixins in the file, applied in order.
	Parents StringOrArray `yaml:"parents,omitempty"`

	// Properties are copied onto the target. Values tagged !func are
	// resolved to registered functions.
	Properties Props `yaml:"properties,omitempty"`
	Defaults   Props `yaml:"defaults,omitempty"`
	Override   Props `yaml:"override,omitempty"`
	Merge      Props `yaml:"merge,omitempty"`

	Requires StringOrArray `yaml:"requires,omitempty"`

	// RequirePrototype names a prototype registered with the Registry.
	RequirePrototype string `yaml:"requirePrototype,omitempty"`

	// Before, After and Around bind method names to function names.
	Before Bindings `yaml:"before,omitempty"`
	After  Bindings `yaml:"after,omitempty"`
	Around Bindings `yaml:"around,omitempty"`

	// ApplyTo names a registered hook, or a function called with the target
	// and the options.
	ApplyTo string `yaml:"applyTo,omitempty"`
}

// Find returns the mixin definition with the given name, or nil.
func (f *File) Find(name string) *MixinDef {
	for i := range f.Mixins {
		if f.Mixins[i].Name == name {
			return &f.Mixins[i]
		}
	}

	return nil
}

// MixinNames lists the mixin names in file order.
func (f *File) MixinNames() []string {
	names := make([]string, 0, len(f.Mixins))
	for i := range f.Mixins {
		names = append(names, f.Mixins[i].Name)
	}

	return names
}
