// Package mixin applies declarative mixin specifications onto target objects.
//
// A Mixin is built from zero or more parent mixins and a property spec:
//
//	hasBaz := mixin.Must(mixin.New(base, object.New(nil,
//		"baz", "BAZ",
//		"after", object.New(nil, "render", logRender),
//	)))
//	err := hasBaz.ApplyTo(target, nil)
//
// Spec keys with engine-defined semantics are before, after, around,
// requires, override, defaults, applyTo, requirePrototype and merge. All
// other keys are plain properties copied onto the target.
//
// # Pipeline
//
// ApplyTo runs, in order: defaults, plain properties, merge, the parent
// mixins (left to right, depth first, without options), requires,
// requirePrototype, override, before, after, around and the applyTo hook.
// Because override runs before the modifiers, a mixin that both overrides
// and wraps a method wraps its own override. Because parents run before the
// modifiers, a mixin wraps around its parents' wrapping, and within one
// mixin around is the outermost layer.
//
// # Validation mode
//
// Contract checks (requires, requirePrototype, plain-property collisions,
// merge value types, wrapping non-functions) are selected per Engine with
// options.CheckEnum. The package-level New uses a permissive engine; build
// mixins from NewEngine(WithValidation(true)) to enforce everything.
//
// Errors wrap one of the Err* kinds and abort the current application.
// Nothing is rolled back.
package mixin
