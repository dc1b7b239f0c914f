package mixin

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"remixin/object"
)

// Reserved spec keys. Every other key of a spec is a plain property.
const (
	KeyBefore           = "before"
	KeyAfter            = "after"
	KeyAround           = "around"
	KeyRequires         = "requires"
	KeyOverride         = "override"
	KeyDefaults         = "defaults"
	KeyApplyTo          = "applyTo"
	KeyRequirePrototype = "requirePrototype"
	KeyMerge            = "merge"
)

var reservedKeys = []string{
	KeyBefore, KeyAfter, KeyAround, KeyRequires, KeyOverride,
	KeyDefaults, KeyApplyTo, KeyRequirePrototype, KeyMerge,
}

// IsReserved reports whether key has engine-defined semantics in a spec.
func IsReserved(key string) bool {
	return slices.Contains(reservedKeys, key)
}

// Hook is a custom applyTo step. It runs last and receives the mixin being
// applied, whose primitives (Before, Merge, Extend, ...) it may call.
type Hook func(m *Mixin, target *object.Object, options any) error

// Applier is anything that can be applied to a target, including *Mixin and
// *CurriedMixin.
type Applier interface {
	ApplyTo(target *object.Object, options any) error
}

// nestedApplier is implemented by engine-built appliers so parents are
// applied without being reported to the Observer as separate applications.
type nestedApplier interface {
	applyNested(target *object.Object) error
}

// Mixin is a reusable composition of parent mixins and a property spec.
// The engine never modifies the spec; callers may do so between
// applications, but not concurrently with one.
type Mixin struct {
	*Engine

	name    string
	parents []any
	spec    *object.Object
}

// Name returns the name given at construction, or "anonymous".
func (m *Mixin) Name() string {
	if m.name == "" {
		return "anonymous"
	}

	return m.name
}

// Spec returns the live property spec.
func (m *Mixin) Spec() *object.Object {
	return m.spec
}

// Parents returns the parents in application order.
func (m *Mixin) Parents() []any {
	return slices.Clone(m.parents)
}

// WithOptions returns a mixin that always applies m with options.
func (m *Mixin) WithOptions(options any) *CurriedMixin {
	return &CurriedMixin{Mixin: m, options: options}
}

// ApplyTo applies the mixin to target. The pipeline is: defaults, plain
// properties, merge, parents (in order, without options), requires,
// requirePrototype, override, before, after, around and finally the applyTo
// hook, which alone receives options. The first error stops the pipeline;
// steps already applied are not rolled back.
func (m *Mixin) ApplyTo(target *object.Object, options any) error {
	start := time.Now()
	err := m.apply(target, options)

	if err != nil {
		m.log.Debug("mixin application failed",
			zap.String("mixin", m.Name()),
			zap.String("code", CodeOf(err)),
			zap.Error(err))
	}

	if m.observer != nil {
		m.observer.ObserveApply(m.Name(), time.Since(start), err)
	}

	return err
}

func (m *Mixin) applyNested(target *object.Object) error {
	if m == nil {
		return fmt.Errorf("%w: parent mixin is nil", ErrArgument)
	}

	return m.apply(target, nil)
}

func (m *Mixin) apply(target *object.Object, options any) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	spec := m.spec
	m.log.Debug("applying mixin", zap.String("mixin", m.Name()), zap.Int("parents", len(m.parents)))

	if err := m.Defaults(target, spec.Lookup(KeyDefaults)); err != nil {
		return err
	}

	if err := m.Extend(target, spec); err != nil {
		return err
	}

	if err := m.Merge(target, spec.Lookup(KeyMerge)); err != nil {
		return err
	}

	for i, parent := range m.parents {
		if err := applyParent(parent, target); err != nil {
			return fmt.Errorf("parent %d of mixin %s: %w", i, m.Name(), err)
		}
	}

	steps := []struct {
		key string
		fn  func(*object.Object, any) error
	}{
		{KeyRequires, m.Requires},
		{KeyRequirePrototype, m.RequirePrototype},
		{KeyOverride, m.Override},
		{KeyBefore, m.Before},
		{KeyAfter, m.After},
		{KeyAround, m.Around},
	}

	for _, step := range steps {
		if err := step.fn(target, spec.Lookup(step.key)); err != nil {
			return err
		}
	}

	return m.runHook(target, options)
}

func (m *Mixin) runHook(target *object.Object, options any) error {
	raw := m.spec.Lookup(KeyApplyTo)

	var hook Hook

	switch fn := raw.(type) {
	case nil:
		return nil
	case Hook:
		hook = fn
	case func(*Mixin, *object.Object, any) error:
		hook = fn
	default:
		return fmt.Errorf("%w: applyTo should be a hook function, got %s", ErrArgument, object.KindOf(raw))
	}

	if hook == nil {
		return nil
	}

	return hook(m, target, options)
}

func applyParent(parent any, target *object.Object) error {
	switch p := parent.(type) {
	case nestedApplier:
		return p.applyNested(target)
	case Applier:
		return p.ApplyTo(target, nil)
	default:
		return fmt.Errorf("%w: parent of type %T cannot be applied", ErrArgument, parent)
	}
}

// CurriedMixin is a mixin bound to fixed options. It exposes the same
// primitives as the Mixin it wraps.
type CurriedMixin struct {
	*Mixin

	options any
}

// ApplyTo applies the underlying mixin with the bound options; the options
// argument is ignored.
func (c *CurriedMixin) ApplyTo(target *object.Object, _ any) error {
	return c.Mixin.ApplyTo(target, c.options)
}

// Options returns the bound options.
func (c *CurriedMixin) Options() any {
	return c.options
}

func (c *CurriedMixin) applyNested(target *object.Object) error {
	if c == nil || c.Mixin == nil {
		return fmt.Errorf("%w: parent mixin is nil", ErrArgument)
	}

	return c.Mixin.apply(target, c.options)
}
