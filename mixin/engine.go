package mixin

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"remixin/object"
	"remixin/options"
)

// Observer is notified once per top-level ApplyTo call.
type Observer interface {
	ObserveApply(mixin string, elapsed time.Duration, err error)
}

// Engine carries the validation mode and ambient dependencies shared by the
// mixins it builds. An Engine is immutable after construction and safe for
// concurrent use.
type Engine struct {
	checks   options.CheckEnum
	log      *zap.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithChecks selects the contract checks enforced by the engine.
func WithChecks(checks options.CheckEnum) Option {
	return func(e *Engine) { e.checks = checks }
}

// WithValidation switches between validating (all checks) and permissive mode.
func WithValidation(on bool) Option {
	return func(e *Engine) {
		if on {
			e.checks = options.CheckAll
		} else {
			e.checks = options.CheckNone
		}
	}
}

// WithLogger sets the logger for debug output. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithObserver reports every top-level application to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine returns an engine in permissive mode unless configured otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		checks: options.CheckNone,
		log:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Checks returns the enabled contract checks.
func (e *Engine) Checks() options.CheckEnum {
	return e.checks
}

func (e *Engine) enforces(check options.CheckEnum) bool {
	return e.checks.Has(check)
}

var permissive = NewEngine()

// New builds a mixin on a permissive engine. See Engine.New.
func New(args ...any) (*Mixin, error) {
	return permissive.New(args...)
}

// Must panics if err is non-nil. It simplifies package-level mixin variables.
func Must(m *Mixin, err error) *Mixin {
	if err != nil {
		panic(err)
	}

	return m
}

// New builds a mixin bound to e. Every argument but the last is a parent;
// parents are not type-checked until the mixin is applied. The last argument
// must be the property spec.
func (e *Engine) New(args ...any) (*Mixin, error) {
	return e.NewNamed("", args...)
}

// NewNamed is New with a name used in logs and metrics.
func (e *Engine) NewNamed(name string, args ...any) (*Mixin, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: mixin requires a property spec", ErrArgument)
	}

	last := args[len(args)-1]

	spec, ok := last.(*object.Object)
	if !ok || spec == nil {
		return nil, fmt.Errorf("%w: last argument must be a property spec object, got %T", ErrArgument, last)
	}

	return &Mixin{
		Engine:  e,
		name:    name,
		parents: slices.Clone(args[:len(args)-1]),
		spec:    spec,
	}, nil
}

// asProps validates that value is a property object. A null value yields nil.
func asProps(value any, step string) (*object.Object, error) {
	switch object.KindOf(value) {
	case object.KindNull:
		return nil, nil
	case object.KindObject:
		return value.(*object.Object), nil
	default:
		return nil, fmt.Errorf("%w: %s should be an object, got %s", ErrArgument, step, object.KindOf(value))
	}
}

func checkTarget(target *object.Object) error {
	if target == nil {
		return fmt.Errorf("%w: target object is nil", ErrArgument)
	}

	return nil
}
