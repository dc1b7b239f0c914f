package mixin_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remixin/mixin"
	"remixin/object"
	"remixin/options"
)

// recorder returns a method body that appends prefix and the first argument
// (when present) to log.
func recorder(log *[]string, prefix string) object.Func {
	return func(_ *object.Object, args ...any) (any, error) {
		if len(args) > 0 {
			*log = append(*log, fmt.Sprint(prefix, " ", args[0]))
		} else {
			*log = append(*log, prefix)
		}

		return nil, nil
	}
}

func aroundRecorder(log *[]string, prefix string) object.AroundFunc {
	return func(_ *object.Object, next object.Invoker, args ...any) (any, error) {
		*log = append(*log, fmt.Sprint(append([]any{prefix + "-before"}, args...)...))
		_, err := next(args...)
		*log = append(*log, fmt.Sprint(append([]any{prefix + "-after"}, args...)...))

		return nil, err
	}
}

// modifierSpec wraps method foo with a before, an after and an around
// modifier, all recording to log.
func modifierSpec(name string, log *[]string) *object.Object {
	return object.New(nil,
		"before", object.New(nil, "foo", recorder(log, name+"-before-foo")),
		"after", object.New(nil, "foo", recorder(log, name+"-after-foo")),
		"around", object.New(nil, "foo", object.AroundFunc(
			func(_ *object.Object, next object.Invoker, args ...any) (any, error) {
				*log = append(*log, fmt.Sprint(name, "-around-foo-before ", args[0]))
				_, err := next(args[0])
				*log = append(*log, fmt.Sprint(name, "-around-foo-after ", args[0]))

				return nil, err
			})),
	)
}

func funcPtr(v any) uintptr {
	return reflect.ValueOf(v).Pointer()
}

func validating() *mixin.Engine {
	return mixin.NewEngine(mixin.WithValidation(true))
}

func TestApplyTo_CopiesPlainProperties(t *testing.T) {
	fn := object.Func(func(*object.Object, ...any) (any, error) { return nil, nil })
	target := object.New(nil, "foo", "FOO")

	hasBaz := mixin.Must(validating().New(object.New(nil, "bar", fn, "baz", "BAZ")))
	require.NoError(t, hasBaz.ApplyTo(target, nil))

	assert.Equal(t, "BAZ", target.Lookup("baz"))
	assert.Equal(t, funcPtr(fn), funcPtr(target.Lookup("bar")))
	assert.Equal(t, "FOO", target.Lookup("foo"))
	assert.Equal(t, []string{"foo", "bar", "baz"}, target.Keys())
}

func TestApplyTo_BeforeAfterOrder(t *testing.T) {
	var order []string

	target := object.New(nil, "foo", recorder(&order, "b"))
	m := mixin.Must(mixin.New(object.New(nil,
		"before", object.New(nil, "foo", recorder(&order, "a")),
		"after", object.New(nil, "foo", recorder(&order, "c")),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	_, err := target.Call("foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestApplyTo_BeforeAfterCannotChangeArgumentsOrResult(t *testing.T) {
	var order []string

	target := object.New(nil, "foo", object.Func(func(_ *object.Object, args ...any) (any, error) {
		order = append(order, fmt.Sprint("b", args[0]))
		return args[0], nil
	}))

	m := mixin.Must(mixin.New(object.New(nil,
		"before", object.New(nil, "foo", object.Func(func(_ *object.Object, args ...any) (any, error) {
			order = append(order, fmt.Sprint("a", args[0]))
			args[0] = 99

			return "before", nil
		})),
		"after", object.New(nil, "foo", object.Func(func(_ *object.Object, args ...any) (any, error) {
			order = append(order, fmt.Sprint("c", args[0]))
			return "after", nil
		})),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	ret, err := target.Call("foo", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b1", "c1"}, order)
	assert.Equal(t, 1, ret)
}

func TestApplyTo_Around(t *testing.T) {
	var (
		context  *object.Object
		received any
	)

	target := object.New(nil, "foo", object.Func(func(this *object.Object, args ...any) (any, error) {
		context = this
		received = args[0]

		return args[0].(int) + 1, nil
	}))

	m := mixin.Must(mixin.New(object.New(nil,
		"around", object.New(nil, "foo", object.AroundFunc(
			func(_ *object.Object, next object.Invoker, args ...any) (any, error) {
				ret, err := next(args[0].(int) + 1)
				if err != nil {
					return nil, err
				}

				return ret.(int) + 1, nil
			})),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	ret, err := target.Call("foo", 1)
	require.NoError(t, err)
	assert.Same(t, target, context)
	assert.Equal(t, 2, received)
	assert.Equal(t, 4, ret)
}

func TestApplyTo_AroundPositionalModifier(t *testing.T) {
	target := object.New(nil, "foo", object.Func(func(_ *object.Object, args ...any) (any, error) {
		return fmt.Sprint("foo(", args[0], ")"), nil
	}))

	m := mixin.Must(mixin.New(object.New(nil,
		"around", object.New(nil, "foo", object.Func(func(_ *object.Object, args ...any) (any, error) {
			next, ok := args[0].(object.Invoker)
			require.True(t, ok, "the wrapped method is the first argument")

			return next("x")
		})),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	ret, err := target.Call("foo", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "foo(x)", ret)
}

func TestApplyTo_AroundWrapsBeforeAndAfter(t *testing.T) {
	var order []string

	target := object.New(nil, "foo", recorder(&order, "main"))
	m := mixin.Must(mixin.New(object.New(nil,
		"around", object.New(nil, "foo", aroundRecorder(&order, "around")),
		"before", object.New(nil, "foo", recorder(&order, "before")),
		"after", object.New(nil, "foo", recorder(&order, "after")),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	_, err := target.Call("foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"around-before", "before", "main", "after", "around-after"}, order)
}

func TestApplyTo_MultipleMixinsNest(t *testing.T) {
	var order []string

	target := object.New(nil, "foo", recorder(&order, "main"))

	spec := func(n string) *object.Object {
		return object.New(nil,
			"before", object.New(nil, "foo", recorder(&order, "before"+n)),
			"after", object.New(nil, "foo", recorder(&order, "after"+n)),
			"around", object.New(nil, "foo", object.AroundFunc(
				func(_ *object.Object, next object.Invoker, args ...any) (any, error) {
					order = append(order, "around"+n+"a")
					_, err := next()
					order = append(order, "around"+n+"b")

					return nil, err
				})),
		)
	}

	m1 := mixin.Must(mixin.New(spec("1")))
	m2 := mixin.Must(mixin.New(spec("2")))

	require.NoError(t, m1.ApplyTo(target, nil))
	require.NoError(t, m2.ApplyTo(target, nil))

	_, err := target.Call("foo")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"around2a", "before2", "around1a", "before1", "main",
		"after1", "around1b", "after2", "around2b",
	}, order)
}

func TestApplyTo_ModifierErrorsPropagate(t *testing.T) {
	boom := fmt.Errorf("boom")
	ran := false

	target := object.New(nil, "foo", object.Func(func(*object.Object, ...any) (any, error) {
		ran = true
		return nil, nil
	}))

	m := mixin.Must(mixin.New(object.New(nil,
		"before", object.New(nil, "foo", object.Func(func(*object.Object, ...any) (any, error) {
			return nil, boom
		})),
	)))
	require.NoError(t, m.ApplyTo(target, nil))

	_, err := target.Call("foo")
	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestApplyTo_Override(t *testing.T) {
	target := object.New(nil,
		"someProp", "original",
		"someFunc", object.Func(func(*object.Object, ...any) (any, error) { return "original", nil }),
	)

	m := mixin.Must(validating().New(object.New(nil,
		"override", object.New(nil,
			"someProp", "modified",
			"someFunc", object.Func(func(*object.Object, ...any) (any, error) { return "modified", nil }),
		),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	assert.Equal(t, "modified", target.Lookup("someProp"))

	ret, err := target.Call("someFunc")
	require.NoError(t, err)
	assert.Equal(t, "modified", ret)
}

func TestApplyTo_OverrideIsWrappedBySameMixin(t *testing.T) {
	var order []string

	target := object.New(nil, "foo", recorder(&order, "original"))
	m := mixin.Must(mixin.New(object.New(nil,
		"override", object.New(nil, "foo", recorder(&order, "override")),
		"before", object.New(nil, "foo", recorder(&order, "before")),
	)))

	require.NoError(t, m.ApplyTo(target, nil))

	_, err := target.Call("foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "override"}, order)
}

func TestApplyTo_Defaults(t *testing.T) {
	returns := func(s string) object.Func {
		return func(*object.Object, ...any) (any, error) { return s, nil }
	}

	cls := object.New(nil, "foo", returns("super foo"), "bar", returns("super bar"))
	subCls := object.New(cls, "foo", returns("sub foo"))

	m := mixin.Must(validating().New(object.New(nil,
		"defaults", object.New(nil,
			"foo", returns("mixin foo"),
			"bar", returns("mixin bar"),
			"baz", returns("mixin baz"),
		),
	)))

	require.NoError(t, m.ApplyTo(subCls, nil))

	obj := object.New(subCls)

	for name, want := range map[string]string{"foo": "sub foo", "bar": "super bar", "baz": "mixin baz"} {
		got, err := obj.Call(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	assert.False(t, cls.Has("baz"), "defaults land on the target, not its ancestors")
}

func TestApplyTo_DefaultsReplaceNullValues(t *testing.T) {
	target := object.New(nil, "title", nil)
	m := mixin.Must(mixin.New(object.New(nil, "defaults", object.New(nil, "title", "untitled"))))

	require.NoError(t, m.ApplyTo(target, nil))
	assert.Equal(t, "untitled", target.Lookup("title"))
}

func TestApplyTo_CustomHookReceivesMixin(t *testing.T) {
	target := object.New(nil)
	ran := false

	var m *mixin.Mixin
	m = mixin.Must(mixin.New(object.New(nil,
		"applyTo", mixin.Hook(func(self *mixin.Mixin, o *object.Object, _ any) error {
			assert.Same(t, target, o)
			assert.Same(t, m, self)
			ran = true

			return nil
		}),
	)))

	require.NoError(t, m.ApplyTo(target, nil))
	assert.True(t, ran)
}

func TestApplyTo_CustomHookWithShortcuts(t *testing.T) {
	afterFoo := false

	target := object.New(nil, "foo", object.Func(func(*object.Object, ...any) (any, error) { return nil, nil }))

	m := mixin.Must(validating().New(object.New(nil,
		"after", object.New(nil, "foo", object.Func(func(*object.Object, ...any) (any, error) {
			afterFoo = true
			return nil, nil
		})),
		"applyTo", func(self *mixin.Mixin, o *object.Object, opts any) error {
			zoom := opts.(*object.Object).Lookup("zoomLevel").(int)

			return self.Extend(o, object.New(nil,
				"size", 1,
				"zoom", object.Func(func(this *object.Object, _ ...any) (any, error) {
					this.Set("size", this.Lookup("size").(int)*zoom)
					return nil, nil
				}),
			))
		},
	)))

	require.NoError(t, m.ApplyTo(target, object.New(nil, "zoomLevel", 5)))
	assert.Equal(t, 1, target.Lookup("size"))

	_, err := target.Call("zoom")
	require.NoError(t, err)
	assert.Equal(t, 5, target.Lookup("size"))

	_, err = target.Call("foo")
	require.NoError(t, err)
	assert.True(t, afterFoo)
}

func TestApplyTo_HookErrorIsReturned(t *testing.T) {
	boom := fmt.Errorf("hook failed")
	m := mixin.Must(mixin.New(object.New(nil,
		"applyTo", mixin.Hook(func(*mixin.Mixin, *object.Object, any) error { return boom }),
	)))

	err := m.ApplyTo(object.New(nil), nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "unknown", mixin.CodeOf(err))
}

func TestApplyTo_InvalidHook(t *testing.T) {
	m := mixin.Must(mixin.New(object.New(nil, "applyTo", "not a hook")))

	err := m.ApplyTo(object.New(nil), nil)
	require.ErrorIs(t, err, mixin.ErrArgument)
}

func TestWithOptions(t *testing.T) {
	m := mixin.Must(mixin.New(object.New(nil,
		"applyTo", mixin.Hook(func(_ *mixin.Mixin, target *object.Object, opts any) error {
			target.Set("foo", opts.(*object.Object).Lookup("foo"))
			return nil
		}),
	)))

	curried := m.WithOptions(object.New(nil, "foo", "bar"))

	var applier mixin.Applier = curried
	assert.Same(t, m, curried.Mixin)
	assert.Equal(t, m.Checks(), curried.Checks())

	obj := object.New(nil)
	require.NoError(t, applier.ApplyTo(obj, object.New(nil, "foo", "ignored")))
	assert.Equal(t, "bar", obj.Lookup("foo"))

	require.NoError(t, curried.Extend(obj, object.New(nil, "extra", true)))
	assert.Equal(t, true, obj.Lookup("extra"))
}

func TestApplyTo_ParentsReceiveNoOptions(t *testing.T) {
	var seen []any

	record := mixin.Hook(func(_ *mixin.Mixin, _ *object.Object, opts any) error {
		seen = append(seen, opts)
		return nil
	})

	parent := mixin.Must(mixin.New(object.New(nil, "applyTo", record)))
	curriedParent := mixin.Must(mixin.New(object.New(nil, "applyTo", record))).WithOptions("bound")
	child := mixin.Must(mixin.New(parent, curriedParent, object.New(nil, "applyTo", record)))

	require.NoError(t, child.ApplyTo(object.New(nil), "outer"))
	assert.Equal(t, []any{nil, "bound", "outer"}, seen)
}

type countingObserver struct {
	names []string
	errs  []error
}

func (o *countingObserver) ObserveApply(name string, _ time.Duration, err error) {
	o.names = append(o.names, name)
	o.errs = append(o.errs, err)
}

func TestApplyTo_ObserverSeesTopLevelOnly(t *testing.T) {
	obs := &countingObserver{}
	e := mixin.NewEngine(mixin.WithObserver(obs), mixin.WithChecks(options.CheckRequires))

	parent := mixin.Must(e.NewNamed("parent", object.New(nil, "a", 1)))
	child := mixin.Must(e.NewNamed("child", parent, object.New(nil, "requires", []string{"a"})))

	require.NoError(t, child.ApplyTo(object.New(nil), nil))

	failing := mixin.Must(e.New(object.New(nil, "requires", []string{"missing"})))
	require.Error(t, failing.ApplyTo(object.New(nil), nil))

	assert.Equal(t, []string{"child", "anonymous"}, obs.names)
	assert.NoError(t, obs.errs[0])
	assert.ErrorIs(t, obs.errs[1], mixin.ErrMissingRequiredProperties)
}

func TestNew_Arguments(t *testing.T) {
	_, err := mixin.New()
	require.ErrorIs(t, err, mixin.ErrArgument)

	_, err = mixin.New(object.New(nil), "not a spec")
	require.ErrorIs(t, err, mixin.ErrArgument)

	_, err = mixin.New((*object.Object)(nil))
	require.ErrorIs(t, err, mixin.ErrArgument)

	assert.Panics(t, func() { mixin.Must(mixin.New()) })

	parent := mixin.Must(mixin.New(object.New(nil)))
	m := mixin.Must(mixin.New(parent, object.New(nil, "x", 1)))
	assert.Equal(t, []any{parent}, m.Parents())
	assert.Equal(t, 1, m.Spec().Lookup("x"))
	assert.Equal(t, "anonymous", m.Name())
}

func TestApplyTo_InvalidParentSurfacesAtApply(t *testing.T) {
	m, err := mixin.New("not a mixin", object.New(nil))
	require.NoError(t, err, "parents are not checked at construction")

	err = m.ApplyTo(object.New(nil), nil)
	require.ErrorIs(t, err, mixin.ErrArgument)
	assert.Contains(t, err.Error(), "parent 0")

	var nilParent *mixin.Mixin

	m = mixin.Must(mixin.New(nilParent, object.New(nil)))
	require.ErrorIs(t, m.ApplyTo(object.New(nil), nil), mixin.ErrArgument)
}

func TestApplyTo_NilTarget(t *testing.T) {
	m := mixin.Must(mixin.New(object.New(nil)))
	require.ErrorIs(t, m.ApplyTo(nil, nil), mixin.ErrArgument)
}

func TestApplyTo_ReservedKeysAreNotCopied(t *testing.T) {
	target := object.New(nil)
	m := mixin.Must(mixin.New(object.New(nil,
		"merge", object.New(nil, "css", []any{"a.css"}),
		"defaults", object.New(nil, "x", 1),
		"plain", true,
	)))

	require.NoError(t, m.ApplyTo(target, nil))
	assert.Equal(t, []string{"x", "plain", "css"}, target.Keys())

	for _, key := range []string{"before", "after", "around", "requires", "override", "defaults", "applyTo", "requirePrototype", "merge"} {
		assert.True(t, mixin.IsReserved(key), key)
	}

	assert.False(t, mixin.IsReserved("plain"))
}

type externalApplier struct {
	applied int
}

func (a *externalApplier) ApplyTo(target *object.Object, options any) error {
	a.applied++
	target.Set("external", options)

	return nil
}

func TestApplyTo_DuckTypedParent(t *testing.T) {
	ext := &externalApplier{}
	m := mixin.Must(mixin.New(ext, object.New(nil)))

	target := object.New(nil)
	require.NoError(t, m.ApplyTo(target, "opts"))
	assert.Equal(t, 1, ext.applied)
	assert.True(t, target.HasOwn("external"))
	assert.Nil(t, target.Lookup("external"))
}
