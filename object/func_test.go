package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsFunc(t *testing.T) {
	var got *Object

	plain := func(this *Object, args ...any) (any, error) {
		got = this
		return len(args), nil
	}
	inv := Invoker(func(args ...any) (any, error) { return "bound", nil })

	o := New(nil)

	fn, ok := AsFunc(plain)
	require.True(t, ok)
	out, err := fn(o, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
	assert.Same(t, o, got)

	fn, ok = AsFunc(inv)
	require.True(t, ok)
	out, err = fn(o)
	require.NoError(t, err)
	assert.Equal(t, "bound", out)

	_, ok = AsFunc(Func(nil))
	assert.False(t, ok)
	_, ok = AsFunc("foo")
	assert.False(t, ok)
	_, ok = AsFunc(AroundFunc(func(*Object, Invoker, ...any) (any, error) { return nil, nil }))
	assert.False(t, ok, "around modifiers are not directly callable")
}

func TestAsAround_PositionalConvention(t *testing.T) {
	o := New(nil)
	orig := Func(func(this *Object, args ...any) (any, error) {
		return args[0].(int) + 1, nil
	})

	positional := Func(func(this *Object, args ...any) (any, error) {
		next := args[0].(Invoker)
		ret, err := next(args[1].(int) + 1)
		if err != nil {
			return nil, err
		}

		return ret.(int) + 1, nil
	})

	around, ok := AsAround(positional)
	require.True(t, ok)

	out, err := around(o, orig.Bind(o), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, out)

	_, ok = AsAround(42)
	assert.False(t, ok)
}
