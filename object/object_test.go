package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_DelegationChain(t *testing.T) {
	animal := New(nil, "legs", 4, "sound", "...")
	dog := New(animal, "sound", "woof")
	beagle := New(dog)

	v, ok := beagle.Get("sound")
	require.True(t, ok)
	assert.Equal(t, "woof", v)

	v, ok = beagle.Get("legs")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = beagle.Own("legs")
	assert.False(t, ok)
	assert.True(t, beagle.Has("legs"))
	assert.False(t, beagle.Has("wings"))
	assert.Same(t, animal, beagle.Owner("legs"))
	assert.Nil(t, beagle.Owner("wings"))

	assert.True(t, animal.IsPrototypeOf(beagle))
	assert.True(t, dog.IsPrototypeOf(beagle))
	assert.False(t, beagle.IsPrototypeOf(beagle))
	assert.False(t, beagle.IsPrototypeOf(animal))
}

func TestObject_WritesStayOwn(t *testing.T) {
	base := New(nil, "color", "red")
	a := New(base)
	b := New(base)

	a.Set("color", "blue")

	assert.Equal(t, "blue", a.Lookup("color"))
	assert.Equal(t, "red", b.Lookup("color"))
	assert.Equal(t, "red", base.Lookup("color"))

	a.Delete("color")
	assert.Equal(t, "red", a.Lookup("color"))

	base.Delete("missing")
	assert.Equal(t, []string{"color"}, base.Keys())
}

func TestObject_KeyOrder(t *testing.T) {
	o := New(nil, "b", 1, "a", 2)
	o.Set("c", 3)
	o.Set("b", 10)

	assert.Equal(t, []string{"b", "a", "c"}, o.Keys())
	assert.Equal(t, 3, o.Len())

	o.Delete("a")
	assert.Equal(t, []string{"b", "c"}, o.Keys())

	var zero Object
	zero.Set("x", 1)
	assert.Equal(t, []string{"x"}, zero.Keys())
}

func TestObject_Clone(t *testing.T) {
	base := New(nil, "shared", true)
	o := New(base, "a", 1)
	c := o.Clone()

	c.Set("a", 2)
	c.Set("b", 3)

	assert.Equal(t, 1, o.Lookup("a"))
	assert.False(t, o.Has("b"))
	assert.Same(t, base, c.Proto())
	assert.Equal(t, true, c.Lookup("shared"))
}

func TestObject_Call(t *testing.T) {
	o := New(nil, "n", 2)
	o.Set("double", Func(func(this *Object, args ...any) (any, error) {
		return this.Lookup("n").(int) * 2, nil
	}))
	o.Set("plain", 7)

	out, err := o.Call("double")
	require.NoError(t, err)
	assert.Equal(t, 4, out)

	_, err = o.Call("plain")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotCallable))

	_, err = o.Call("missing")
	require.ErrorIs(t, err, ErrNotCallable)

	child := New(o, "n", 5)
	out, err = child.Call("double")
	require.NoError(t, err)
	assert.Equal(t, 10, out, "inherited methods run with the receiver as context")
}

func TestObject_Export(t *testing.T) {
	o := New(nil,
		"name", "x",
		"nested", New(nil, "list", []any{1, New(nil, "k", "v")}),
	)

	assert.Equal(t, map[string]any{
		"name": "x",
		"nested": map[string]any{
			"list": []any{1, map[string]any{"k": "v"}},
		},
	}, o.Export())
}

func TestNew_PanicsOnMalformedPairs(t *testing.T) {
	assert.Panics(t, func() { New(nil, "a") })
	assert.Panics(t, func() { New(nil, 1, "a") })
}
