package script

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"

	"remixin/object"
)

const objectTypeName = "remixin.object"

func compileLua(source string, opts Options) (object.Func, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := loadLua(state, source); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, opts.name(), err)
	}

	return func(this *object.Object, args ...any) (any, error) {
		return callLua(source, opts, this, args)
	}, nil
}

// loadLua runs the chunk and leaves the function it returns on the stack.
func loadLua(state *lua.State, source string) error {
	if err := lua.LoadString(state, source); err != nil {
		return err
	}

	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return err
	}

	if !state.IsFunction(-1) {
		state.Pop(1)
		return errors.New("chunk must return a function")
	}

	return nil
}

func callLua(source string, opts Options, this *object.Object, args []any) (any, error) {
	c := &luaCall{}

	state := lua.NewState()
	lua.OpenLibraries(state)
	c.registerObjectType(state)

	if err := loadLua(state, source); err != nil {
		return nil, fmt.Errorf("script %s: %w", opts.name(), err)
	}

	c.push(state, this, nil)

	for _, arg := range args {
		c.push(state, arg, nil)
	}

	if err := state.ProtectedCall(len(args)+1, 1, 0); err != nil {
		if c.thrown != nil && strings.Contains(err.Error(), c.thrown.Error()) {
			return nil, fmt.Errorf("script %s: %w", opts.name(), c.thrown)
		}

		return nil, fmt.Errorf("script %s: %w", opts.name(), err)
	}

	ret := c.toGo(state, -1)
	state.Pop(1)

	return ret, nil
}

type luaCall struct {
	// last error returned by a Go function called from the script
	thrown error
}

func (c *luaCall) registerObjectType(state *lua.State) {
	lua.NewMetaTable(state, objectTypeName)
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "__index", Function: c.index},
		{Name: "__newindex", Function: c.newIndex},
		{Name: "__len", Function: c.length},
	}, 0)
	state.Pop(1)
}

func (c *luaCall) index(state *lua.State) int {
	target := checkObject(state, 1)
	key := lua.CheckString(state, 2)

	v, ok := target.Get(key)
	if !ok {
		state.PushNil()
		return 1
	}

	c.push(state, v, target)

	return 1
}

func (c *luaCall) newIndex(state *lua.State) int {
	target := checkObject(state, 1)
	key := lua.CheckString(state, 2)
	target.Set(key, c.toGo(state, 3))

	return 0
}

func (c *luaCall) length(state *lua.State) int {
	state.PushInteger(checkObject(state, 1).Len())
	return 1
}

func checkObject(state *lua.State, index int) *object.Object {
	ud := lua.CheckUserData(state, index, objectTypeName)
	if o, ok := ud.(*object.Object); ok && o != nil {
		return o
	}

	lua.ArgumentError(state, index, "object expected")

	return nil
}

// push converts a Go value onto the stack. Methods read off owner are bound
// to it; when called with method syntax the receiver argument is dropped.
func (c *luaCall) push(state *lua.State, v any, owner *object.Object) {
	if fn, ok := object.AsFunc(v); ok {
		c.pushFunc(state, fn, owner)
		return
	}

	switch object.KindOf(v) {
	case object.KindNull:
		state.PushNil()
	case object.KindBool:
		state.PushBoolean(reflect.ValueOf(v).Bool())
	case object.KindNumber:
		rv := reflect.ValueOf(v)

		switch {
		case rv.CanInt():
			state.PushInteger(int(rv.Int()))
		case rv.CanUint():
			state.PushInteger(int(rv.Uint()))
		case rv.CanFloat():
			state.PushNumber(rv.Float())
		default:
			state.PushNumber(real(rv.Complex()))
		}
	case object.KindString:
		s, _ := object.ToString(v)
		state.PushString(s)
	case object.KindObject:
		state.PushUserData(v)
		lua.SetMetaTableNamed(state, objectTypeName)
	case object.KindArray:
		items := object.ToSlice(v)

		state.NewTable()

		for i, item := range items {
			c.push(state, item, nil)
			state.RawSetInt(-2, i+1)
		}
	default:
		state.PushUserData(v)
	}
}

func (c *luaCall) pushFunc(state *lua.State, fn object.Func, owner *object.Object) {
	state.PushGoFunction(func(state *lua.State) int {
		first := 1
		if owner != nil && state.Top() >= 1 && state.TypeOf(1) == lua.TypeUserData {
			if o, ok := state.ToUserData(1).(*object.Object); ok && o == owner {
				first = 2
			}
		}

		args := make([]any, 0, state.Top())
		for i := first; i <= state.Top(); i++ {
			args = append(args, c.toGo(state, i))
		}

		c.thrown = nil

		ret, err := fn(owner, args...)
		if err != nil {
			c.thrown = err
			lua.Errorf(state, "%s", err.Error())

			return 0
		}

		c.push(state, ret, nil)

		return 1
	})
}

// toGo converts the value at index. Integral numbers become int, sequences
// []any and other tables *object.Object with sorted string keys.
func (c *luaCall) toGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return c.tableToGo(state, index)
	case lua.TypeUserData:
		return state.ToUserData(index)
	default:
		return nil
	}
}

func (c *luaCall) tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)

	isArray := true
	maxIndex := 0
	count := 0

	var keys []string

	state.PushNil()
	for state.Next(index) {
		switch state.TypeOf(-2) {
		case lua.TypeNumber:
			if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		case lua.TypeString:
			isArray = false
			key, _ := state.ToString(-2)
			keys = append(keys, key)
		default:
			isArray = false
		}

		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			out = append(out, c.toGo(state, -1))
			state.Pop(1)
		}

		return out
	}

	sort.Strings(keys)

	out := object.New(nil)
	for _, key := range keys {
		state.Field(index, key)
		out.Set(key, c.toGo(state, -1))
		state.Pop(1)
	}

	return out
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) < 1<<53 {
		return int(value)
	}

	return value
}
