package object

import (
	"reflect"
	"time"
)

// Equal reports whether a and b are the same value for the purpose of
// array union and token de-duplication. Scalars compare by value, objects
// and other references by identity. Functions, slices and maps never
// compare equal.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Func, reflect.Slice, reflect.Map:
		return false
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}

	if !ra.Type().Comparable() {
		return false
	}

	return comparableEqual(a, b)
}

// comparableEqual guards against structs whose interface fields hold
// uncomparable values.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()

	return a == b
}

// Contains reports whether list holds a value Equal to v.
func Contains(list []any, v any) bool {
	for _, item := range list {
		if Equal(item, v) {
			return true
		}
	}

	return false
}
