package object

import (
	"reflect"
	"regexp"
	"strings"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
	KindRegexp
	KindDate
	KindOther

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsMergeable reports whether values of this kind can be merged onto a target.
func (k KindEnum) IsMergeable() bool {
	switch k {
	default:
		return false
	case KindArray, KindString, KindObject:
		return true
	}
}

// IsScalar reports whether values of this kind compare by value.
func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindNull, KindBool, KindNumber, KindString, KindDate:
		return true
	}
}

var regexpType = reflect.TypeOf((*regexp.Regexp)(nil))

// KindOf classifies v. Every value maps to exactly one kind; a nil interface
// and a nil *Object are both KindNull.
func KindOf(v any) KindEnum {
	switch x := v.(type) {
	case nil:
		return KindNull
	case *Object:
		if x == nil {
			return KindNull
		}

		return KindObject
	case string:
		return KindString
	case []any:
		if x == nil {
			return KindNull
		}

		return KindArray
	case bool:
		return KindBool
	case *regexp.Regexp:
		if x == nil {
			return KindNull
		}

		return KindRegexp
	case time.Time:
		return KindDate
	}

	return kindOfReflect(reflect.ValueOf(v))
}

func kindOfReflect(rv reflect.Value) KindEnum {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return KindNumber
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}

		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}

		return KindFunction
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Chan:
		if rv.IsNil() {
			return KindNull
		}

		if rv.Type() == regexpType {
			return KindRegexp
		}

		return KindOther
	default:
		return KindOther
	}
}

// IsNull reports whether v is absent-equivalent (nil or a typed nil).
func IsNull(v any) bool {
	return KindOf(v) == KindNull
}

// ToSlice returns the elements of an array-kind value. A []any is returned
// as is; other slices and arrays are copied into a fresh []any.
func ToSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

// ToString returns the text of a string-kind value, including named string types.
func ToString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}

	return rv.String(), true
}

// Tokens splits a token list on runs of whitespace.
func Tokens(s string) []string {
	return strings.Fields(s)
}
