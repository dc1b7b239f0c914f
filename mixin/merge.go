package mixin

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"remixin/object"
	"remixin/options"
)

// Merge combines every non-null value of mapping with the target's current
// value at the same key:
//
//   - arrays: union, current order first, new elements appended in order;
//     a non-array current value is lifted into a one-element array
//   - strings: whitespace-separated token lists, new tokens appended
//   - objects: keys missing on the current object are filled in
//
// Objects are merged into a copy of the current value, so neither the
// delegation chain nor objects shared with a mixin spec are modified.
func (e *Engine) Merge(target *object.Object, mapping any) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	src, err := asProps(mapping, KeyMerge)
	if err != nil || src == nil {
		return err
	}

	for _, key := range src.Keys() {
		value, _ := src.Own(key)

		kind := object.KindOf(value)
		if kind == object.KindNull {
			continue
		}

		if !kind.IsMergeable() {
			if e.enforces(options.CheckMerge) {
				return fmt.Errorf("%w: %q is %s", ErrUnsupportedMergeType, key, kind)
			}

			e.log.Debug("skipping unsupported merge value", zap.String("key", key), zap.Stringer("kind", kind))

			continue
		}

		current, _ := target.Get(key)

		var merged any

		switch kind {
		case object.KindArray:
			merged = mergeArray(current, object.ToSlice(value))
		case object.KindString:
			s, _ := object.ToString(value)
			merged, err = mergeTokens(current, s)
		case object.KindObject:
			merged, err = mergeObject(current, value.(*object.Object))
		}

		if err != nil {
			if e.enforces(options.CheckMerge) {
				return fmt.Errorf("%w at %q", err, key)
			}

			e.log.Debug("skipping conflicting merge value", zap.String("key", key), zap.Error(err))
			err = nil

			continue
		}

		target.Set(key, merged)
	}

	return nil
}

// mergeArray always returns a fresh slice, so neither the incoming nor the
// current backing array is shared with the result.
func mergeArray(current any, incoming []any) []any {
	if object.IsNull(current) {
		return slices.Clone(incoming)
	}

	var base []any
	if object.KindOf(current) == object.KindArray {
		base = object.ToSlice(current)
	} else {
		base = []any{current}
	}

	out := make([]any, len(base), len(base)+len(incoming))
	copy(out, base)

	for _, v := range incoming {
		if !object.Contains(base, v) {
			out = append(out, v)
		}
	}

	return out
}

func mergeTokens(current any, incoming string) (any, error) {
	if object.IsNull(current) {
		return incoming, nil
	}

	cur, ok := object.ToString(current)
	if !ok {
		return nil, fmt.Errorf("%w: cannot merge %s into %s", ErrConflictingMergeType, object.KindString, object.KindOf(current))
	}

	have := object.Tokens(cur)

	var add []string
	for _, tok := range object.Tokens(incoming) {
		if !slices.Contains(have, tok) && !slices.Contains(add, tok) {
			add = append(add, tok)
		}
	}

	if len(add) == 0 {
		return cur, nil
	}

	if len(have) == 0 {
		return strings.Join(add, " "), nil
	}

	return cur + " " + strings.Join(add, " "), nil
}

func mergeObject(current any, incoming *object.Object) (any, error) {
	var dst *object.Object

	switch object.KindOf(current) {
	case object.KindNull:
		dst = object.New(nil)
	case object.KindObject:
		dst = current.(*object.Object).Clone()
	default:
		return nil, fmt.Errorf("%w: cannot merge %s into %s", ErrConflictingMergeType, object.KindObject, object.KindOf(current))
	}

	for _, key := range incoming.Keys() {
		if cur, ok := dst.Get(key); ok && !object.IsNull(cur) {
			continue
		}

		value, _ := incoming.Own(key)
		dst.Set(key, value)
	}

	return dst, nil
}
