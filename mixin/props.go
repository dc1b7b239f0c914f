package mixin

import (
	"fmt"

	"remixin/object"
	"remixin/options"
)

// Extend copies every non-reserved key of props onto target. When extend
// checks are enabled, the first key that already resolves to a non-null
// value on the target (own or inherited) aborts the copy; keys before it
// stay applied.
func (e *Engine) Extend(target *object.Object, props any) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	src, err := asProps(props, "extend")
	if err != nil || src == nil {
		return err
	}

	for _, key := range src.Keys() {
		if IsReserved(key) {
			continue
		}

		if e.enforces(options.CheckExtend) {
			if cur, ok := target.Get(key); ok && !object.IsNull(cur) {
				return fmt.Errorf("%w %q", ErrDuplicateProperty, key)
			}
		}

		value, _ := src.Own(key)
		target.Set(key, value)
	}

	return nil
}

// Override copies every key of props onto target unconditionally.
func (e *Engine) Override(target *object.Object, props any) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	src, err := asProps(props, KeyOverride)
	if err != nil || src == nil {
		return err
	}

	for _, key := range src.Keys() {
		value, _ := src.Own(key)
		target.Set(key, value)
	}

	return nil
}

// Defaults copies the keys of props that do not already resolve to a
// non-null value on target. Inherited values count as present.
func (e *Engine) Defaults(target *object.Object, props any) error {
	if err := checkTarget(target); err != nil {
		return err
	}

	src, err := asProps(props, KeyDefaults)
	if err != nil || src == nil {
		return err
	}

	for _, key := range src.Keys() {
		if cur, ok := target.Get(key); ok && !object.IsNull(cur) {
			continue
		}

		value, _ := src.Own(key)
		target.Set(key, value)
	}

	return nil
}
