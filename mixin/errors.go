package mixin

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by the engine wraps exactly one of them.
var (
	ErrArgument                  = errors.New("invalid argument")
	ErrMissingMethod             = errors.New("object is missing function property")
	ErrDuplicateProperty         = errors.New("mixin overrides existing property")
	ErrMissingRequiredProperties = errors.New("object is missing required properties")
	ErrNotAnInstance             = errors.New("object is not inherited from required prototype")
	ErrUnsupportedMergeType      = errors.New("unsupported data type for merge")
	ErrConflictingMergeType      = errors.New("conflicting data types for merge")
)

// MissingPropertiesError lists every required name the target failed to resolve.
type MissingPropertiesError struct {
	Names []string
}

func (e *MissingPropertiesError) Error() string {
	return ErrMissingRequiredProperties.Error() + `: "` + strings.Join(e.Names, `", "`) + `"`
}

func (e *MissingPropertiesError) Unwrap() error {
	return ErrMissingRequiredProperties
}

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrArgument, "argument"},
	{ErrMissingMethod, "missing_method"},
	{ErrDuplicateProperty, "duplicate_property"},
	{ErrMissingRequiredProperties, "missing_required_properties"},
	{ErrNotAnInstance, "not_an_instance"},
	{ErrUnsupportedMergeType, "unsupported_merge_type"},
	{ErrConflictingMergeType, "conflicting_merge_type"},
}

// CodeOf returns a stable code for err: one per error kind, "" for nil and
// "unknown" for errors raised outside the engine (hooks, modifiers).
func CodeOf(err error) string {
	if err == nil {
		return ""
	}

	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}

	return "unknown"
}
