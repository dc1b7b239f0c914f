// Package diagnostic collects structured errors and warnings found while
// validating mixin definition files.
//
// Each diagnostic carries:
//   - a stable code (e.g. "unknown_parent")
//   - the mixin and key it relates to
//   - "did you mean" suggestions when a name is misspelled
package diagnostic
