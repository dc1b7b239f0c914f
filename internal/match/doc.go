// Package match ranks known names against a misspelled one, so definition
// files can report "did you mean" suggestions.
//
// Key functions:
//   - NormalizeIdent: folds identifiers to a comparable form
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names by similarity
package match
