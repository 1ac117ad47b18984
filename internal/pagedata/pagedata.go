// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagedata recovers place records from the _pageData blob embedded
// in a Google My Maps viewer page. The blob is an undocumented JavaScript
// array literal, usually serialized a second time as a quoted string, whose
// shape is only locally known: every access is positional and guarded.
//
// The pipeline inside this package is Normalize (literal → structured
// document), FindFeatureRecords (locate feature subtrees), and ExtractPlace
// (typed fields out of one record). ExtractPlaces ties them together for a
// whole document.
package pagedata

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is the error kind returned by positional accessors when the
// document is shorter than the schema expects. The source document's shape
// is externally controlled, so every literal index goes through one of
// these instead of a raw subscript.
var ErrOutOfRange = errors.New("index out of range")

// at returns element i of s, or ErrOutOfRange.
func at(s []any, i int) (any, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("element %d of %d-element sequence: %w", i, len(s), ErrOutOfRange)
	}
	return s[i], nil
}

// stringAt returns element i of s as a string.
func stringAt(s []any, i int) (string, error) {
	v, err := at(s, i)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("element %d: expected string, got %T", i, v)
	}
	return str, nil
}

// firstString returns the first element of v when v is a non-empty
// sequence whose first element is a string.
func firstString(v any) (string, bool) {
	s, ok := v.([]any)
	if !ok || len(s) == 0 {
		return "", false
	}
	str, ok := s[0].(string)
	return str, ok
}
