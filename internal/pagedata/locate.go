// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagedata

import "regexp"

const (
	// locatorMaxDepth bounds recursion while searching for feature
	// records. The document is a tree, but its depth is not otherwise
	// bounded, and pathological inputs must not grow the stack.
	locatorMaxDepth = 20

	// minFeatureLen is the minimum element count of a feature record:
	// [featureID, geometry, _, _, type, fields, ...].
	minFeatureLen = 6
)

// featureIDPattern matches a feature identifier: exactly 16 uppercase hex
// characters, e.g. "44A273877D20D12D".
var featureIDPattern = regexp.MustCompile(`^[A-F0-9]{16}$`)

// FeatureRecord is a subtree recognized as one map feature. Only its shape
// identifies it; no other metadata confirms the match.
type FeatureRecord []any

// IsFeatureID reports whether v is a feature identifier. The check is the
// sole shape test recognizing feature records, kept as a named predicate so
// it can be tested and replaced without touching the traversal.
func IsFeatureID(v any) bool {
	s, ok := v.(string)
	return ok && featureIDPattern.MatchString(s)
}

// FindFeatureRecords recursively searches v for feature records: sequences
// of at least minFeatureLen elements whose first element is a feature ID.
// A match is yielded as-is with no further descent; its interior belongs to
// ExtractPlace. Non-matching sequences are searched element-wise, so
// results follow the document's own ordering. Scalars yield nothing.
//
// Callers pass depth 0; recursion stops past locatorMaxDepth.
func FindFeatureRecords(v any, depth int) []FeatureRecord {
	if depth > locatorMaxDepth {
		return nil
	}

	s, ok := v.([]any)
	if !ok {
		return nil
	}

	if len(s) >= minFeatureLen && IsFeatureID(s[0]) {
		return []FeatureRecord{FeatureRecord(s)}
	}

	var found []FeatureRecord
	for _, el := range s {
		if _, ok := el.([]any); !ok {
			continue
		}
		found = append(found, FindFeatureRecords(el, depth+1)...)
	}
	return found
}
