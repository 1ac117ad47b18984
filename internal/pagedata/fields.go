// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagedata

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/guide-engine/pkg/types"
)

const (
	// geometryMaxDepth bounds the search for a coordinate pair inside a
	// feature's geometry subtree.
	geometryMaxDepth = 10

	// placeIDMaxDepth bounds the fallback place-ID search over the whole
	// fields subtree.
	placeIDMaxDepth = 15
)

// placeIDPrefixes are the two known prefix families of Google Place IDs.
var placeIDPrefixes = []string{"ChIJ", "Ej"}

// looksLikePlaceID reports whether s carries one of the recognized Place ID
// prefixes.
func looksLikePlaceID(s string) bool {
	for _, p := range placeIDPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// ExtractPlace recovers a PlaceCandidate from one feature record. Many
// records are decorative (lines, layer styling) and carry no name; those
// yield (nil, false) silently. Structural faults in a record are logged on
// w and likewise yield no candidate, so one malformed record never aborts
// the batch.
func ExtractPlace(rec FeatureRecord, w io.Writer) (*types.PlaceCandidate, bool) {
	featureID, err := stringAt(rec, 0)
	if err != nil {
		fmt.Fprintf(w, "  warning: skipping record: %v\n", err)
		return nil, false
	}

	geometry, err := at(rec, 1)
	if err != nil {
		fmt.Fprintf(w, "  warning: skipping record %s: %v\n", featureID, err)
		return nil, false
	}

	fieldsVal, err := at(rec, 5)
	if err != nil {
		fmt.Fprintf(w, "  warning: skipping record %s: %v\n", featureID, err)
		return nil, false
	}
	fields, ok := fieldsVal.([]any)
	if !ok {
		return nil, false
	}

	cand := &types.PlaceCandidate{FeatureID: featureID}

	if lat, lng, found := findCoordinates(geometry, 0); found {
		cand.Lat, cand.Lng = &lat, &lng
	}

	// Field tuples come as ["name", ["value"], 1], ["description", ["value"], 1],
	// or [null, "ChIJ…", true] for the Place ID.
	for _, f := range fields {
		tuple, ok := f.([]any)
		if !ok || len(tuple) < 2 {
			continue
		}

		switch key := tuple[0].(type) {
		case string:
			switch key {
			case "name":
				if v, ok := firstString(tuple[1]); ok {
					cand.Name = v
				}
			case "description":
				if v, ok := firstString(tuple[1]); ok {
					cand.Description = v
				}
			}
		case nil:
			if len(tuple) >= 3 {
				if s, ok := tuple[1].(string); ok && looksLikePlaceID(s) {
					cand.PlaceID = s
				}
			}
		}
	}

	// Some records bury the Place ID elsewhere in the fields subtree.
	if cand.PlaceID == "" {
		if s, found := findPlaceID(fields, 0); found {
			cand.PlaceID = s
		}
	}

	if cand.Name == "" {
		return nil, false
	}
	return cand, true
}

// findCoordinates searches geometry for the first sequence of exactly two
// numbers forming a valid (latitude, longitude) pair. First vertex wins;
// this is a heuristic, not a nearest match.
func findCoordinates(geometry any, depth int) (lat, lng float64, found bool) {
	if depth > geometryMaxDepth {
		return 0, 0, false
	}

	s, ok := geometry.([]any)
	if !ok {
		return 0, 0, false
	}

	if len(s) == 2 {
		a, aok := s[0].(float64)
		b, bok := s[1].(float64)
		if aok && bok && a >= -90 && a <= 90 && b >= -180 && b <= 180 {
			return a, b, true
		}
	}

	for _, el := range s {
		if _, ok := el.([]any); !ok {
			continue
		}
		if lat, lng, found = findCoordinates(el, depth+1); found {
			return lat, lng, true
		}
	}
	return 0, 0, false
}

// findPlaceID recursively searches v for any string with a recognized
// Place ID prefix.
func findPlaceID(v any, depth int) (string, bool) {
	if depth > placeIDMaxDepth {
		return "", false
	}

	switch t := v.(type) {
	case string:
		if looksLikePlaceID(t) {
			return t, true
		}
	case []any:
		for _, el := range t {
			if s, found := findPlaceID(el, depth+1); found {
				return s, true
			}
		}
	}
	return "", false
}
