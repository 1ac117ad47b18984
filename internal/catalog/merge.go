// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"io"
	"math"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// CoordinatePrecision is the number of decimal places coordinates are
// rounded to before matching. Five places is roughly 1.1 m, tight enough
// to join the two datasets without false matches between neighbors.
const CoordinatePrecision = 5

// CoordinateKey is a rounded (latitude, longitude) pair used as an
// approximate-equality join key. Two candidates with equal keys are
// treated as the same physical place.
type CoordinateKey struct {
	Lat float64
	Lng float64
}

// KeyFor rounds a (lat, lng) pair to CoordinatePrecision. Rounding is
// deterministic: values within half the precision step collapse to the
// same key.
func KeyFor(lat, lng float64) CoordinateKey {
	return CoordinateKey{Lat: roundCoord(lat), Lng: roundCoord(lng)}
}

func roundCoord(v float64) float64 {
	scale := math.Pow(10, CoordinatePrecision)
	return math.Round(v*scale) / scale
}

// MergeSummary holds the counters a merge run reports.
type MergeSummary struct {
	// Updated counts catalog entries that received a new place ID.
	Updated int
	// AlreadyHad counts entries matched by coordinates that already
	// carried a place ID. A re-run over the same data lands entirely here.
	AlreadyHad int
	// Unmatched counts entries whose coordinates matched no candidate.
	Unmatched int
}

// lookupEntry pairs a place ID with the candidate name it came from, kept
// for collision diagnostics.
type lookupEntry struct {
	placeID string
	name    string
}

// MergePlaceIDs attaches extracted place IDs to catalog entries whose
// coordinates match a candidate within rounding tolerance. Candidates
// without both a coordinate pair and a place ID are ignored. Entries that
// already carry a place ID are never overwritten, which makes the
// operation idempotent: a second run with the same candidates performs
// zero updates.
//
// The catalog stores (lng, lat) while candidates carry (lat, lng); both
// sides are normalized to (lat, lng) before rounding. Candidates that
// collide on a rounded key are flagged on w; the later candidate wins the
// lookup slot.
func MergePlaceIDs(cat *types.Catalog, candidates []types.PlaceCandidate, w io.Writer) MergeSummary {
	lookup := make(map[CoordinateKey]lookupEntry)
	for _, c := range candidates {
		if !c.Mergeable() {
			continue
		}
		key := KeyFor(*c.Lat, *c.Lng)
		if prev, ok := lookup[key]; ok && prev.placeID != c.PlaceID {
			fmt.Fprintf(w, "warning: coordinate collision at (%.5f, %.5f): %q replaces %q\n",
				key.Lat, key.Lng, c.Name, prev.name)
		}
		lookup[key] = lookupEntry{placeID: c.PlaceID, name: c.Name}
	}

	fmt.Fprintf(w, "%d candidates with place IDs and coordinates\n", len(lookup))

	var summary MergeSummary
	for _, place := range cat.Places {
		if len(place.Coordinates) < 2 {
			continue
		}
		// Catalog order is (lng, lat).
		lng, lat := place.Coordinates[0], place.Coordinates[1]

		entry, ok := lookup[KeyFor(lat, lng)]
		if !ok {
			summary.Unmatched++
			continue
		}
		if place.GooglePlaceID != "" {
			summary.AlreadyHad++
			continue
		}
		place.GooglePlaceID = entry.placeID
		summary.Updated++
	}

	fmt.Fprintf(w, "updated %d, already had %d, unmatched %d\n",
		summary.Updated, summary.AlreadyHad, summary.Unmatched)
	return summary
}
