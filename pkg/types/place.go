// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PlaceCandidate is one place extracted from the My Maps page data. It is
// transient: produced by extraction, consumed by the catalog merge.
type PlaceCandidate struct {
	// FeatureID is the 16-character hex identifier of the source feature record.
	FeatureID string `json:"feature_id" yaml:"feature_id"`

	// Name is the place name. Extraction discards records without one.
	Name string `json:"name" yaml:"name"`

	// Description is the place description, when present.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Lat and Lng are the first geometry vertex found for the feature,
	// in degrees. Nil when the feature carries no usable geometry.
	Lat *float64 `json:"lat" yaml:"lat"`
	Lng *float64 `json:"lng" yaml:"lng"`

	// PlaceID is the Google Place ID ("ChIJ…" or "Ej…"), when present.
	PlaceID string `json:"place_id,omitempty" yaml:"place_id,omitempty"`
}

// HasCoordinates reports whether the candidate carries a full coordinate pair.
func (c PlaceCandidate) HasCoordinates() bool {
	return c.Lat != nil && c.Lng != nil
}

// Mergeable reports whether the candidate can participate in the catalog
// merge: it needs both coordinates and a place ID.
func (c PlaceCandidate) Mergeable() bool {
	return c.PlaceID != "" && c.HasCoordinates()
}
