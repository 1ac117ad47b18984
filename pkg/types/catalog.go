// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Place is one entry in the canonical catalog, keyed by its slug ID.
// Coordinates are stored in (longitude, latitude) order, following the
// GeoJSON convention used by the site.
type Place struct {
	// Name is the display name.
	Name string `json:"name"`

	// ID is the slug, repeated inside the record for consumers that
	// iterate values only.
	ID string `json:"id"`

	// Coordinates is the [longitude, latitude] pair.
	Coordinates []float64 `json:"coordinates"`

	// Category is the slug of the category the place belongs to.
	Category string `json:"category"`

	// Description is the cleaned-up description text, when present.
	Description string `json:"description,omitempty"`

	// Img lists mirrored image paths for the place.
	Img []string `json:"img,omitempty"`

	// Created is when the place was added, RFC 3339.
	Created string `json:"created,omitempty"`

	// GooglePlaceID is the external place identifier attached by sync.
	// Once set it is never overwritten.
	GooglePlaceID string `json:"googlePlaceId,omitempty"`
}

// Category is one catalog category with its place count.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog is the canonical place dataset (map.json).
type Catalog struct {
	Places     map[string]*Place    `json:"places"`
	Categories map[string]*Category `json:"categories"`
}

// NewCatalog returns an empty catalog with initialized maps.
func NewCatalog() *Catalog {
	return &Catalog{
		Places:     map[string]*Place{},
		Categories: map[string]*Category{},
	}
}
