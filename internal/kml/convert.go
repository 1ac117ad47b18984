// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kml converts a My Maps KML export into the place catalog.
// Folders become categories and Placemarks become places. Conversion
// rebuilds the catalog wholesale; identifiers attached by sync are
// restored by the next sync run.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// KML document structure, reduced to the elements conversion reads.
type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Folders []kmlFolder `xml:"Folder"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name         string    `xml:"name"`
	Description  string    `xml:"description"`
	Point        string    `xml:"Point>coordinates"`
	Line         string    `xml:"LineString>coordinates"`
	ExtendedData []kmlData `xml:"ExtendedData>Data"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// mediaLinksField is the ExtendedData entry carrying image URLs.
const mediaLinksField = "gx_media_links"

// Convert parses a KML export and builds a catalog from it. Place IDs are
// slugified names; collisions get a numeric suffix, reported on w.
func Convert(content []byte, w io.Writer) (*types.Catalog, error) {
	var root kmlRoot
	if err := xml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parsing KML: %w", err)
	}

	cat := types.NewCatalog()
	seen := map[string]bool{}

	for _, folder := range root.Document.Folders {
		categoryName := strings.TrimSpace(folder.Name)
		categoryID := ToID(categoryName)
		count := 0

		for _, pm := range folder.Placemarks {
			place, err := convertPlacemark(pm, categoryID, seen, w)
			if err != nil {
				return nil, fmt.Errorf("placemark %q in folder %q: %w", pm.Name, categoryName, err)
			}
			cat.Places[place.ID] = place
			seen[place.ID] = true
			count++
		}

		cat.Categories[categoryID] = &types.Category{Name: categoryName, Count: count}
	}

	return cat, nil
}

func convertPlacemark(pm kmlPlacemark, categoryID string, seen map[string]bool, w io.Writer) (*types.Place, error) {
	name := strings.TrimSpace(pm.Name)

	id := ToID(name)
	for i := 2; seen[id]; i++ {
		id = ToID(name) + strconv.Itoa(i)
		fmt.Fprintf(w, "duplicate id: %s -> %s\n", name, id)
	}

	coords, err := parseCoordinates(pm.Point, pm.Line)
	if err != nil {
		return nil, err
	}

	place := &types.Place{
		Name:        name,
		ID:          id,
		Coordinates: coords,
		Category:    categoryID,
	}

	if desc := strings.TrimSpace(pm.Description); desc != "" {
		place.Description = Cleanup(desc)
	}

	for _, data := range pm.ExtendedData {
		if data.Name != mediaLinksField {
			continue
		}
		for _, img := range strings.Fields(data.Value) {
			place.Img = append(place.Img, img)
		}
	}

	return place, nil
}

// parseCoordinates reads the first (longitude, latitude) pair from a KML
// coordinates string: comma-separated tuples, whitespace between vertices.
// Point geometry wins over LineString when both exist.
func parseCoordinates(point, line string) ([]float64, error) {
	raw := strings.TrimSpace(point)
	if raw == "" {
		raw = strings.TrimSpace(line)
	}
	if raw == "" {
		return nil, fmt.Errorf("no coordinates element")
	}

	first := strings.Fields(raw)[0]
	parts := strings.Split(first, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("malformed coordinate tuple %q", first)
	}

	coords := make([]float64, 0, 2)
	for _, p := range parts[:2] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing coordinate %q: %w", p, err)
		}
		coords = append(coords, v)
	}
	return coords, nil
}
