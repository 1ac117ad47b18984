// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagedata

import (
	"fmt"
	"io"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// LayerStats holds per-layer extraction counts for the run summary.
type LayerStats struct {
	// Name is the layer's display name.
	Name string `yaml:"name"`
	// Records is how many feature records the locator found in the layer.
	Records int `yaml:"records"`
	// Places is how many of those yielded a place candidate.
	Places int `yaml:"places"`
}

// ExtractPlaces walks a normalized document and returns every place
// candidate it contains. The document is expected to be [meta, mapData]
// with mapData[6] holding the layer list; each layer names itself at
// index 2. Structural deviations degrade to a warning on w and an empty
// result rather than an error; the schema is undocumented and has drifted
// before.
func ExtractPlaces(doc any, w io.Writer) ([]types.PlaceCandidate, []LayerStats) {
	root, ok := doc.([]any)
	if !ok || len(root) < 2 {
		fmt.Fprintln(w, "warning: page data does not have the expected [meta, map] structure")
		return nil, nil
	}

	mapData, ok := root[1].([]any)
	if !ok || len(mapData) < 7 {
		fmt.Fprintln(w, "warning: map data does not have the expected structure")
		return nil, nil
	}

	layers, ok := mapData[6].([]any)
	if !ok {
		fmt.Fprintln(w, "warning: layer list missing from map data")
		return nil, nil
	}

	fmt.Fprintf(w, "found %d layers\n", len(layers))

	var places []types.PlaceCandidate
	var stats []LayerStats

	for i, l := range layers {
		layer, ok := l.([]any)
		if !ok {
			continue
		}

		name := layerName(layer, i)
		fmt.Fprintf(w, "processing layer: %s\n", name)

		records := FindFeatureRecords(layer, 0)
		count := 0
		for _, rec := range records {
			cand, ok := ExtractPlace(rec, w)
			if !ok {
				continue
			}
			places = append(places, *cand)
			count++
		}

		fmt.Fprintf(w, "  found %d features with data\n", count)
		stats = append(stats, LayerStats{Name: name, Records: len(records), Places: count})
	}

	return places, stats
}

// layerName returns the layer's display name at index 2, or a positional
// fallback.
func layerName(layer []any, idx int) string {
	if name, err := stringAt(layer, 2); err == nil {
		return name
	}
	return fmt.Sprintf("Layer %d", idx)
}
