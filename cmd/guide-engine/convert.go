// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/guide-engine/internal/catalog"
	"github.com/pdiddy/guide-engine/internal/kml"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a KML export into the place catalog",
	Long: `Convert reads a My Maps KML export and rebuilds map.json from it:
folders become categories and placemarks become places with slug IDs,
(longitude, latitude) coordinates, cleaned descriptions, and image lists.

Conversion rebuilds the catalog wholesale. Place IDs attached by sync are
restored the next time sync runs.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	kmlPath := stringSetting(cmd, "kml", "conversion.kml_path")
	catalogPath := stringSetting(cmd, "catalog", "catalog.path")
	mirrorPath := stringSetting(cmd, "mirror", "catalog.mirror_path")

	content, err := os.ReadFile(kmlPath)
	if err != nil {
		return fmt.Errorf("reading KML %s: %w", kmlPath, err)
	}

	cat, err := kml.Convert(content, w)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "converted %d places in %d categories\n", len(cat.Places), len(cat.Categories))

	if err := catalog.SaveMirrored(cat, catalogPath, mirrorPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "saved catalog to %s\n", catalogPath)
	return nil
}

func init() {
	convertCmd.Flags().String("kml", "data/map.kml", "KML export to convert")
	convertCmd.Flags().String("catalog", "data/map.json", "catalog path")
	convertCmd.Flags().String("mirror", "", "secondary catalog path kept in sync on save")

	rootCmd.AddCommand(convertCmd)
}
