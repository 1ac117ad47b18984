// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/guide-engine/internal/images"
	"github.com/pdiddy/guide-engine/pkg/types"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Mirror external images referenced by the KML export",
	Long: `Images downloads every external <img> link in the KML, stores each file
under the image directory named by its content hash, and rewrites the KML
to point at the local copies. Links already rewritten are skipped, so the
command is safe to re-run.`,
	RunE: runImages,
}

func runImages(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	delay, _ := cmd.Flags().GetDuration("delay")
	cfg := types.ImagesConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: stringSetting(cmd, "user-agent", "images.user_agent"),
		},
		KMLPath:       stringSetting(cmd, "kml", "images.kml_path"),
		ImagesDir:     stringSetting(cmd, "images-dir", "images.images_dir"),
		DownloadDelay: delay,
	}

	client := &http.Client{Timeout: cfg.Timeout}
	summary, err := images.Mirror(context.Background(), client, cfg, w)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d image(s) failed to download", summary.Failed)
	}
	return nil
}

func init() {
	imagesCmd.Flags().String("kml", "data/map.kml", "KML document whose image links are rewritten")
	imagesCmd.Flags().String("images-dir", "data/images", "directory for downloaded images")
	imagesCmd.Flags().String("user-agent", "", "User-Agent header for downloads")
	imagesCmd.Flags().Duration("timeout", 60*time.Second, "HTTP request timeout")
	imagesCmd.Flags().Duration("delay", 0, "delay between consecutive downloads")

	rootCmd.AddCommand(imagesCmd)
}
