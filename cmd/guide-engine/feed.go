// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/guide-engine/internal/catalog"
	"github.com/pdiddy/guide-engine/internal/feed"
	"github.com/pdiddy/guide-engine/pkg/types"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Render an RSS feed of the newest places",
	Long: `Feed reads the catalog and writes an RSS document announcing the most
recently added places, newest first.`,
	RunE: runFeed,
}

func runFeed(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	maxEntries, _ := cmd.Flags().GetInt("max-entries")
	cfg := types.FeedConfig{
		Title:      stringSetting(cmd, "title", "feed.title"),
		SiteURL:    stringSetting(cmd, "site-url", "feed.site_url"),
		SourceURL:  stringSetting(cmd, "source-url", "feed.source_url"),
		Author:     stringSetting(cmd, "author", "feed.author"),
		OutputPath: stringSetting(cmd, "output", "feed.output_path"),
		MaxEntries: maxEntries,
	}

	catalogPath := stringSetting(cmd, "catalog", "catalog.path")
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	if err := feed.Write(cat, cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote feed to %s\n", cfg.OutputPath)
	return nil
}

func init() {
	feedCmd.Flags().String("catalog", "data/map.json", "catalog path")
	feedCmd.Flags().String("title", "Travel Guide - New Places", "feed title")
	feedCmd.Flags().String("site-url", "", "public URL of the travel guide")
	feedCmd.Flags().String("source-url", "", "alternate link (e.g. the repository)")
	feedCmd.Flags().String("author", "", "feed author name")
	feedCmd.Flags().String("output", "data/rss.xml", "output path for the rendered feed")
	feedCmd.Flags().Int("max-entries", 50, "maximum number of feed entries")

	rootCmd.AddCommand(feedCmd)
}
