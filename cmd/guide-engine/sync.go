// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/guide-engine/internal/catalog"
	"github.com/pdiddy/guide-engine/internal/fetch"
	"github.com/pdiddy/guide-engine/internal/history"
	"github.com/pdiddy/guide-engine/internal/pagedata"
	"github.com/pdiddy/guide-engine/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge Google Place IDs from My Maps into the catalog",
	Long: `Sync downloads the My Maps viewer page, extracts place records from the
embedded _pageData blob, and attaches Google Place IDs to catalog entries
matched by coordinates. Entries that already carry a place ID are left
alone, so re-running sync is safe.

A failed page-data parse writes a diagnostic dump under the data directory
and aborts before the catalog is touched.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	cfg := types.SyncConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: stringSetting(cmd, "user-agent", "sync.user_agent"),
		},
		ViewerURL:  stringSetting(cmd, "url", "sync.viewer_url"),
		DataDir:    stringSetting(cmd, "data-dir", "sync.data_dir"),
		MaxRetries: maxRetries,
	}

	started := time.Now()

	html, err := loadViewerDocument(cmd, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "document: %d bytes\n", len(html))

	doc, err := pagedata.Normalize(html)
	if err != nil {
		var malformed *pagedata.MalformedLiteralError
		if errors.As(err, &malformed) {
			dumpPath := filepath.Join(cfg.DataDir, "pagedata_debug.txt")
			if dumpErr := writeDump(dumpPath, malformed.Snippet); dumpErr != nil {
				fmt.Fprintf(w, "warning: could not write diagnostic dump: %v\n", dumpErr)
			} else {
				fmt.Fprintf(w, "wrote diagnostic dump to %s\n", dumpPath)
			}
		}
		return err
	}

	if audit, _ := cmd.Flags().GetBool("audit"); audit {
		auditPath := filepath.Join(cfg.DataDir, "pagedata.json")
		if err := writeAudit(auditPath, doc); err != nil {
			fmt.Fprintf(w, "warning: audit write failed: %v\n", err)
		} else {
			fmt.Fprintf(w, "wrote parsed page data to %s\n", auditPath)
		}
	}

	places, stats := pagedata.ExtractPlaces(doc, w)

	mergeable := 0
	for _, p := range places {
		if p.Mergeable() {
			mergeable++
		}
	}
	fmt.Fprintf(w, "\nextracted %d places, %d with place IDs\n", len(places), mergeable)

	catalogPath := stringSetting(cmd, "catalog", "catalog.path")
	mirrorPath := stringSetting(cmd, "mirror", "catalog.mirror_path")

	cat, loadedFrom, err := catalog.LoadFirst(catalogPath, mirrorPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "catalog %s: %d places\n", loadedFrom, len(cat.Places))

	summary := catalog.MergePlaceIDs(cat, places, w)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprintln(w, "dry run: catalog not written")
		return nil
	}

	mirror := mirrorPath
	if loadedFrom == mirrorPath {
		mirror = catalogPath
	}
	if err := catalog.SaveMirrored(cat, loadedFrom, mirror); err != nil {
		return err
	}
	fmt.Fprintf(w, "saved catalog to %s\n", loadedFrom)

	if err := writeSyncReport(cfg, started, places, stats, summary); err != nil {
		fmt.Fprintf(w, "warning: report write failed: %v\n", err)
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		if err := recordSyncRun(cfg, started, places, stats, mergeable, summary); err != nil {
			fmt.Fprintf(w, "warning: history record failed: %v\n", err)
		}
	}

	return nil
}

// loadViewerDocument reads the page from --input when given, otherwise
// fetches the viewer URL.
func loadViewerDocument(cmd *cobra.Command, cfg types.SyncConfig) (string, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("reading input document %s: %w", input, err)
		}
		return string(data), nil
	}

	if cfg.ViewerURL == "" {
		return "", fmt.Errorf("no viewer URL: set --url, sync.viewer_url in the config, or --input")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return fetch.Document(context.Background(), client, cfg.ViewerURL, cfg)
}

func writeDump(path, snippet string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(snippet), 0o644)
}

func writeAudit(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// syncReport is the per-run YAML report written under data/reports/.
type syncReport struct {
	StartedAt  string                 `yaml:"started_at"`
	SourceURL  string                 `yaml:"source_url,omitempty"`
	Layers     []pagedata.LayerStats  `yaml:"layers"`
	Candidates []types.PlaceCandidate `yaml:"candidates"`
	Updated    int                    `yaml:"updated"`
	AlreadyHad int                    `yaml:"already_had"`
	Unmatched  int                    `yaml:"unmatched"`
}

func writeSyncReport(cfg types.SyncConfig, started time.Time, places []types.PlaceCandidate, stats []pagedata.LayerStats, summary catalog.MergeSummary) error {
	report := syncReport{
		StartedAt:  started.UTC().Format(time.RFC3339),
		SourceURL:  cfg.ViewerURL,
		Layers:     stats,
		Candidates: places,
		Updated:    summary.Updated,
		AlreadyHad: summary.AlreadyHad,
		Unmatched:  summary.Unmatched,
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	dir := filepath.Join(cfg.DataDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}
	path := filepath.Join(dir, "sync-"+started.UTC().Format("20060102-150405")+".yaml")
	return os.WriteFile(path, data, 0o644)
}

func recordSyncRun(cfg types.SyncConfig, started time.Time, places []types.PlaceCandidate, stats []pagedata.LayerStats, mergeable int, summary catalog.MergeSummary) error {
	store, err := history.NewStore(types.HistoryConfig{DataDir: cfg.DataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	records := 0
	for _, s := range stats {
		records += s.Records
	}

	run := history.Run{
		StartedAt:   started,
		SourceURL:   cfg.ViewerURL,
		Layers:      len(stats),
		Features:    records,
		Candidates:  len(places),
		WithPlaceID: mergeable,
		Updated:     summary.Updated,
		AlreadyHad:  summary.AlreadyHad,
		Unmatched:   summary.Unmatched,
	}
	_, err = store.RecordRun(context.Background(), run, places)
	return err
}

func init() {
	syncCmd.Flags().String("url", "", "Google My Maps viewer URL")
	syncCmd.Flags().String("input", "", "read the viewer page from a local file instead of fetching")
	syncCmd.Flags().String("catalog", "data/map.json", "catalog path")
	syncCmd.Flags().String("mirror", "", "secondary catalog path kept in sync on save")
	syncCmd.Flags().String("data-dir", "data", "base directory for reports, history, and diagnostics")
	syncCmd.Flags().String("user-agent", "", "User-Agent header for the fetch")
	syncCmd.Flags().Duration("timeout", 60*time.Second, "HTTP request timeout")
	syncCmd.Flags().Int("max-retries", 0, "retry attempts for rate-limited fetches (0 = default)")
	syncCmd.Flags().Bool("dry-run", false, "extract and match but do not write the catalog")
	syncCmd.Flags().Bool("audit", false, "persist the parsed page data for inspection")
	syncCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")

	rootCmd.AddCommand(syncCmd)
}
