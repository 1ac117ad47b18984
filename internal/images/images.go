// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images mirrors external images referenced by the KML export into
// the local image directory, naming each file by the SHA-256 of its content
// and rewriting the KML to point at the mirrored copy. Content hashing
// makes the mirror idempotent: re-downloading an unchanged image lands on
// the same filename.
package images

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// imgSrcPattern finds image links inside KML description HTML.
var imgSrcPattern = regexp.MustCompile(`<img src="(.+?)"`)

// Summary holds the outcome of a mirroring run.
type Summary struct {
	Mirrored int
	Skipped  int
	Failed   int
}

// Total returns the number of image links processed.
func (s Summary) Total() int {
	return s.Mirrored + s.Skipped + s.Failed
}

// HasFailures reports whether any downloads failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Mirror downloads every external image referenced by the KML at
// cfg.KMLPath, stores it under cfg.ImagesDir, and rewrites the KML links
// in place. Links that are not http(s) URLs were mirrored by an earlier
// run and are skipped. Individual download failures are logged on w and
// leave the original link untouched.
func Mirror(ctx context.Context, client *http.Client, cfg types.ImagesConfig, w io.Writer) (Summary, error) {
	content, err := os.ReadFile(cfg.KMLPath)
	if err != nil {
		return Summary{}, fmt.Errorf("reading KML %s: %w", cfg.KMLPath, err)
	}

	if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating images directory: %w", err)
	}

	var summary Summary
	text := string(content)

	for _, m := range imgSrcPattern.FindAllStringSubmatch(text, -1) {
		url := m[1]
		if !strings.HasPrefix(url, "http") {
			summary.Skipped++
			continue
		}

		if summary.Mirrored > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(cfg.DownloadDelay):
			}
		}

		local, err := download(ctx, client, url, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
			summary.Failed++
			continue
		}

		text = strings.ReplaceAll(text, url, local)
		fmt.Fprintf(w, "mirrored: %s -> %s\n", url, local)
		summary.Mirrored++
	}

	if summary.Mirrored > 0 {
		if err := writeFile(cfg.KMLPath, []byte(text)); err != nil {
			return summary, fmt.Errorf("rewriting KML: %w", err)
		}
	}

	fmt.Fprintf(w, "\nmirrored: %d, skipped: %d, failed: %d\n",
		summary.Mirrored, summary.Skipped, summary.Failed)
	return summary, nil
}

// download fetches url and stores it as <sha256>.<ext> under the image
// directory, returning the stored path.
func download(ctx context.Context, client *http.Client, url string, cfg types.ImagesConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	name := fmt.Sprintf("%x.%s", sha256.Sum256(data), extensionFor(data))
	path := filepath.Join(cfg.ImagesDir, name)

	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// extensionFor picks a file extension by content magic bytes.
func extensionFor(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x47, 0x49, 0x46}):
		return "gif"
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4e}):
		return "png"
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return "jpg"
	default:
		return "bin"
	}
}

// writeFile writes data through a temp file in the target directory,
// renamed on success.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".images-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
