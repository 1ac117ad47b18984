// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed renders an RSS feed of the newest catalog places.
package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gorilla/feeds"

	"github.com/pdiddy/guide-engine/pkg/types"
)

// defaultMaxEntries caps the feed when the config does not.
const defaultMaxEntries = 50

// entry pairs a place with its parsed creation time for sorting.
type entry struct {
	place   *types.Place
	created time.Time
}

// Generate renders the RSS document for the newest places in the catalog.
// Places without a parseable created timestamp are left out; the feed
// exists to announce additions, and an undated place predates the feed.
func Generate(cat *types.Catalog, cfg types.FeedConfig) (string, error) {
	entries := make([]entry, 0, len(cat.Places))
	for _, p := range cat.Places {
		t, ok := parseCreated(p.Created)
		if !ok {
			continue
		}
		entries = append(entries, entry{place: p, created: t})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].created.Equal(entries[j].created) {
			return entries[i].place.ID < entries[j].place.ID
		}
		return entries[i].created.After(entries[j].created)
	})

	max := cfg.MaxEntries
	if max <= 0 {
		max = defaultMaxEntries
	}
	if len(entries) > max {
		entries = entries[:max]
	}

	f := &feeds.Feed{
		Id:    cfg.SiteURL,
		Title: cfg.Title,
		Link:  &feeds.Link{Href: cfg.SourceURL, Rel: "alternate"},
	}
	if cfg.Author != "" {
		f.Author = &feeds.Author{Name: cfg.Author}
	}

	var latest time.Time
	for _, e := range entries {
		if e.created.After(latest) {
			latest = e.created
		}
		f.Items = append(f.Items, &feeds.Item{
			Id:      e.place.ID,
			Title:   fmt.Sprintf("%s added to the travel guide", e.place.Name),
			Link:    &feeds.Link{Href: fmt.Sprintf("%s#%s", cfg.SiteURL, e.place.ID)},
			Created: e.created,
			Updated: e.created,
		})
	}
	f.Updated = latest

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = "en"

	return feeds.ToXML(rss)
}

// Write renders the feed and writes it to cfg.OutputPath.
func Write(cat *types.Catalog, cfg types.FeedConfig) error {
	xml, err := Generate(cat, cfg)
	if err != nil {
		return fmt.Errorf("rendering feed: %w", err)
	}

	dir := filepath.Dir(cfg.OutputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating feed directory %s: %w", dir, err)
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(xml+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	return nil
}

// parseCreated accepts RFC 3339 timestamps and bare dates.
func parseCreated(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
