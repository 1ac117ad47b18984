// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/guide-engine/pkg/types"
)

func feedConfig() types.FeedConfig {
	return types.FeedConfig{
		Title:     "Travel guide",
		SiteURL:   "https://example.com/guide",
		SourceURL: "https://example.com/guide",
		Author:    "The Guide",
	}
}

func catalogWith(places ...*types.Place) *types.Catalog {
	cat := types.NewCatalog()
	for _, p := range places {
		cat.Places[p.ID] = p
	}
	return cat
}

func TestGenerate(t *testing.T) {
	cat := catalogWith(
		&types.Place{Name: "Eiffel Tower", ID: "eiffel-tower", Created: "2026-03-01"},
		&types.Place{Name: "Louvre", ID: "louvre", Created: "2026-05-15T09:30:00Z"},
	)

	xml, err := Generate(cat, feedConfig())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"<title>Travel guide</title>",
		"Eiffel Tower added to the travel guide",
		"Louvre added to the travel guide",
		"https://example.com/guide#eiffel-tower",
		"<language>en</language>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	// Newest entries come first.
	if strings.Index(xml, "Louvre") > strings.Index(xml, "Eiffel Tower") {
		t.Error("entries not sorted newest first")
	}
}

func TestGenerate_SkipsUndatedPlaces(t *testing.T) {
	cat := catalogWith(
		&types.Place{Name: "Dated", ID: "dated", Created: "2026-01-01"},
		&types.Place{Name: "Undated", ID: "undated"},
		&types.Place{Name: "Garbled", ID: "garbled", Created: "not a date"},
	)

	xml, err := Generate(cat, feedConfig())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(xml, "Dated added") {
		t.Error("dated place missing")
	}
	for _, absent := range []string{"Undated added", "Garbled added"} {
		if strings.Contains(xml, absent) {
			t.Errorf("feed should not contain %q", absent)
		}
	}
}

func TestGenerate_CapsEntries(t *testing.T) {
	cat := catalogWith(
		&types.Place{Name: "Old", ID: "old", Created: "2025-01-01"},
		&types.Place{Name: "Middle", ID: "middle", Created: "2025-06-01"},
		&types.Place{Name: "New", ID: "new", Created: "2026-01-01"},
	)

	cfg := feedConfig()
	cfg.MaxEntries = 2

	xml, err := Generate(cat, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(xml, "Old added") {
		t.Error("oldest entry should drop off a capped feed")
	}
	if !strings.Contains(xml, "New added") || !strings.Contains(xml, "Middle added") {
		t.Error("newest entries missing from capped feed")
	}
}

func TestGenerate_TieBreaksOnID(t *testing.T) {
	cat := catalogWith(
		&types.Place{Name: "Bravo", ID: "bravo", Created: "2026-01-01"},
		&types.Place{Name: "Alpha", ID: "alpha", Created: "2026-01-01"},
	)

	xml, err := Generate(cat, feedConfig())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(xml, "Alpha added") > strings.Index(xml, "Bravo added") {
		t.Error("same-day entries not ordered by id")
	}
}

func TestWrite(t *testing.T) {
	cfg := feedConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "feeds", "rss.xml")

	cat := catalogWith(&types.Place{Name: "Eiffel Tower", ID: "eiffel-tower", Created: "2026-03-01"})
	if err := Write(cat, cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Eiffel Tower") {
		t.Error("written feed missing entry")
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("feed file should end with a newline")
	}
}

func TestParseCreated(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2026-03-01", true, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-05-15T09:30:00Z", true, time.Date(2026, 5, 15, 9, 30, 0, 0, time.UTC)},
		{"2026-05-15T09:30:00", true, time.Date(2026, 5, 15, 9, 30, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"March 1", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseCreated(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseCreated(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
