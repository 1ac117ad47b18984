// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/guide-engine/pkg/types"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	cat := testCatalog()
	cat.Categories["landmarks"] = &types.Category{Name: "Landmarks", Count: 1}
	path := filepath.Join(t.TempDir(), "map.json")

	if err := Save(cat, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cat, loaded) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cat, loaded)
	}
}

func TestSave_Deterministic(t *testing.T) {
	cat := testCatalog()
	cat.Places["zzz"] = &types.Place{Name: "Z", ID: "zzz", Coordinates: []float64{1, 2}, Category: "c"}
	cat.Places["aaa"] = &types.Place{Name: "A", ID: "aaa", Coordinates: []float64{3, 4}, Category: "c"}

	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.json")
	p2 := filepath.Join(dir, "two.json")
	if err := Save(cat, p1); err != nil {
		t.Fatal(err)
	}
	if err := Save(cat, p2); err != nil {
		t.Fatal(err)
	}

	d1, _ := os.ReadFile(p1)
	d2, _ := os.ReadFile(p2)
	if !bytes.Equal(d1, d2) {
		t.Error("two saves of the same catalog differ")
	}

	// Keys come out sorted, so diffs stay reviewable.
	if aaa, zzz := bytes.Index(d1, []byte(`"aaa"`)), bytes.Index(d1, []byte(`"zzz"`)); aaa < 0 || zzz < 0 || aaa > zzz {
		t.Errorf("keys not sorted: aaa at %d, zzz at %d", aaa, zzz)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Save(testCatalog(), filepath.Join(dir, "map.json")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".catalog-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadFirst(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "public", "map.json")
	secondary := filepath.Join(dir, "map.json")

	if err := Save(testCatalog(), secondary); err != nil {
		t.Fatal(err)
	}

	_, used, err := LoadFirst(primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if used != secondary {
		t.Errorf("loaded from %s, want %s", used, secondary)
	}

	if _, _, err := LoadFirst(primary, filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error when no catalog exists")
	}
}

func TestSaveMirrored(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "map.json")
	mirror := filepath.Join(dir, "mirror.json")

	// Mirror file absent: only the primary is written.
	if err := SaveMirrored(testCatalog(), primary, mirror); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(mirror); !os.IsNotExist(err) {
		t.Error("mirror created although it did not exist before")
	}

	// Mirror file present: both are written.
	if err := os.WriteFile(mirror, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := SaveMirrored(testCatalog(), primary, mirror); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(mirror)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("eiffel-tower")) {
		t.Error("mirror not updated")
	}
}

func TestLoad_InitializesEmptyMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cat.Places == nil || cat.Categories == nil {
		t.Error("maps not initialized")
	}
}
