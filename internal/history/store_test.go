// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/guide-engine/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(v float64) *float64 { return &v }

func sampleRun() Run {
	return Run{
		StartedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		SourceURL:   "https://www.google.com/maps/d/viewer?mid=abc",
		Layers:      2,
		Features:    10,
		Candidates:  8,
		WithPlaceID: 6,
		Updated:     3,
		AlreadyHad:  2,
		Unmatched:   1,
	}
}

func TestRecordRunAndListRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.RecordRun(ctx, sampleRun(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero run ID")
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	want := sampleRun()
	if got.ID != id || got.SourceURL != want.SourceURL ||
		got.Layers != want.Layers || got.Features != want.Features ||
		got.Candidates != want.Candidates || got.WithPlaceID != want.WithPlaceID ||
		got.Updated != want.Updated || got.AlreadyHad != want.AlreadyHad ||
		got.Unmatched != want.Unmatched {
		t.Errorf("run = %+v, want %+v", got, want)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("started at %v, want %v", got.StartedAt, want.StartedAt)
	}
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.Updated = i
		id, err := s.RecordRun(ctx, run, nil)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("runs out of order: %d, %d", runs[0].ID, runs[1].ID)
	}
}

func TestRunCandidates_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	candidates := []types.PlaceCandidate{
		{
			FeatureID: "1A2B3C4D5E6F7081",
			Name:      "Eiffel Tower",
			Lat:       ptr(48.85837),
			Lng:       ptr(2.29448),
			PlaceID:   "ChIJLU7jZClu5kcR4PcOOO6p3I0",
		},
		{
			FeatureID: "0000000000000001",
			Name:      "No Geometry",
		},
	}

	id, err := s.RecordRun(ctx, sampleRun(), candidates)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.RunCandidates(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}

	first := got[0]
	if first.FeatureID != "1A2B3C4D5E6F7081" || first.Name != "Eiffel Tower" ||
		first.PlaceID != "ChIJLU7jZClu5kcR4PcOOO6p3I0" {
		t.Errorf("candidate = %+v", first)
	}
	if first.Lat == nil || *first.Lat != 48.85837 || first.Lng == nil || *first.Lng != 2.29448 {
		t.Errorf("coordinates = %v, %v", first.Lat, first.Lng)
	}

	second := got[1]
	if second.Lat != nil || second.Lng != nil {
		t.Errorf("missing coordinates should come back nil, got %v, %v", second.Lat, second.Lng)
	}
	if second.PlaceID != "" {
		t.Errorf("place ID = %q, want empty", second.PlaceID)
	}
}

func TestRunCandidates_UnknownRun(t *testing.T) {
	s := openStore(t)

	got, err := s.RunCandidates(context.Background(), 999)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %d candidates for an unknown run", len(got))
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.HistoryConfig{DataDir: dir}

	s, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.RecordRun(context.Background(), sampleRun(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	runs, err := reopened.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("reopened store lost the recorded run: %+v", runs)
	}
}
