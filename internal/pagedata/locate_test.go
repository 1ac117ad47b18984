// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagedata

import (
	"reflect"
	"testing"
)

// featureRecord builds a minimal valid feature record for tests.
func featureRecord(id string) []any {
	return []any{id, []any{}, nil, nil, float64(0), []any{}}
}

func TestIsFeatureID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"valid", "44A273877D20D12D", true},
		{"all digits", "0123456789012345", true},
		{"lowercase", "44a273877d20d12d", false},
		{"too short", "44A273877D20D12", false},
		{"too long", "44A273877D20D12D1", false},
		{"non-hex letter", "44G273877D20D12D", false},
		{"not a string", float64(42), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFeatureID(tt.in); got != tt.want {
				t.Errorf("IsFeatureID(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindFeatureRecords(t *testing.T) {
	first := featureRecord("AAAAAAAAAAAAAAA0")
	second := featureRecord("BBBBBBBBBBBBBBB1")

	doc := []any{
		"meta",
		[]any{
			[]any{first},
			"noise",
			[]any{[]any{[]any{second}}},
		},
	}

	got := FindFeatureRecords(doc, 0)
	if len(got) != 2 {
		t.Fatalf("found %d records, want 2", len(got))
	}
	// Discovery order follows the document's own ordering.
	if !reflect.DeepEqual([]any(got[0]), first) || !reflect.DeepEqual([]any(got[1]), second) {
		t.Errorf("records out of order: %v", got)
	}
}

func TestFindFeatureRecords_NoDescentIntoMatch(t *testing.T) {
	inner := featureRecord("CCCCCCCCCCCCCCC2")
	outer := featureRecord("DDDDDDDDDDDDDDD3")
	outer[1] = []any{inner} // nested record inside the geometry slot

	got := FindFeatureRecords([]any{outer}, 0)
	if len(got) != 1 {
		t.Fatalf("found %d records, want 1 (no descent into a match)", len(got))
	}
	if got[0][0] != "DDDDDDDDDDDDDDD3" {
		t.Errorf("got record %v", got[0][0])
	}
}

func TestFindFeatureRecords_ShortSequenceDescended(t *testing.T) {
	// A hex first element is not enough: fewer than six elements means
	// the sequence is a container, not a record.
	rec := featureRecord("EEEEEEEEEEEEEEE4")
	short := []any{"FFFFFFFFFFFFFFF5", []any{rec}}

	got := FindFeatureRecords(short, 0)
	if len(got) != 1 || got[0][0] != "EEEEEEEEEEEEEEE4" {
		t.Fatalf("got %v, want the nested record only", got)
	}
}

func TestFindFeatureRecords_Scalars(t *testing.T) {
	for _, v := range []any{"44A273877D20D12D", float64(1), true, nil} {
		if got := FindFeatureRecords(v, 0); got != nil {
			t.Errorf("FindFeatureRecords(%v) = %v, want nil", v, got)
		}
	}
}

func TestFindFeatureRecords_DepthBound(t *testing.T) {
	// A structure nested 1000 deep must terminate without finding the
	// record buried at the bottom.
	v := []any{featureRecord("0000000000000000")}
	for i := 0; i < 1000; i++ {
		v = []any{v}
	}

	if got := FindFeatureRecords(v, 0); len(got) != 0 {
		t.Errorf("found %d records, want 0 (depth bound)", len(got))
	}
}

func TestFindFeatureRecords_WithinDepthBound(t *testing.T) {
	v := []any{featureRecord("0000000000000001")}
	for i := 0; i < 5; i++ {
		v = []any{v}
	}

	if got := FindFeatureRecords(v, 0); len(got) != 1 {
		t.Errorf("found %d records, want 1", len(got))
	}
}
