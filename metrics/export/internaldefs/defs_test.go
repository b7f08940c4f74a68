package internaldefs

import (
	"math"
	"strings"
	"testing"
)

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDefinitionsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range CounterDefs {
		if !strings.HasPrefix(d.Name, "gosignin_") || !strings.HasSuffix(d.Name, "_total") {
			t.Fatalf("counter %q breaks naming convention", d.Name)
		}
		if seen[d.Name] {
			t.Fatalf("duplicate metric %q", d.Name)
		}
		seen[d.Name] = true
	}
	for _, d := range HistogramDefs {
		if seen[d.Name] {
			t.Fatalf("duplicate metric %q", d.Name)
		}
		seen[d.Name] = true
	}
	if len(HistogramBoundSuffix) != len(HistogramUpperBounds)+1 {
		t.Fatalf("bucket suffixes and bounds disagree")
	}
}

func TestApproxSum(t *testing.T) {
	if got := ApproxSum([8]uint64{2, 0, 0, 0, 1}); math.Abs(got-1.1) > 1e-9 {
		t.Fatalf("expected 1.1, got %v", got)
	}
}
