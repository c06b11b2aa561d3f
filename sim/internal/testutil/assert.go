// Package testutil provides shared test helpers for the simulator packages.
// It deliberately does not import sim so that internal sim tests can use it.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFrequencies checks that observed counts are proportional to weights
// within an absolute tolerance on each share.
func AssertFrequencies(t *testing.T, name string, weights []int, counts []int, absTol float64) {
	t.Helper()
	if len(weights) != len(counts) {
		t.Fatalf("%s: %d weights but %d counts", name, len(weights), len(counts))
	}
	totalW, totalC := 0, 0
	for i := range weights {
		totalW += weights[i]
		totalC += counts[i]
	}
	if totalC == 0 {
		t.Fatalf("%s: no observations", name)
	}
	for i := range weights {
		want := float64(weights[i]) / float64(totalW)
		got := float64(counts[i]) / float64(totalC)
		if math.Abs(want-got) > absTol {
			t.Errorf("%s[%d]: share %.4f, want %.4f ± %.4f", name, i, got, want, absTol)
		}
	}
}
