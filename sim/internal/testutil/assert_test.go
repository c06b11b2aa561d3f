package testutil

import "testing"

func TestAssertFloat64Equal_WithinTolerance(t *testing.T) {
	AssertFloat64Equal(t, "exact", 1.0, 1.0, 0)
	AssertFloat64Equal(t, "close", 100.0, 100.5, 0.01)
	AssertFloat64Equal(t, "zeros", 0, 0, 0)
}

func TestAssertFrequencies_Proportional(t *testing.T) {
	AssertFrequencies(t, "shares", []int{1, 3}, []int{250, 750}, 0.001)
}
