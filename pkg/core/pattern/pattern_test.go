package pattern

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGrowthPattern_RoundTrip(t *testing.T) {
	// Re-anchoring at the base's own first value must reproduce the base.
	base := []float64{10000, 12000, 15000}
	out := GrowthPattern(base, 10000)
	for i := range base {
		if !almostEqual(out[i], base[i]) {
			t.Errorf("round trip year %d: expected %f, got %f", i, base[i], out[i])
		}
	}
}

func TestGrowthPattern_PreservesRatios(t *testing.T) {
	// Base ratios: 12000/10000 = 1.2, 15000/12000 = 1.25
	// Anchor 20000 -> [20000, 24000, 30000]
	base := []float64{10000, 12000, 15000}
	out := GrowthPattern(base, 20000)
	expected := []float64{20000, 24000, 30000}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestGrowthPattern_ZeroPriorYear(t *testing.T) {
	// base[0] = 0 gives a neutral ratio of 1 into year 1, then 10/5 = 2.
	base := []float64{0, 5, 10}
	out := GrowthPattern(base, 7)
	expected := []float64{7, 7, 14}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestProportionalPattern_PreservesShares(t *testing.T) {
	// Base magnitudes 60/30/10 of a 100 total; new total 200 doubles each.
	base := []float64{-60, -30, -10}
	out := ProportionalPattern(base, 200)
	expected := []float64{120, 60, 20}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestProportionalPattern_RoundTrip(t *testing.T) {
	// Re-anchoring at the base's own total reproduces the magnitudes,
	// and zero years stay zero.
	base := []float64{90000, 0, 0}
	out := ProportionalPattern(base, 90000)
	expected := []float64{90000, 0, 0}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestProportionalPattern_ZeroBaseBroadcastsEvenly(t *testing.T) {
	base := []float64{0, 0, 0, 0}
	out := ProportionalPattern(base, 100)
	for i := range out {
		if !almostEqual(out[i], 25) {
			t.Errorf("year %d: expected 25, got %f", i, out[i])
		}
	}
}

func TestReconstruct_CostKeySignForced(t *testing.T) {
	// capex is proportional and negative-flow: base total 90000 halved.
	base := []float64{-90000, 0, 0}
	out := Reconstruct("capex", base, 45000)
	expected := []float64{-45000, 0, 0}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestReconstruct_GrowthKey(t *testing.T) {
	base := []float64{10000, 12000, 15000}
	out := Reconstruct("credits_generated", base, 5000)
	expected := []float64{5000, 6000, 7500}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestModeFor_UnknownKeyDefaultsToGrowth(t *testing.T) {
	if ModeFor("some_future_variable") != Growth {
		t.Error("unknown keys should default to Growth")
	}
	if ModeFor("capex") != Proportional {
		t.Error("capex should be Proportional")
	}
}

func TestFromYearRows_MissingAndOutOfHorizon(t *testing.T) {
	years := []int{2024, 2025, 2026}
	rows := []YearRow{
		{Year: 2024, Value: 5},
		{Year: 2026, Value: 9},
		{Year: 2030, Value: 99}, // outside horizon, dropped
	}
	out := FromYearRows(rows, years)
	expected := []float64{5, 0, 9}
	for i := range expected {
		if !almostEqual(out[i], expected[i]) {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestBroadcast(t *testing.T) {
	out := Broadcast(15, []int{2024, 2025, 2026})
	for i := range out {
		if !almostEqual(out[i], 15) {
			t.Errorf("year %d: expected 15, got %f", i, out[i])
		}
	}
}

func TestFromValue_LooseShapes(t *testing.T) {
	years := []int{2024, 2025}

	// nil -> zeros
	out := FromValue(nil, years)
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("nil should yield zeros, got %v", out)
	}

	// loose JSON array with a wrapped element
	out = FromValue([]interface{}{float64(10), map[string]interface{}{"value": float64(20)}}, years)
	if !almostEqual(out[0], 10) || !almostEqual(out[1], 20) {
		t.Errorf("loose array: expected [10 20], got %v", out)
	}

	// scalar broadcast
	out = FromValue(float64(7), years)
	if !almostEqual(out[0], 7) || !almostEqual(out[1], 7) {
		t.Errorf("scalar: expected [7 7], got %v", out)
	}
}
