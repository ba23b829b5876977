package scenario

import (
	"math"
	"testing"

	"carbon_finance/pkg/core/metrics"
)

func snapshotWithNPV(npv float64) *metrics.ComprehensiveMetrics {
	return &metrics.ComprehensiveMetrics{
		Returns: metrics.Returns{
			Equity: metrics.ReturnMetrics{NPV: npv},
		},
	}
}

func TestPercentChange(t *testing.T) {
	// 1.0M -> 1.2M is +20%.
	if got := PercentChange(1200000, 1000000); math.Abs(got-20) > 1e-9 {
		t.Errorf("expected +20%%, got %f", got)
	}
	// Declines report negative.
	if got := PercentChange(800000, 1000000); math.Abs(got-(-20)) > 1e-9 {
		t.Errorf("expected -20%%, got %f", got)
	}
	// Negative base divides by magnitude: -100 -> -50 is +50%.
	if got := PercentChange(-50, -100); math.Abs(got-50) > 1e-9 {
		t.Errorf("expected +50%%, got %f", got)
	}
}

func TestPercentChange_NearZeroBaseSuppressed(t *testing.T) {
	if got := PercentChange(5, 0); got != 0 {
		t.Errorf("zero base must suppress change, got %f", got)
	}
	if got := PercentChange(5, 1e-9); got != 0 {
		t.Errorf("sub-epsilon base must suppress change, got %f", got)
	}
}

func TestCompare_SkipsMissingMetrics(t *testing.T) {
	current := snapshotWithNPV(1200000)
	base := snapshotWithNPV(1000000)

	changes := Compare(current, base)
	if math.Abs(changes["equity_npv"]-20) > 1e-9 {
		t.Errorf("equity_npv change expected +20%%, got %f", changes["equity_npv"])
	}
	// IRR is nil on both sides and must not appear at all.
	if _, ok := changes["equity_irr"]; ok {
		t.Error("nil metrics must be skipped, not reported as 0")
	}
}

func TestExpectedMetric_WeightedAverage(t *testing.T) {
	// E = 0.20*800k + 0.60*1000k + 0.20*1400k = 1040k
	scenarios := []Weighted{
		{Probability: 20, Metrics: snapshotWithNPV(800000)},
		{Probability: 60, Metrics: snapshotWithNPV(1000000)},
		{Probability: 20, Metrics: snapshotWithNPV(1400000)},
	}
	v := ExpectedMetric(scenarios, "equity_npv")
	if v == nil {
		t.Fatal("expected value to be computed")
	}
	if math.Abs(*v-1040000) > 1e-6 {
		t.Errorf("expected 1040000, got %f", *v)
	}
}

func TestExpectedMetric_InvalidWeights(t *testing.T) {
	scenarios := []Weighted{
		{Probability: 20, Metrics: snapshotWithNPV(800000)},
		{Probability: 60, Metrics: snapshotWithNPV(1000000)},
	}
	if ExpectedMetric(scenarios, "equity_npv") != nil {
		t.Error("weights summing to 80 must be rejected")
	}
	if ExpectedMetric(nil, "equity_npv") != nil {
		t.Error("empty scenario set must be rejected")
	}
}

func TestExpectedMetric_NilMetricPropagates(t *testing.T) {
	// One scenario with a non-applicable IRR makes the whole
	// expectation non-applicable rather than silently dropping weight.
	scenarios := []Weighted{
		{Probability: 50, Metrics: snapshotWithNPV(800000)},
		{Probability: 50, Metrics: snapshotWithNPV(1000000)},
	}
	if ExpectedMetric(scenarios, "equity_irr") != nil {
		t.Error("expectation over nil metrics must be nil")
	}
}

func TestExpectedMetrics_WeightToleranceAccepted(t *testing.T) {
	// 33.33 * 3 = 99.99 is within the 0.01 tolerance.
	scenarios := []Weighted{
		{Probability: 33.33, Metrics: snapshotWithNPV(900000)},
		{Probability: 33.33, Metrics: snapshotWithNPV(1000000)},
		{Probability: 33.33, Metrics: snapshotWithNPV(1100000)},
	}
	out := ExpectedMetrics(scenarios)
	if out == nil {
		t.Fatal("weights within tolerance must be accepted")
	}
	if _, ok := out["equity_npv"]; !ok {
		t.Error("equity_npv expected in the output")
	}
}
