// Package scenario compares metric snapshots between runs and
// aggregates scenario sets under probability weights.
package scenario

import (
	"carbon_finance/pkg/core/metrics"
	"time"
)

// Scenario is a named, frozen point-in-time capture: the slider
// overrides that produced it plus the metrics computed at save time.
// Later recomputation never retroactively changes a saved scenario.
type Scenario struct {
	ID        string                        `json:"id"`
	Name      string                        `json:"name"`
	Variables map[string]float64            `json:"variables"`
	Metrics   *metrics.ComprehensiveMetrics `json:"metrics"`
	CreatedAt time.Time                     `json:"created_at"`
}

// changeEpsilon suppresses percentage change when the base magnitude
// is too small to divide by meaningfully.
const changeEpsilon = 1e-6

// weightTolerance is the allowed deviation of probability weights from
// a 100% total.
const weightTolerance = 0.01

// metricKeys is the ordered list of named scalar metrics used for
// comparison and expectation. Order is fixed so output is
// deterministic.
var metricKeys = []string{
	"equity_npv",
	"equity_irr",
	"equity_mirr",
	"project_npv",
	"project_irr",
	"investor_npv",
	"investor_irr",
	"total_revenue",
	"total_ebitda",
	"total_net_income",
	"net_margin",
	"lcoc",
	"min_dscr",
	"break_even_price",
	"safety_spread",
	"issuance_ratio",
	"realized_price",
}

// NamedMetrics flattens a metrics snapshot into the named scalar set.
// Nil entries carry through as nil ("n/a").
func NamedMetrics(m *metrics.ComprehensiveMetrics) map[string]*float64 {
	out := make(map[string]*float64, len(metricKeys))
	if m == nil {
		return out
	}

	out["equity_npv"] = ptr(m.Returns.Equity.NPV)
	out["equity_irr"] = m.Returns.Equity.IRR
	out["equity_mirr"] = m.Returns.Equity.MIRR
	out["project_npv"] = ptr(m.Returns.Project.NPV)
	out["project_irr"] = m.Returns.Project.IRR
	out["investor_npv"] = ptr(m.Returns.Investor.NPV)
	out["investor_irr"] = m.Returns.Investor.IRR
	out["total_revenue"] = ptr(m.Profitability.TotalRevenue)
	out["total_ebitda"] = ptr(m.Profitability.TotalEBITDA)
	out["total_net_income"] = ptr(m.Profitability.TotalNetIncome)
	out["net_margin"] = m.Profitability.NetMargin
	out["lcoc"] = m.UnitEconomics.LCOC
	out["min_dscr"] = m.DebtCoverage.MinDSCR
	out["break_even_price"] = m.BreakEven.BreakEvenPrice
	out["safety_spread"] = m.BreakEven.SafetySpread
	out["issuance_ratio"] = m.CarbonKPIs.IssuanceRatio
	out["realized_price"] = m.CarbonKPIs.RealizedPrice
	return out
}

// Compare computes percentage change per named metric between a
// current snapshot and a base snapshot. Metrics missing on either side
// are skipped; a near-zero base suppresses the change to 0.
func Compare(current, base *metrics.ComprehensiveMetrics) map[string]float64 {
	curVals := NamedMetrics(current)
	baseVals := NamedMetrics(base)

	out := make(map[string]float64)
	for _, key := range metricKeys {
		c, b := curVals[key], baseVals[key]
		if c == nil || b == nil {
			continue
		}
		out[key] = PercentChange(*c, *b)
	}
	return out
}

// PercentChange returns (current - base) / |base| * 100, treated as
// zero when |base| is below epsilon to avoid division-by-near-zero
// noise.
func PercentChange(current, base float64) float64 {
	if abs(base) < changeEpsilon {
		return 0
	}
	return (current - base) / abs(base) * 100
}

// Weighted pairs a scenario's metrics with its probability weight,
// expressed in percent (weights across a set should sum to 100).
type Weighted struct {
	Probability float64                       `json:"probability"`
	Metrics     *metrics.ComprehensiveMetrics `json:"metrics"`
}

// ExpectedMetric computes the probability-weighted expectation of one
// named metric: Σ (p_i / 100 × metric_i). Returns nil when the weights
// do not sum to 100% within tolerance, or when any scenario reports
// the metric as not applicable.
func ExpectedMetric(scenarios []Weighted, key string) *float64 {
	if !weightsValid(scenarios) {
		return nil
	}

	var expected float64
	for _, s := range scenarios {
		v := NamedMetrics(s.Metrics)[key]
		if v == nil {
			return nil
		}
		expected += s.Probability / 100 * *v
	}
	return &expected
}

// ExpectedMetrics computes the expectation for every named metric
// available across all scenarios. Nil when weights are invalid.
func ExpectedMetrics(scenarios []Weighted) map[string]float64 {
	if !weightsValid(scenarios) {
		return nil
	}

	out := make(map[string]float64)
	for _, key := range metricKeys {
		if v := ExpectedMetric(scenarios, key); v != nil {
			out[key] = *v
		}
	}
	return out
}

func weightsValid(scenarios []Weighted) bool {
	if len(scenarios) == 0 {
		return false
	}
	var total float64
	for _, s := range scenarios {
		total += s.Probability
	}
	return abs(total-100) <= weightTolerance
}

func ptr(v float64) *float64 { return &v }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
