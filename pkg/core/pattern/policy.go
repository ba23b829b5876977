package pattern

// Mode selects how a variable's array is rebuilt from a slider scalar.
type Mode int

const (
	// Growth re-anchors the first-year value and compounds the base
	// pattern's year-over-year ratios forward. Used for drivers that
	// ramp (credit volumes, prices, recurring costs).
	Growth Mode = iota

	// Proportional re-anchors the horizon total and preserves each
	// year's share of it. Used for one-off or budget-style variables
	// (CAPEX, development costs, financing events).
	Proportional
)

// DefaultPolicy maps variable keys to their reconstruction mode. The
// classification is declarative so it can be audited and tested in
// isolation instead of living in scattered conditionals.
var DefaultPolicy = map[string]Mode{
	"credits_generated":    Growth,
	"issuance_flags":       Growth,
	"price_per_credit":     Growth,
	"staff_costs":          Growth,
	"mrv_costs":            Growth,
	"feasibility_costs":    Proportional,
	"pdd_costs":            Proportional,
	"depreciation":         Proportional,
	"capex":                Proportional,
	"equity_injections":    Proportional,
	"debt_draws":           Proportional,
	"pre_purchase_amounts": Proportional,
	"pre_purchase_credits": Proportional,
}

// costKeys lists array variables stored as negative flows. Sign is
// reapplied after reconstruction because both modes work on magnitudes.
var costKeys = map[string]bool{
	"feasibility_costs": true,
	"pdd_costs":         true,
	"mrv_costs":         true,
	"staff_costs":       true,
	"capex":             true,
}

// ModeFor returns the reconstruction mode for a variable key,
// defaulting to Growth for unknown keys.
func ModeFor(key string) Mode {
	if m, ok := DefaultPolicy[key]; ok {
		return m
	}
	return Growth
}

// IsCostKey reports whether the variable follows the negative-flow
// sign convention.
func IsCostKey(key string) bool {
	return costKeys[key]
}
