package inputs

import (
	"carbon_finance/pkg/core/pattern"
	"carbon_finance/pkg/models"
	"fmt"
	"math"
)

// arrayKeys maps input keys to accessors on ModelInputs. The same
// registry drives normalization and slider overrides, so a key is
// either known everywhere or nowhere.
var arrayKeys = []string{
	"credits_generated",
	"issuance_flags",
	"price_per_credit",
	"feasibility_costs",
	"pdd_costs",
	"mrv_costs",
	"staff_costs",
	"depreciation",
	"capex",
	"equity_injections",
	"debt_draws",
	"pre_purchase_amounts",
	"pre_purchase_credits",
}

// ArrayField returns a pointer to the named per-year array, or nil for
// unknown keys.
func ArrayField(m *models.ModelInputs, key string) *[]float64 {
	switch key {
	case "credits_generated":
		return &m.CreditsGenerated
	case "issuance_flags":
		return &m.IssuanceFlags
	case "price_per_credit":
		return &m.PricePerCredit
	case "feasibility_costs":
		return &m.FeasibilityCosts
	case "pdd_costs":
		return &m.PDDCosts
	case "mrv_costs":
		return &m.MRVCosts
	case "staff_costs":
		return &m.StaffCosts
	case "depreciation":
		return &m.Depreciation
	case "capex":
		return &m.Capex
	case "equity_injections":
		return &m.EquityInjections
	case "debt_draws":
		return &m.DebtDraws
	case "pre_purchase_amounts":
		return &m.PrePurchaseAmounts
	case "pre_purchase_credits":
		return &m.PrePurchaseCredits
	}
	return nil
}

// Normalize converts a loose raw record into a strict ModelInputs.
// Absent array data zero-defaults (the extractor's policy); absent
// scalars stay zero so config defaults can fill them afterwards. The
// negative-flow sign convention for cost arrays is enforced here, so
// a payload with positive cost figures still models correctly.
func Normalize(raw map[string]interface{}) (*models.ModelInputs, error) {
	years, err := normalizeYears(raw["years"])
	if err != nil {
		return nil, err
	}

	m := &models.ModelInputs{Years: years}

	for _, key := range arrayKeys {
		field := ArrayField(m, key)
		*field = normalizeArray(raw[key], years)
		if pattern.IsCostKey(key) {
			forceNegative(*field)
		}
	}

	m.CogsRate = scalar(raw, "cogs_rate")
	m.TaxRate = scalar(raw, "tax_rate")
	m.InterestRate = scalar(raw, "interest_rate")
	m.DebtTenorYears = int(scalar(raw, "debt_tenor_years"))
	m.ARRate = scalar(raw, "ar_rate")
	m.APRate = scalar(raw, "ap_rate")
	m.DiscountRate = scalar(raw, "discount_rate")
	m.FinanceRate = scalar(raw, "finance_rate")
	m.ReinvestRate = scalar(raw, "reinvest_rate")
	m.DepreciationYears = int(scalar(raw, "depreciation_years"))

	return m, nil
}

// ApplyOverrides regenerates the named arrays from slider scalars via
// the pattern reconstructor, returning a fresh ModelInputs. The input
// is never mutated: each edit produces a whole new snapshot.
func ApplyOverrides(m *models.ModelInputs, overrides map[string]float64) *models.ModelInputs {
	out := *m
	for _, key := range arrayKeys {
		value, ok := overrides[key]
		if !ok {
			continue
		}
		base := *ArrayField(m, key)
		*ArrayField(&out, key) = pattern.Reconstruct(key, base, value)
	}
	return &out
}

func normalizeYears(raw interface{}) ([]int, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("model input missing required 'years' array")
	}

	years := make([]int, 0, len(list))
	for _, e := range list {
		f, ok := asFloat(e)
		if !ok {
			return nil, fmt.Errorf("non-numeric entry in 'years': %v", e)
		}
		years = append(years, int(f))
	}
	return years, nil
}

// normalizeArray accepts year-tagged row lists, plain arrays, wrapped
// or bare scalars; anything else yields a zero-filled array.
func normalizeArray(raw interface{}, years []int) []float64 {
	if list, ok := raw.([]interface{}); ok && len(list) > 0 {
		if rows, ok := asYearRows(list); ok {
			return pattern.FromYearRows(rows, years)
		}
	}
	if f, ok := asFloat(raw); ok {
		return pattern.Broadcast(f, years)
	}
	return pattern.FromValue(raw, years)
}

func asYearRows(list []interface{}) ([]pattern.YearRow, bool) {
	rows := make([]pattern.YearRow, 0, len(list))
	for _, e := range list {
		obj, ok := e.(map[string]interface{})
		if !ok {
			return nil, false
		}
		year, ok := asFloat(obj["year"])
		if !ok {
			return nil, false
		}
		value, _ := asFloat(obj["value"])
		rows = append(rows, pattern.YearRow{Year: int(year), Value: value})
	}
	return rows, true
}

func scalar(raw map[string]interface{}, key string) float64 {
	v, _ := asFloat(raw[key])
	return v
}

// asFloat coerces loose JSON values, unwrapping {"value": X} records.
func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case map[string]interface{}:
		if inner, ok := v["value"]; ok {
			return asFloat(inner)
		}
	}
	return 0, false
}

func forceNegative(values []float64) {
	for i, v := range values {
		values[i] = -math.Abs(v)
	}
}
