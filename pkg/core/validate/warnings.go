package validate

import (
	"carbon_finance/pkg/models"
	"fmt"
	"math"
)

// Warning is an advisory, non-blocking diagnostic attached to a run.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckInputs inspects a normalized ModelInputs for conditions that
// usually mean the model is mis-specified: missing driver data (the
// extractor zero-defaults silently), unrealistic rates, and financing
// far out of line with spending. Computation proceeds regardless.
func CheckInputs(in *models.ModelInputs) []Warning {
	var warnings []Warning
	if in == nil || in.Horizon() == 0 {
		return append(warnings, Warning{
			Code:    "EMPTY_HORIZON",
			Message: "model has no years; all outputs will be empty",
		})
	}

	// Input completeness: zero-default masking missing data
	if allZero(in.CreditsGenerated) {
		warnings = append(warnings, Warning{
			Code:    "NO_CREDITS",
			Message: "credits_generated is entirely zero; revenue will be zero every year",
		})
	}
	if allZero(in.PricePerCredit) {
		warnings = append(warnings, Warning{
			Code:    "NO_PRICE",
			Message: "price_per_credit is entirely zero; spot revenue will be zero",
		})
	}

	// Rate sanity
	if in.TaxRate < 0 || in.TaxRate > 0.6 {
		warnings = append(warnings, Warning{
			Code:    "TAX_RATE_RANGE",
			Message: fmt.Sprintf("tax_rate %.2f is outside the usual 0-0.60 range", in.TaxRate),
		})
	}
	if in.InterestRate > 0.30 {
		warnings = append(warnings, Warning{
			Code:    "INTEREST_RATE_RANGE",
			Message: fmt.Sprintf("interest_rate %.2f exceeds 30%%", in.InterestRate),
		})
	}
	if in.CogsRate < 0 || in.CogsRate >= 1 {
		warnings = append(warnings, Warning{
			Code:    "COGS_RATE_RANGE",
			Message: fmt.Sprintf("cogs_rate %.2f must be in [0, 1)", in.CogsRate),
		})
	}

	// Debt far exceeding CAPEX suggests over-leverage or a data entry slip
	totalDraws := sum(in.DebtDraws)
	totalCapex := sumAbs(in.Capex)
	if totalDraws > 0 && totalDraws > 2*totalCapex {
		warnings = append(warnings, Warning{
			Code:    "DEBT_EXCEEDS_CAPEX",
			Message: fmt.Sprintf("debt draws (%.0f) exceed twice total CAPEX (%.0f)", totalDraws, totalCapex),
		})
	}

	// Revenue insufficient to cover modeled costs over the horizon
	var revenue float64
	for t := range in.Years {
		revenue += at(in.CreditsGenerated, t) * at(in.PricePerCredit, t)
	}
	costs := sumAbs(in.FeasibilityCosts) + sumAbs(in.PDDCosts) +
		sumAbs(in.MRVCosts) + sumAbs(in.StaffCosts)
	if costs > 0 && revenue < costs {
		warnings = append(warnings, Warning{
			Code:    "COSTS_EXCEED_REVENUE",
			Message: fmt.Sprintf("lifetime operating costs (%.0f) exceed gross revenue potential (%.0f)", costs, revenue),
		})
	}

	return warnings
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func sumAbs(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += math.Abs(v)
	}
	return s
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
