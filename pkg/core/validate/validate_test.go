package validate

import (
	"testing"

	"carbon_finance/pkg/models"
)

func hasCode(warnings []Warning, code string) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestCheckInputs_EmptyHorizon(t *testing.T) {
	warnings := CheckInputs(&models.ModelInputs{})
	if !hasCode(warnings, "EMPTY_HORIZON") {
		t.Error("expected EMPTY_HORIZON for a model with no years")
	}
	warnings = CheckInputs(nil)
	if !hasCode(warnings, "EMPTY_HORIZON") {
		t.Error("expected EMPTY_HORIZON for a nil model")
	}
}

func TestCheckInputs_MissingDrivers(t *testing.T) {
	in := &models.ModelInputs{
		Years:   []int{2024, 2025},
		TaxRate: 0.21,
	}
	warnings := CheckInputs(in)
	if !hasCode(warnings, "NO_CREDITS") {
		t.Error("expected NO_CREDITS when credits_generated is all zero")
	}
	if !hasCode(warnings, "NO_PRICE") {
		t.Error("expected NO_PRICE when price_per_credit is all zero")
	}
}

func TestCheckInputs_RateRanges(t *testing.T) {
	in := &models.ModelInputs{
		Years:            []int{2024},
		TaxRate:          0.90,
		InterestRate:     0.45,
		CogsRate:         1.5,
		CreditsGenerated: []float64{1000},
		PricePerCredit:   []float64{20},
	}
	warnings := CheckInputs(in)
	if !hasCode(warnings, "TAX_RATE_RANGE") {
		t.Error("expected TAX_RATE_RANGE for tax_rate 0.90")
	}
	if !hasCode(warnings, "INTEREST_RATE_RANGE") {
		t.Error("expected INTEREST_RATE_RANGE for interest_rate 0.45")
	}
	if !hasCode(warnings, "COGS_RATE_RANGE") {
		t.Error("expected COGS_RATE_RANGE for cogs_rate 1.5")
	}
}

func TestCheckInputs_DebtExceedsCapex(t *testing.T) {
	in := &models.ModelInputs{
		Years:            []int{2024},
		TaxRate:          0.21,
		CreditsGenerated: []float64{1000},
		PricePerCredit:   []float64{20},
		DebtDraws:        []float64{500000},
		Capex:            []float64{-100000},
	}
	warnings := CheckInputs(in)
	if !hasCode(warnings, "DEBT_EXCEEDS_CAPEX") {
		t.Error("expected DEBT_EXCEEDS_CAPEX when draws exceed twice CAPEX")
	}
}

func TestCheckInputs_CostsExceedRevenue(t *testing.T) {
	in := &models.ModelInputs{
		Years:            []int{2024},
		TaxRate:          0.21,
		CreditsGenerated: []float64{100},
		PricePerCredit:   []float64{10}, // 1000 gross revenue
		StaffCosts:       []float64{-60000},
	}
	warnings := CheckInputs(in)
	if !hasCode(warnings, "COSTS_EXCEED_REVENUE") {
		t.Error("expected COSTS_EXCEED_REVENUE")
	}
}

func TestCheckInputs_CleanModel(t *testing.T) {
	in := &models.ModelInputs{
		Years:            []int{2024, 2025},
		TaxRate:          0.21,
		InterestRate:     0.08,
		CogsRate:         0.15,
		CreditsGenerated: []float64{10000, 12000},
		PricePerCredit:   []float64{15, 16},
		StaffCosts:       []float64{-60000, -60000},
	}
	if warnings := CheckInputs(in); len(warnings) != 0 {
		t.Errorf("clean model should produce no warnings, got %v", warnings)
	}
}

// consistentStatements builds a minimal one-year statement set that
// satisfies all five identities exactly.
func consistentStatements() *models.YearlyStatements {
	return &models.YearlyStatements{
		Years: []int{2024},
		IncomeStatements: []models.IncomeStatement{{
			Year:              2024,
			TotalRevenue:      1000,
			COGS:              -100,
			OperatingExpenses: -200,
			NetIncome:         700,
		}},
		BalanceSheets: []models.BalanceSheet{{
			Year:               2024,
			Cash:               1200,
			TotalAssets:        1200,
			TotalLiabilities:   0,
			ContributedCapital: 500,
			RetainedEarnings:   700,
			TotalEquity:        1200,
		}},
		CashFlowStatements: []models.CashFlowStatement{{
			Year:            2024,
			NetIncome:       700,
			EquityInjection: 500,
			CashEnding:      1200,
		}},
		DebtSchedule: []models.DebtSchedule{{Year: 2024}},
		CarbonStream: []models.CarbonStream{{Year: 2024}},
		FreeCashFlow: []models.FreeCashFlow{{Year: 2024}},
	}
}

func TestCheckStatements_Pass(t *testing.T) {
	report := CheckStatements(consistentStatements(), DefaultTolerance)
	if !report.OverallPass {
		t.Fatalf("consistent statements should pass: %v", report.FailedChecks)
	}
	if len(report.Years) != 1 || !report.Years[0].AllPassed {
		t.Error("per-year record should mark all checks passed")
	}
}

func TestCheckStatements_BalanceBreakDetected(t *testing.T) {
	st := consistentStatements()
	st.BalanceSheets[0].Cash += 5 // breaks balance identity and cash tie-out
	st.BalanceSheets[0].TotalAssets += 5

	report := CheckStatements(st, DefaultTolerance)
	if report.OverallPass {
		t.Fatal("broken balance sheet should fail")
	}
	yc := report.Years[0]
	if yc.BalanceIdentity {
		t.Error("balance identity should fail: assets exceed liabilities + equity by 5")
	}
	if yc.CashTieOut {
		t.Error("cash tie-out should fail: CF ending cash no longer matches BS cash")
	}
	if len(report.FailedChecks) == 0 {
		t.Error("failed checks should name the year and check")
	}
}

func TestCheckStatements_SignConsistency(t *testing.T) {
	st := consistentStatements()
	st.IncomeStatements[0].COGS = 100 // costs leaking as positive

	report := CheckStatements(st, DefaultTolerance)
	if report.Years[0].SignConsistency {
		t.Error("positive COGS should fail sign consistency")
	}
}

func TestCheckStatements_DebtChainBreakDetected(t *testing.T) {
	st := consistentStatements()
	// Add a second year whose beginning balance ignores year 0's ending.
	st.Years = append(st.Years, 2025)
	st.IncomeStatements = append(st.IncomeStatements, models.IncomeStatement{Year: 2025})
	st.BalanceSheets = append(st.BalanceSheets, models.BalanceSheet{
		Year:               2025,
		Cash:               1200,
		TotalAssets:        1200,
		ContributedCapital: 500,
		RetainedEarnings:   700,
		TotalEquity:        1200,
	})
	st.CashFlowStatements = append(st.CashFlowStatements, models.CashFlowStatement{
		Year: 2025, CashBeginning: 1200, CashEnding: 1200,
	})
	st.DebtSchedule[0].EndingBalance = 400
	st.DebtSchedule = append(st.DebtSchedule, models.DebtSchedule{
		Year: 2025, BeginningBalance: 0, // should be 400
	})
	st.CarbonStream = append(st.CarbonStream, models.CarbonStream{Year: 2025})
	st.FreeCashFlow = append(st.FreeCashFlow, models.FreeCashFlow{Year: 2025})

	report := CheckStatements(st, DefaultTolerance)
	if report.Years[1].DebtChain {
		t.Error("debt chain break between years should be detected")
	}
}

func TestCheckStatements_Tolerance(t *testing.T) {
	st := consistentStatements()
	st.BalanceSheets[0].TotalAssets += 0.005 // inside the $0.01 tolerance

	report := CheckStatements(st, DefaultTolerance)
	if !report.Years[0].BalanceIdentity {
		t.Error("sub-tolerance drift should still pass")
	}
}
