package main

import (
	"fmt"

	"carbon_finance/pkg/core/engine"
	"carbon_finance/pkg/core/metrics"
	"carbon_finance/pkg/core/validate"
	"carbon_finance/pkg/models"
)

// Offline sanity check: runs a small 3-year project end to end and
// prints the statements, identity checks and headline metrics.
func main() {
	in := &models.ModelInputs{
		Years: []int{2024, 2025, 2026},

		CogsRate:          0.15,
		TaxRate:           0.21,
		InterestRate:      0.08,
		DebtTenorYears:    2,
		ARRate:            0.10,
		APRate:            0.08,
		DiscountRate:      0.10,
		FinanceRate:       0.08,
		ReinvestRate:      0.05,
		DepreciationYears: 3,

		CreditsGenerated:   []float64{10000, 12000, 15000},
		IssuanceFlags:      []float64{1, 1, 1},
		PricePerCredit:     []float64{15, 16, 17},
		FeasibilityCosts:   []float64{-30000, 0, 0},
		PDDCosts:           []float64{-20000, 0, 0},
		MRVCosts:           []float64{-15000, -15000, -15000},
		StaffCosts:         []float64{-60000, -60000, -60000},
		Capex:              []float64{-90000, 0, 0},
		EquityInjections:   []float64{500000, 0, 0},
		DebtDraws:          []float64{100000, 0, 0},
		PrePurchaseAmounts: []float64{50000, 0, 0},
		PrePurchaseCredits: []float64{0, 2000, 3000},
	}

	st := engine.NewStatementEngine().Compute(in)

	fmt.Println("====================================================================")
	fmt.Println("                     INCOME STATEMENT")
	fmt.Println("====================================================================")
	fmt.Printf("%-6s | %12s | %12s | %12s | %12s\n", "YEAR", "REVENUE", "EBITDA", "INTEREST", "NET INCOME")
	for _, is := range st.IncomeStatements {
		fmt.Printf("%-6d | %12.2f | %12.2f | %12.2f | %12.2f\n",
			is.Year, is.TotalRevenue, is.EBITDA, is.InterestExpense, is.NetIncome)
	}

	fmt.Println("====================================================================")
	fmt.Println("                     BALANCE SHEET")
	fmt.Println("====================================================================")
	fmt.Printf("%-6s | %12s | %12s | %12s | %12s\n", "YEAR", "CASH", "ASSETS", "LIAB", "EQUITY")
	for _, bs := range st.BalanceSheets {
		fmt.Printf("%-6d | %12.2f | %12.2f | %12.2f | %12.2f\n",
			bs.Year, bs.Cash, bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity)
	}

	fmt.Println("====================================================================")
	fmt.Println("                     DEBT SCHEDULE")
	fmt.Println("====================================================================")
	fmt.Printf("%-6s | %12s | %12s | %12s | %12s\n", "YEAR", "BEGIN", "INTEREST", "PRINCIPAL", "END")
	for _, ds := range st.DebtSchedule {
		fmt.Printf("%-6d | %12.2f | %12.2f | %12.2f | %12.2f\n",
			ds.Year, ds.BeginningBalance, ds.InterestExpense, ds.PrincipalPayment, ds.EndingBalance)
	}

	fmt.Println("====================================================================")
	fmt.Println("                     IDENTITY CHECKS")
	fmt.Println("====================================================================")
	report := validate.CheckStatements(st, validate.DefaultTolerance)
	for _, yc := range report.Years {
		fmt.Printf("%d: balance=%v cash=%v equity=%v sign=%v debt=%v (balance diff %.4f, cash diff %.4f)\n",
			yc.Year, yc.BalanceIdentity, yc.CashTieOut, yc.EquityIdentity,
			yc.SignConsistency, yc.DebtChain, yc.BalanceDiff, yc.CashDiff)
	}
	if report.OverallPass {
		fmt.Println("RESULT: all identities hold")
	} else {
		fmt.Println("RESULT: FAILED CHECKS:")
		for _, f := range report.FailedChecks {
			fmt.Printf("  - %s\n", f)
		}
	}

	fmt.Println("====================================================================")
	fmt.Println("                     HEADLINE METRICS")
	fmt.Println("====================================================================")
	m := metrics.NewCalculator().Calculate(st, metrics.Rates{
		Discount: in.DiscountRate,
		Finance:  in.FinanceRate,
		Reinvest: in.ReinvestRate,
	})
	fmt.Printf("Equity NPV:   %12.2f\n", m.Returns.Equity.NPV)
	printPct("Equity IRR", m.Returns.Equity.IRR)
	fmt.Printf("Project NPV:  %12.2f\n", m.Returns.Project.NPV)
	printPct("Project IRR", m.Returns.Project.IRR)
	printMoney("LCOC", m.UnitEconomics.LCOC)
	printMoney("Break-even price", m.BreakEven.BreakEvenPrice)
	if m.DebtCoverage.MinDSCR != nil {
		fmt.Printf("Min DSCR:     %12.2fx (year %d)\n", *m.DebtCoverage.MinDSCR, *m.DebtCoverage.MinDSCRYear)
	}
}

func printPct(label string, v *float64) {
	if v == nil {
		fmt.Printf("%-13s %12s\n", label+":", "n/a")
		return
	}
	fmt.Printf("%-13s %11.2f%%\n", label+":", *v*100)
}

func printMoney(label string, v *float64) {
	if v == nil {
		fmt.Printf("%-17s %8s\n", label+":", "n/a")
		return
	}
	fmt.Printf("%-17s %8.2f\n", label+":", *v)
}
