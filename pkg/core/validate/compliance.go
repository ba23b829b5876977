// Package validate re-checks the accounting identities that the
// statement engine is supposed to enforce, and emits advisory warnings
// about suspicious inputs. Checks never block computation: the engine
// always returns full results and the caller decides what to surface.
package validate

import (
	"carbon_finance/pkg/models"
	"fmt"
	"math"
)

// DefaultTolerance is the absolute dollar tolerance for identity checks.
const DefaultTolerance = 0.01

// YearCompliance holds the five identity checks for a single year.
type YearCompliance struct {
	Year int `json:"year"`

	// 1. total assets == total liabilities + total equity
	BalanceIdentity bool    `json:"balance_identity"`
	BalanceDiff     float64 `json:"balance_diff"`

	// 2. cash-flow ending cash == balance-sheet cash
	CashTieOut bool    `json:"cash_tie_out"`
	CashDiff   float64 `json:"cash_diff"`

	// 3. ending equity == beginning equity + net income + injections
	EquityIdentity bool    `json:"equity_identity"`
	EquityDiff     float64 `json:"equity_diff"`

	// 4. liabilities non-negative, costs never leak as positive revenue
	SignConsistency bool `json:"sign_consistency"`

	// 5. ending balance(t-1) == beginning balance(t)
	DebtChain bool    `json:"debt_chain"`
	DebtDiff  float64 `json:"debt_diff"`

	AllPassed bool `json:"all_passed"`
}

// ComplianceReport aggregates per-year checks plus an overall verdict.
type ComplianceReport struct {
	Years        []YearCompliance `json:"years"`
	OverallPass  bool             `json:"overall_pass"`
	FailedChecks []string         `json:"failed_checks,omitempty"`
	Tolerance    float64          `json:"tolerance"`
}

// CheckStatements validates invariants 1-5 for every year from the raw
// statements. It reports which year and check failed rather than
// failing closed.
func CheckStatements(st *models.YearlyStatements, tolerance float64) *ComplianceReport {
	report := &ComplianceReport{
		OverallPass: true,
		Tolerance:   tolerance,
	}
	if st == nil {
		return report
	}

	var prevEquity, prevDebtEnding float64
	for t := range st.Years {
		bs := st.BalanceSheets[t]
		cf := st.CashFlowStatements[t]
		is := st.IncomeStatements[t]
		ds := st.DebtSchedule[t]

		yc := YearCompliance{Year: st.Years[t]}

		yc.BalanceDiff = bs.TotalAssets - (bs.TotalLiabilities + bs.TotalEquity)
		yc.BalanceIdentity = math.Abs(yc.BalanceDiff) <= tolerance

		yc.CashDiff = cf.CashEnding - bs.Cash
		yc.CashTieOut = math.Abs(yc.CashDiff) <= tolerance

		expectedEquity := prevEquity + is.NetIncome + cf.EquityInjection
		yc.EquityDiff = bs.TotalEquity - expectedEquity
		yc.EquityIdentity = math.Abs(yc.EquityDiff) <= tolerance

		yc.SignConsistency = bs.AccountsPayable >= -tolerance &&
			bs.UnearnedRevenue >= -tolerance &&
			bs.DebtBalance >= -tolerance &&
			is.COGS <= tolerance &&
			is.OperatingExpenses <= tolerance

		if t == 0 {
			yc.DebtChain = true
		} else {
			yc.DebtDiff = ds.BeginningBalance - prevDebtEnding
			yc.DebtChain = math.Abs(yc.DebtDiff) <= tolerance
		}

		yc.AllPassed = yc.BalanceIdentity && yc.CashTieOut &&
			yc.EquityIdentity && yc.SignConsistency && yc.DebtChain

		if !yc.AllPassed {
			report.OverallPass = false
			checks := []struct {
				name   string
				passed bool
			}{
				{"balance identity", yc.BalanceIdentity},
				{"cash tie-out", yc.CashTieOut},
				{"equity identity", yc.EquityIdentity},
				{"sign consistency", yc.SignConsistency},
				{"debt chain", yc.DebtChain},
			}
			for _, check := range checks {
				if !check.passed {
					report.FailedChecks = append(report.FailedChecks,
						fmt.Sprintf("%d: %s", st.Years[t], check.name))
				}
			}
		}

		report.Years = append(report.Years, yc)
		prevEquity = bs.TotalEquity
		prevDebtEnding = ds.EndingBalance
	}

	return report
}
