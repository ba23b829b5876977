// Package engine articulates the five linked financial statements for a
// carbon project model. It ensures that Income Statement, Balance
// Sheet, Cash Flow, Debt Schedule and Carbon Stream are mathematically
// consistent year over year.
package engine

import (
	"carbon_finance/pkg/models"
	"math"
)

// StatementEngine computes the full YearlyStatements set from a
// normalized ModelInputs. It is a pure function of its input: no hidden
// state, deterministic, and safe to re-run on every slider edit.
type StatementEngine struct{}

// NewStatementEngine creates a new articulation engine.
func NewStatementEngine() *StatementEngine {
	return &StatementEngine{}
}

// Compute runs the per-year waterfall for every horizon year. Each step
// reads only already-computed values from the current or prior year, so
// there is no numerical circularity to iterate on: interest accrues on
// the prior year's ending debt balance (year-lagged convention).
func (e *StatementEngine) Compute(in *models.ModelInputs) *models.YearlyStatements {
	n := in.Horizon()
	out := &models.YearlyStatements{
		Years:              append([]int(nil), in.Years...),
		IncomeStatements:   make([]models.IncomeStatement, n),
		BalanceSheets:      make([]models.BalanceSheet, n),
		CashFlowStatements: make([]models.CashFlowStatement, n),
		DebtSchedule:       make([]models.DebtSchedule, n),
		CarbonStream:       make([]models.CarbonStream, n),
		FreeCashFlow:       make([]models.FreeCashFlow, n),
	}
	if n == 0 {
		return out
	}

	// Defensive padding: short arrays behave as zero-filled, matching
	// the extractor's silent-default policy.
	generated := pad(in.CreditsGenerated, n)
	flags := pad(in.IssuanceFlags, n)
	price := pad(in.PricePerCredit, n)
	feasibility := pad(in.FeasibilityCosts, n)
	pdd := pad(in.PDDCosts, n)
	mrv := pad(in.MRVCosts, n)
	staff := pad(in.StaffCosts, n)
	capex := pad(in.Capex, n)
	equity := pad(in.EquityInjections, n)
	draws := pad(in.DebtDraws, n)
	ppAmounts := pad(in.PrePurchaseAmounts, n)
	ppCredits := pad(in.PrePurchaseCredits, n)
	depreciation := depreciationSchedule(in, capex, n)

	// Implied pre-purchase price is fixed over the horizon by the
	// contracted totals: price = Σ amounts / Σ credits.
	var totalPPAmount, totalPPCredits float64
	for t := 0; t < n; t++ {
		totalPPAmount += ppAmounts[t]
		totalPPCredits += ppCredits[t]
	}
	impliedPrice := 0.0
	if totalPPCredits > 0 {
		impliedPrice = totalPPAmount / totalPPCredits
	}

	// Prior-year balances (all zero entering year 0)
	var prevCash, prevAR, prevAP, prevUnearned, prevDebt float64
	var prevContributed, prevRetained, prevNWC float64
	var cumGrossPPE, cumDepreciation float64

	for t := 0; t < n; t++ {
		year := in.Years[t]

		// 1. Revenue
		issued := generated[t] * flags[t]
		delivered := ppCredits[t]
		spotRevenue := (issued - delivered) * price[t]
		ppRevenue := delivered * impliedPrice
		totalRevenue := spotRevenue + ppRevenue

		// 2-4. COGS, operating expenses, EBITDA
		cogs := -(totalRevenue * in.CogsRate)
		opex := feasibility[t] + pdd[t] + mrv[t] + staff[t]
		ebitda := totalRevenue + cogs + opex

		// 5. Depreciation
		dep := depreciation[t]

		// 6. Debt schedule: beginning balance is the prior year's
		// ending balance; interest is year-lagged (on that beginning
		// balance only, excluding the current draw); principal is a
		// level amortization of the post-draw balance over the
		// remaining tenor.
		beginDebt := prevDebt
		draw := draws[t]
		interest := beginDebt * in.InterestRate
		postDraw := beginDebt + draw
		principal := 0.0
		if postDraw > 0 {
			remaining := in.DebtTenorYears - t
			if remaining < 1 {
				remaining = 1
			}
			principal = postDraw / float64(remaining)
		}
		endDebt := postDraw - principal

		var dscr *float64
		if service := interest + principal; service > 0 {
			v := ebitda / service
			dscr = &v
		}

		// 7. Earnings
		ebt := ebitda - dep - interest
		tax := 0.0
		if ebt > 0 {
			tax = ebt * in.TaxRate
		}
		netIncome := ebt - tax

		// 8. Working capital
		ar := totalRevenue * in.ARRate
		costBase := -(cogs + opex) // positive magnitude of cost drivers
		ap := costBase * in.APRate
		unearned := prevUnearned + ppAmounts[t] - ppRevenue
		if unearned < 0 {
			unearned = 0
		}

		// 9. Balance sheet roll-forward
		cumGrossPPE += -capex[t]
		cumDepreciation += dep
		ppeNet := cumGrossPPE - cumDepreciation
		contributed := prevContributed + equity[t]
		retained := prevRetained + netIncome

		// 10. Cash flow, strictly from balance-sheet deltas
		chgAR := -(ar - prevAR)
		chgAP := ap - prevAP
		chgUnearned := unearned - prevUnearned
		operatingCF := netIncome + dep + chgAR + chgAP + chgUnearned
		investingCF := capex[t]
		financingCF := equity[t] + draw - principal
		netChange := operatingCF + investingCF + financingCF
		cash := prevCash + netChange

		totalAssets := cash + ar + ppeNet
		totalLiabilities := ap + unearned + endDebt
		totalEquity := contributed + retained

		// 11. Free cash flow to equity
		nwc := ar - ap - unearned
		chgNWC := nwc - prevNWC
		netBorrowing := draw - principal
		fcfe := netIncome + dep - chgNWC + capex[t] + netBorrowing

		out.IncomeStatements[t] = models.IncomeStatement{
			Year:                year,
			SpotRevenue:         spotRevenue,
			PrePurchaseRevenue:  ppRevenue,
			TotalRevenue:        totalRevenue,
			COGS:                cogs,
			OperatingExpenses:   opex,
			EBITDA:              ebitda,
			Depreciation:        dep,
			InterestExpense:     interest,
			EarningsBeforeTax:   ebt,
			Tax:                 tax,
			NetIncome:           netIncome,
			CreditsGenerated:    generated[t],
			CreditsIssued:       issued,
			CreditsPrePurchased: delivered,
		}

		out.BalanceSheets[t] = models.BalanceSheet{
			Year:               year,
			Cash:               cash,
			AccountsReceivable: ar,
			PPENet:             ppeNet,
			TotalAssets:        totalAssets,
			AccountsPayable:    ap,
			UnearnedRevenue:    unearned,
			DebtBalance:        endDebt,
			TotalLiabilities:   totalLiabilities,
			ContributedCapital: contributed,
			RetainedEarnings:   retained,
			TotalEquity:        totalEquity,
		}

		out.CashFlowStatements[t] = models.CashFlowStatement{
			Year:             year,
			NetIncome:        netIncome,
			Depreciation:     dep,
			ChangeAR:         chgAR,
			ChangeAP:         chgAP,
			ChangeUnearned:   chgUnearned,
			OperatingCF:      operatingCF,
			Capex:            capex[t],
			InvestingCF:      investingCF,
			EquityInjection:  equity[t],
			DebtDraw:         draw,
			PrincipalPayment: principal,
			FinancingCF:      financingCF,
			NetChangeInCash:  netChange,
			CashBeginning:    prevCash,
			CashEnding:       cash,
		}

		out.DebtSchedule[t] = models.DebtSchedule{
			Year:             year,
			BeginningBalance: beginDebt,
			Draw:             draw,
			InterestExpense:  interest,
			PrincipalPayment: principal,
			EndingBalance:    endDebt,
			DSCR:             dscr,
		}

		var impliedPtr *float64
		if totalPPCredits > 0 {
			v := impliedPrice
			impliedPtr = &v
		}
		out.CarbonStream[t] = models.CarbonStream{
			Year:             year,
			CreditsDelivered: delivered,
			PurchaseAmount:   ppAmounts[t],
			ImpliedPrice:     impliedPtr,
			InvestorCashFlow: delivered*price[t] - ppAmounts[t],
		}

		out.FreeCashFlow[t] = models.FreeCashFlow{
			Year:         year,
			NetIncome:    netIncome,
			Depreciation: dep,
			ChangeNWC:    chgNWC,
			Capex:        capex[t],
			NetBorrowing: netBorrowing,
			FCFToEquity:  fcfe,
		}

		prevCash, prevAR, prevAP = cash, ar, ap
		prevUnearned, prevDebt = unearned, endDebt
		prevContributed, prevRetained = contributed, retained
		prevNWC = nwc
	}

	return out
}

// depreciationSchedule returns the per-year depreciation charge. An
// explicit schedule wins; otherwise each year's CAPEX is spread
// straight-line over DepreciationYears, truncated at the horizon.
func depreciationSchedule(in *models.ModelInputs, capex []float64, n int) []float64 {
	explicit := pad(in.Depreciation, n)
	for _, v := range explicit {
		if v != 0 {
			return explicit
		}
	}

	derived := make([]float64, n)
	if in.DepreciationYears <= 0 {
		return derived
	}
	for j := 0; j < n; j++ {
		gross := math.Abs(capex[j])
		if gross == 0 {
			continue
		}
		annual := gross / float64(in.DepreciationYears)
		for t := j; t < n && t < j+in.DepreciationYears; t++ {
			derived[t] += annual
		}
	}
	return derived
}

func pad(values []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, values)
	return out
}
