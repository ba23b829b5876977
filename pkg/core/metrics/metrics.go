package metrics

import (
	"carbon_finance/pkg/core/validate"
	"carbon_finance/pkg/models"
	"math"
)

// Rates carries the discount rate plus the MIRR leg rates.
type Rates struct {
	Discount float64 `json:"discount"`
	Finance  float64 `json:"finance"`
	Reinvest float64 `json:"reinvest"`
}

// ReturnMetrics is the standard return bundle for one cash-flow
// perspective. Nil pointers mean "not applicable" (non-convergence,
// payback beyond horizon).
type ReturnMetrics struct {
	CashFlows             []float64 `json:"cash_flows"`
	NPV                   float64   `json:"npv"`
	IRR                   *float64  `json:"irr"`
	MIRR                  *float64  `json:"mirr"`
	PaybackYear           *int      `json:"payback_year"`
	DiscountedPaybackYear *int      `json:"discounted_payback_year"`
	CumulativeNPV         []float64 `json:"cumulative_npv"`
}

// Returns covers the three modeled perspectives.
type Returns struct {
	Equity   ReturnMetrics `json:"equity"`
	Project  ReturnMetrics `json:"project"`
	Investor ReturnMetrics `json:"investor"`
}

type Profitability struct {
	YearlyRevenue   []float64 `json:"yearly_revenue"`
	YearlyEBITDA    []float64 `json:"yearly_ebitda"`
	YearlyNetIncome []float64 `json:"yearly_net_income"`
	TotalRevenue    float64   `json:"total_revenue"`
	TotalEBITDA     float64   `json:"total_ebitda"`
	TotalNetIncome  float64   `json:"total_net_income"`
	NetMargin       *float64  `json:"net_margin"`
	EBITDAMargin    *float64  `json:"ebitda_margin"`
}

// UnitEconomics divides absolute dollars by credits issued per year.
// Years with zero issuance report nil rather than raising.
type UnitEconomics struct {
	RevenuePerCredit   []*float64 `json:"revenue_per_credit"`
	CostPerCredit      []*float64 `json:"cost_per_credit"`
	NetIncomePerCredit []*float64 `json:"net_income_per_credit"`

	// LCOC: discounted lifetime operating cost (COGS + opex) over
	// discounted lifetime credits issued.
	LCOC *float64 `json:"lcoc"`
}

type Liquidity struct {
	CurrentRatio     []*float64 `json:"current_ratio"`
	CashRatio        []*float64 `json:"cash_ratio"`
	DebtToEquity     []*float64 `json:"debt_to_equity"`
	NetDebtToEBITDA  []*float64 `json:"net_debt_to_ebitda"`
	InterestCoverage []*float64 `json:"interest_coverage"`
}

type DebtCoverage struct {
	DSCR        []*float64 `json:"dscr"`
	MinDSCR     *float64   `json:"min_dscr"`
	MinDSCRYear *int       `json:"min_dscr_year"`
}

type CarbonKPIs struct {
	TotalGenerated          float64  `json:"total_generated"`
	TotalIssued             float64  `json:"total_issued"`
	IssuanceRatio           *float64 `json:"issuance_ratio"`
	RealizedPrice           *float64 `json:"realized_price"`      // total revenue / issued
	RealizedSpotPrice       *float64 `json:"realized_spot_price"` // spot revenue / spot credits
	ImpliedPrePurchasePrice *float64 `json:"implied_pre_purchase_price"`
}

type BreakEven struct {
	// Price at which EBITDA is zero at current volume, per year and
	// over the horizon: opex / ((1 - cogs share) * credits issued).
	YearlyBreakEvenPrice []*float64 `json:"yearly_break_even_price"`
	BreakEvenPrice       *float64   `json:"break_even_price"`
	BreakEvenVolume      *float64   `json:"break_even_volume"`
	SafetySpread         *float64   `json:"safety_spread"` // realized - break-even
}

type WorkingCapital struct {
	AR       []float64  `json:"ar"`
	AP       []float64  `json:"ap"`
	Unearned []float64  `json:"unearned"`
	NWC      []float64  `json:"nwc"`
	DSO      []*float64 `json:"dso"`
	DPO      []*float64 `json:"dpo"`
}

// ComprehensiveMetrics is the immutable derived snapshot for one run.
type ComprehensiveMetrics struct {
	Returns        Returns                    `json:"returns"`
	Profitability  Profitability              `json:"profitability"`
	UnitEconomics  UnitEconomics              `json:"unit_economics"`
	Liquidity      Liquidity                  `json:"liquidity"`
	DebtCoverage   DebtCoverage               `json:"debt_coverage"`
	CarbonKPIs     CarbonKPIs                 `json:"carbon_kpis"`
	BreakEven      BreakEven                  `json:"break_even"`
	WorkingCapital WorkingCapital             `json:"working_capital"`
	Compliance     *validate.ComplianceReport `json:"compliance"`
}

// Calculator derives ComprehensiveMetrics from a statement set.
type Calculator struct{}

// NewCalculator creates a metrics calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate runs every sub-calculator over the statement arrays.
func (c *Calculator) Calculate(st *models.YearlyStatements, rates Rates) *ComprehensiveMetrics {
	m := &ComprehensiveMetrics{}
	if st == nil {
		m.Compliance = validate.CheckStatements(nil, validate.DefaultTolerance)
		return m
	}

	n := len(st.Years)

	// Cash-flow perspectives
	equityCF := make([]float64, n)
	projectCF := make([]float64, n)
	investorCF := make([]float64, n)
	for t := 0; t < n; t++ {
		fcf := st.FreeCashFlow[t]
		cf := st.CashFlowStatements[t]
		is := st.IncomeStatements[t]

		// Equity holder: FCF to equity net of the capital put in.
		equityCF[t] = fcf.FCFToEquity - cf.EquityInjection

		// Project (unlevered): EBITDA - tax - ΔNWC + CAPEX (signed).
		projectCF[t] = is.EBITDA - is.Tax - fcf.ChangeNWC + fcf.Capex

		// Pre-purchase investor: credits received at spot less cash paid.
		investorCF[t] = st.CarbonStream[t].InvestorCashFlow
	}

	m.Returns = Returns{
		Equity:   returnBundle(equityCF, rates),
		Project:  returnBundle(projectCF, rates),
		Investor: returnBundle(investorCF, rates),
	}

	m.Profitability = profitability(st)
	m.UnitEconomics = unitEconomics(st, rates.Discount)
	m.Liquidity = liquidity(st)
	m.DebtCoverage = debtCoverage(st)
	m.CarbonKPIs = carbonKPIs(st)
	m.BreakEven = breakEven(st, m.CarbonKPIs)
	m.WorkingCapital = workingCapital(st)
	m.Compliance = validate.CheckStatements(st, validate.DefaultTolerance)

	return m
}

func returnBundle(cashflows []float64, rates Rates) ReturnMetrics {
	return ReturnMetrics{
		CashFlows:             cashflows,
		NPV:                   NPV(rates.Discount, cashflows),
		IRR:                   IRR(cashflows),
		MIRR:                  MIRR(cashflows, rates.Finance, rates.Reinvest),
		PaybackYear:           Payback(cashflows),
		DiscountedPaybackYear: DiscountedPayback(rates.Discount, cashflows),
		CumulativeNPV:         CumulativeNPV(rates.Discount, cashflows),
	}
}

func profitability(st *models.YearlyStatements) Profitability {
	p := Profitability{}
	for _, is := range st.IncomeStatements {
		p.YearlyRevenue = append(p.YearlyRevenue, is.TotalRevenue)
		p.YearlyEBITDA = append(p.YearlyEBITDA, is.EBITDA)
		p.YearlyNetIncome = append(p.YearlyNetIncome, is.NetIncome)
		p.TotalRevenue += is.TotalRevenue
		p.TotalEBITDA += is.EBITDA
		p.TotalNetIncome += is.NetIncome
	}
	p.NetMargin = safeDiv(p.TotalNetIncome, p.TotalRevenue)
	p.EBITDAMargin = safeDiv(p.TotalEBITDA, p.TotalRevenue)
	return p
}

func unitEconomics(st *models.YearlyStatements, discountRate float64) UnitEconomics {
	u := UnitEconomics{}
	var discCost, discCredits float64
	for t, is := range st.IncomeStatements {
		issued := is.CreditsIssued
		u.RevenuePerCredit = append(u.RevenuePerCredit, safeDiv(is.TotalRevenue, issued))
		cost := math.Abs(is.COGS) + math.Abs(is.OperatingExpenses)
		u.CostPerCredit = append(u.CostPerCredit, safeDiv(cost, issued))
		u.NetIncomePerCredit = append(u.NetIncomePerCredit, safeDiv(is.NetIncome, issued))

		factor := math.Pow(1+discountRate, float64(t))
		discCost += cost / factor
		discCredits += issued / factor
	}
	u.LCOC = safeDiv(discCost, discCredits)
	return u
}

func liquidity(st *models.YearlyStatements) Liquidity {
	l := Liquidity{}
	for t, bs := range st.BalanceSheets {
		is := st.IncomeStatements[t]
		currentLiabilities := bs.AccountsPayable + bs.UnearnedRevenue
		l.CurrentRatio = append(l.CurrentRatio, safeDiv(bs.Cash+bs.AccountsReceivable, currentLiabilities))
		l.CashRatio = append(l.CashRatio, safeDiv(bs.Cash, currentLiabilities))
		l.DebtToEquity = append(l.DebtToEquity, safeDiv(bs.DebtBalance, bs.TotalEquity))
		l.NetDebtToEBITDA = append(l.NetDebtToEBITDA, safeDiv(bs.DebtBalance-bs.Cash, is.EBITDA))
		l.InterestCoverage = append(l.InterestCoverage, safeDiv(is.EBITDA, is.InterestExpense))
	}
	return l
}

func debtCoverage(st *models.YearlyStatements) DebtCoverage {
	d := DebtCoverage{}
	for t, ds := range st.DebtSchedule {
		d.DSCR = append(d.DSCR, ds.DSCR)
		if ds.DSCR == nil {
			continue
		}
		if d.MinDSCR == nil || *ds.DSCR < *d.MinDSCR {
			v := *ds.DSCR
			year := st.Years[t]
			d.MinDSCR = &v
			d.MinDSCRYear = &year
		}
	}
	return d
}

func carbonKPIs(st *models.YearlyStatements) CarbonKPIs {
	k := CarbonKPIs{}
	var totalRevenue, spotRevenue, spotCredits float64
	for t, is := range st.IncomeStatements {
		k.TotalGenerated += is.CreditsGenerated
		k.TotalIssued += is.CreditsIssued
		totalRevenue += is.TotalRevenue
		spotRevenue += is.SpotRevenue
		spotCredits += is.CreditsIssued - is.CreditsPrePurchased
		if k.ImpliedPrePurchasePrice == nil && st.CarbonStream[t].ImpliedPrice != nil {
			v := *st.CarbonStream[t].ImpliedPrice
			k.ImpliedPrePurchasePrice = &v
		}
	}
	k.IssuanceRatio = safeDiv(k.TotalIssued, k.TotalGenerated)
	k.RealizedPrice = safeDiv(totalRevenue, k.TotalIssued)
	k.RealizedSpotPrice = safeDiv(spotRevenue, spotCredits)
	return k
}

func breakEven(st *models.YearlyStatements, kpis CarbonKPIs) BreakEven {
	b := BreakEven{}
	var totalOpex, totalIssued, totalRevenue, totalCOGS float64
	for _, is := range st.IncomeStatements {
		opex := math.Abs(is.OperatingExpenses)
		totalOpex += opex
		totalIssued += is.CreditsIssued
		totalRevenue += is.TotalRevenue
		totalCOGS += math.Abs(is.COGS)

		// Per-year: price p* such that p*·q·(1 - cogs share) = opex
		var perYear *float64
		if is.CreditsIssued > 0 && is.TotalRevenue != 0 {
			margin := 1 - math.Abs(is.COGS)/is.TotalRevenue
			if margin > 0 {
				v := opex / (margin * is.CreditsIssued)
				perYear = &v
			}
		}
		b.YearlyBreakEvenPrice = append(b.YearlyBreakEvenPrice, perYear)
	}

	if totalIssued > 0 && totalRevenue > 0 {
		margin := 1 - totalCOGS/totalRevenue
		if margin > 0 {
			price := totalOpex / (margin * totalIssued)
			b.BreakEvenPrice = &price

			if kpis.RealizedPrice != nil {
				spread := *kpis.RealizedPrice - price
				b.SafetySpread = &spread

				// Volume at the realized price covering opex
				volume := totalOpex / (margin * *kpis.RealizedPrice)
				b.BreakEvenVolume = &volume
			}
		}
	}
	return b
}

func workingCapital(st *models.YearlyStatements) WorkingCapital {
	w := WorkingCapital{}
	for t, bs := range st.BalanceSheets {
		is := st.IncomeStatements[t]
		w.AR = append(w.AR, bs.AccountsReceivable)
		w.AP = append(w.AP, bs.AccountsPayable)
		w.Unearned = append(w.Unearned, bs.UnearnedRevenue)
		w.NWC = append(w.NWC, bs.AccountsReceivable-bs.AccountsPayable-bs.UnearnedRevenue)

		w.DSO = append(w.DSO, scale(safeDiv(bs.AccountsReceivable, is.TotalRevenue), 365))
		costBase := math.Abs(is.COGS) + math.Abs(is.OperatingExpenses)
		w.DPO = append(w.DPO, scale(safeDiv(bs.AccountsPayable, costBase), 365))
	}
	return w
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}
