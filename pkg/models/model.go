package models

// ModelInputs is the fully normalized input set for one carbon project
// model. Scalars apply to every year; array fields carry exactly one
// value per horizon year. Cost arrays follow the negative-flow sign
// convention, enforced at the boundary (pkg/core/inputs) before the
// engine ever sees them.
type ModelInputs struct {
	Years []int `json:"years"`

	// Rates and durations (scalars)
	CogsRate          float64 `json:"cogs_rate"`          // fraction of revenue
	TaxRate           float64 `json:"tax_rate"`           // fraction of positive EBT
	InterestRate      float64 `json:"interest_rate"`      // on beginning debt balance
	DebtTenorYears    int     `json:"debt_tenor_years"`   // level amortization period
	ARRate            float64 `json:"ar_rate"`            // AR as fraction of revenue
	APRate            float64 `json:"ap_rate"`            // AP as fraction of cost base
	DiscountRate      float64 `json:"discount_rate"`      // NPV / discounted payback
	FinanceRate       float64 `json:"finance_rate"`       // MIRR: cost of negative flows
	ReinvestRate      float64 `json:"reinvest_rate"`      // MIRR: growth of positive flows
	DepreciationYears int     `json:"depreciation_years"` // straight-line period for CAPEX

	// Per-year arrays (len == len(Years))
	CreditsGenerated   []float64 `json:"credits_generated"`    // tCO2e
	IssuanceFlags      []float64 `json:"issuance_flags"`       // fraction issued (0..1)
	PricePerCredit     []float64 `json:"price_per_credit"`     // spot $/tCO2e
	FeasibilityCosts   []float64 `json:"feasibility_costs"`    // negative
	PDDCosts           []float64 `json:"pdd_costs"`            // negative
	MRVCosts           []float64 `json:"mrv_costs"`            // negative
	StaffCosts         []float64 `json:"staff_costs"`          // negative
	Depreciation       []float64 `json:"depreciation"`         // positive; derived from CAPEX when empty
	Capex              []float64 `json:"capex"`                // negative
	EquityInjections   []float64 `json:"equity_injections"`    // positive inflow
	DebtDraws          []float64 `json:"debt_draws"`           // positive inflow
	PrePurchaseAmounts []float64 `json:"pre_purchase_amounts"` // investor cash received
	PrePurchaseCredits []float64 `json:"pre_purchase_credits"` // credits delivered against pre-purchase
}

// Horizon returns the number of model years.
func (m *ModelInputs) Horizon() int {
	return len(m.Years)
}

// IncomeStatement for a single model year. Revenue splits into spot
// sales and pre-purchase recognition; costs carry their negative sign.
type IncomeStatement struct {
	Year               int     `json:"year"`
	SpotRevenue        float64 `json:"spot_revenue"`
	PrePurchaseRevenue float64 `json:"pre_purchase_revenue"`
	TotalRevenue       float64 `json:"total_revenue"`
	COGS               float64 `json:"cogs"`               // negative
	OperatingExpenses  float64 `json:"operating_expenses"` // negative
	EBITDA             float64 `json:"ebitda"`
	Depreciation       float64 `json:"depreciation"` // positive charge
	InterestExpense    float64 `json:"interest_expense"`
	EarningsBeforeTax  float64 `json:"earnings_before_tax"`
	Tax                float64 `json:"tax"`
	NetIncome          float64 `json:"net_income"`

	// Carbon quantities carried alongside the dollar lines
	CreditsGenerated    float64 `json:"credits_generated"`
	CreditsIssued       float64 `json:"credits_issued"`
	CreditsPrePurchased float64 `json:"credits_pre_purchased"`
}

// BalanceSheet for a single model year, chained to the prior year.
type BalanceSheet struct {
	Year               int     `json:"year"`
	Cash               float64 `json:"cash"`
	AccountsReceivable float64 `json:"accounts_receivable"`
	PPENet             float64 `json:"ppe_net"`
	TotalAssets        float64 `json:"total_assets"`
	AccountsPayable    float64 `json:"accounts_payable"`
	UnearnedRevenue    float64 `json:"unearned_revenue"`
	DebtBalance        float64 `json:"debt_balance"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	ContributedCapital float64 `json:"contributed_capital"`
	RetainedEarnings   float64 `json:"retained_earnings"`
	TotalEquity        float64 `json:"total_equity"`
}

// CashFlowStatement is derived strictly from deltas between the current
// and prior balance sheets; CashEnding must tie to BalanceSheet.Cash.
type CashFlowStatement struct {
	Year             int     `json:"year"`
	NetIncome        float64 `json:"net_income"`
	Depreciation     float64 `json:"depreciation"`
	ChangeAR         float64 `json:"change_ar"`       // cash impact (negative when AR grows)
	ChangeAP         float64 `json:"change_ap"`       // cash impact
	ChangeUnearned   float64 `json:"change_unearned"` // cash impact
	OperatingCF      float64 `json:"operating_cf"`
	Capex            float64 `json:"capex"` // negative
	InvestingCF      float64 `json:"investing_cf"`
	EquityInjection  float64 `json:"equity_injection"`
	DebtDraw         float64 `json:"debt_draw"`
	PrincipalPayment float64 `json:"principal_payment"` // positive outflow
	FinancingCF      float64 `json:"financing_cf"`
	NetChangeInCash  float64 `json:"net_change_in_cash"`
	CashBeginning    float64 `json:"cash_beginning"`
	CashEnding       float64 `json:"cash_ending"`
}

// DebtSchedule row. DSCR is nil when no debt service is due that year.
type DebtSchedule struct {
	Year             int      `json:"year"`
	BeginningBalance float64  `json:"beginning_balance"`
	Draw             float64  `json:"draw"`
	InterestExpense  float64  `json:"interest_expense"`
	PrincipalPayment float64  `json:"principal_payment"`
	EndingBalance    float64  `json:"ending_balance"`
	DSCR             *float64 `json:"dscr"`
}

// CarbonStream tracks the pre-purchase agreement from the investor
// side. ImpliedPrice is nil when no credits are contracted.
type CarbonStream struct {
	Year             int      `json:"year"`
	CreditsDelivered float64  `json:"credits_delivered"`
	PurchaseAmount   float64  `json:"purchase_amount"`
	ImpliedPrice     *float64 `json:"implied_price"`
	InvestorCashFlow float64  `json:"investor_cash_flow"`
}

// FreeCashFlow to equity for a single year.
type FreeCashFlow struct {
	Year         int     `json:"year"`
	NetIncome    float64 `json:"net_income"`
	Depreciation float64 `json:"depreciation"`
	ChangeNWC    float64 `json:"change_nwc"` // AR - AP - unearned, year over year
	Capex        float64 `json:"capex"`      // negative
	NetBorrowing float64 `json:"net_borrowing"`
	FCFToEquity  float64 `json:"fcf_to_equity"`
}

// YearlyStatements is the full product of one engine run: six parallel
// arrays indexed in lockstep with Years.
type YearlyStatements struct {
	Years              []int               `json:"years"`
	IncomeStatements   []IncomeStatement   `json:"income_statements"`
	BalanceSheets      []BalanceSheet      `json:"balance_sheets"`
	CashFlowStatements []CashFlowStatement `json:"cash_flow_statements"`
	DebtSchedule       []DebtSchedule      `json:"debt_schedule"`
	CarbonStream       []CarbonStream      `json:"carbon_stream"`
	FreeCashFlow       []FreeCashFlow      `json:"free_cash_flow"`
}
