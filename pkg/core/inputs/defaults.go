package inputs

import (
	"os"

	"carbon_finance/pkg/models"

	"gopkg.in/yaml.v2"
)

// Defaults holds the fallback scalar assumptions loaded from
// config/defaults.yaml. A normalized model keeps any scalar the user
// set explicitly; zero-valued scalars are filled from here.
type Defaults struct {
	CogsRate          float64 `yaml:"cogs_rate"`
	TaxRate           float64 `yaml:"tax_rate"`
	InterestRate      float64 `yaml:"interest_rate"`
	DebtTenorYears    int     `yaml:"debt_tenor_years"`
	ARRate            float64 `yaml:"ar_rate"`
	APRate            float64 `yaml:"ap_rate"`
	DiscountRate      float64 `yaml:"discount_rate"`
	FinanceRate       float64 `yaml:"finance_rate"`
	ReinvestRate      float64 `yaml:"reinvest_rate"`
	DepreciationYears int     `yaml:"depreciation_years"`
}

// LoadDefaults reads the YAML defaults file. A missing or malformed
// file returns zero defaults and the error for the caller to log.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, err
	}
	return d, nil
}

// ApplyDefaults fills zero scalars on a normalized model in place,
// leaving explicit user values untouched.
func ApplyDefaults(m *models.ModelInputs, d Defaults) {
	if m.CogsRate == 0 {
		m.CogsRate = d.CogsRate
	}
	if m.TaxRate == 0 {
		m.TaxRate = d.TaxRate
	}
	if m.InterestRate == 0 {
		m.InterestRate = d.InterestRate
	}
	if m.DebtTenorYears == 0 {
		m.DebtTenorYears = d.DebtTenorYears
	}
	if m.ARRate == 0 {
		m.ARRate = d.ARRate
	}
	if m.APRate == 0 {
		m.APRate = d.APRate
	}
	if m.DiscountRate == 0 {
		m.DiscountRate = d.DiscountRate
	}
	if m.FinanceRate == 0 {
		m.FinanceRate = d.FinanceRate
	}
	if m.ReinvestRate == 0 {
		m.ReinvestRate = d.ReinvestRate
	}
	if m.DepreciationYears == 0 {
		m.DepreciationYears = d.DepreciationYears
	}
}
