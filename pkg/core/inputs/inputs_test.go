package inputs

import (
	"math"
	"testing"

	"carbon_finance/pkg/models"
)

func TestSmartParse_StrictJSON(t *testing.T) {
	raw, err := SmartParse(`{"years": [2024, 2025], "tax_rate": 0.21}`)
	if err != nil {
		t.Fatalf("strict JSON should parse: %v", err)
	}
	if _, ok := raw["years"]; !ok {
		t.Error("years key missing from parsed record")
	}
}

func TestSmartParse_TrailingComma(t *testing.T) {
	// Falls through to the repair pass.
	raw, err := SmartParse(`{"years": [2024, 2025,], "tax_rate": 0.21,}`)
	if err != nil {
		t.Fatalf("repairable JSON should parse: %v", err)
	}
	if _, ok := raw["tax_rate"]; !ok {
		t.Error("tax_rate key missing from repaired record")
	}
}

func TestSmartParse_HjsonComments(t *testing.T) {
	input := `{
		// hand-edited model file
		years: [2024, 2025]
		tax_rate: 0.21
	}`
	raw, err := SmartParse(input)
	if err != nil {
		t.Fatalf("hjson should parse: %v", err)
	}
	if _, ok := raw["years"]; !ok {
		t.Error("years key missing from hjson record")
	}
}

func TestSmartParse_Hopeless(t *testing.T) {
	if _, err := SmartParse("<html>not a model</html>"); err == nil {
		t.Error("unparseable input should error")
	}
}

func TestNormalize_MissingYears(t *testing.T) {
	if _, err := Normalize(map[string]interface{}{"tax_rate": 0.21}); err == nil {
		t.Error("missing years must be an error, not a silent default")
	}
}

func TestNormalize_ScalarBroadcastAndArrays(t *testing.T) {
	raw := map[string]interface{}{
		"years":             []interface{}{float64(2024), float64(2025), float64(2026)},
		"price_per_credit":  float64(15), // scalar broadcast
		"credits_generated": []interface{}{float64(10000), float64(12000), float64(15000)},
		"tax_rate":          float64(0.21),
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Years) != 3 || m.Years[0] != 2024 {
		t.Errorf("years expected [2024 2025 2026], got %v", m.Years)
	}
	for i, v := range m.PricePerCredit {
		if v != 15 {
			t.Errorf("broadcast price year %d expected 15, got %f", i, v)
		}
	}
	if m.CreditsGenerated[2] != 15000 {
		t.Errorf("credits year 2 expected 15000, got %f", m.CreditsGenerated[2])
	}
	if m.TaxRate != 0.21 {
		t.Errorf("tax_rate expected 0.21, got %f", m.TaxRate)
	}
}

func TestNormalize_YearRows(t *testing.T) {
	raw := map[string]interface{}{
		"years": []interface{}{float64(2024), float64(2025), float64(2026)},
		"credits_generated": []interface{}{
			map[string]interface{}{"year": float64(2024), "value": float64(5000)},
			map[string]interface{}{"year": float64(2026), "value": float64(9000)},
		},
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{5000, 0, 9000}
	for i := range expected {
		if m.CreditsGenerated[i] != expected[i] {
			t.Errorf("year %d: expected %f, got %f", i, expected[i], m.CreditsGenerated[i])
		}
	}
}

func TestNormalize_CostSignForced(t *testing.T) {
	// Hand-entered positive costs still model as negative flows.
	raw := map[string]interface{}{
		"years":       []interface{}{float64(2024), float64(2025)},
		"staff_costs": []interface{}{float64(60000), float64(-60000)},
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range m.StaffCosts {
		if v != -60000 {
			t.Errorf("staff cost year %d expected -60000, got %f", i, v)
		}
	}
}

func TestNormalize_WrappedScalar(t *testing.T) {
	raw := map[string]interface{}{
		"years":    []interface{}{float64(2024)},
		"tax_rate": map[string]interface{}{"value": float64(0.25)},
	}
	m, err := Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if m.TaxRate != 0.25 {
		t.Errorf("wrapped tax_rate expected 0.25, got %f", m.TaxRate)
	}
}

func TestApplyOverrides_DoesNotMutateInput(t *testing.T) {
	m := &models.ModelInputs{
		Years: []int{2024, 2025, 2026},
		Capex: []float64{-90000, 0, 0},
	}
	out := ApplyOverrides(m, map[string]float64{"capex": 45000})

	// Proportional: 90000 base total halved, sign reapplied.
	if math.Abs(out.Capex[0]-(-45000)) > 1e-9 {
		t.Errorf("override capex expected -45000, got %f", out.Capex[0])
	}
	// Base snapshot untouched.
	if m.Capex[0] != -90000 {
		t.Errorf("input mutated: capex now %f", m.Capex[0])
	}
}

func TestApplyOverrides_UnknownKeyIgnored(t *testing.T) {
	m := &models.ModelInputs{
		Years:            []int{2024},
		CreditsGenerated: []float64{1000},
	}
	out := ApplyOverrides(m, map[string]float64{"no_such_variable": 5})
	if out.CreditsGenerated[0] != 1000 {
		t.Error("unknown override keys must leave arrays unchanged")
	}
}

func TestApplyDefaults_FillsZerosOnly(t *testing.T) {
	m := &models.ModelInputs{
		Years:   []int{2024},
		TaxRate: 0.30, // explicit, must survive
	}
	d := Defaults{TaxRate: 0.21, DiscountRate: 0.10, DebtTenorYears: 10}
	ApplyDefaults(m, d)

	if m.TaxRate != 0.30 {
		t.Errorf("explicit tax_rate overwritten: got %f", m.TaxRate)
	}
	if m.DiscountRate != 0.10 {
		t.Errorf("zero discount_rate not filled: got %f", m.DiscountRate)
	}
	if m.DebtTenorYears != 10 {
		t.Errorf("zero debt_tenor_years not filled: got %d", m.DebtTenorYears)
	}
}
