// Package report renders a metrics snapshot into a markdown summary
// for export collaborators. Formatting only: numeric values pass
// through untouched, and non-applicable metrics render as em-dashes.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"carbon_finance/pkg/core/metrics"

	"github.com/yuin/goldmark"
)

// RenderScenarioReport builds the markdown summary for one scenario.
func RenderScenarioReport(name string, m *metrics.ComprehensiveMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Scenario: %s\n\n", name)

	b.WriteString("## Returns\n\n")
	b.WriteString("| Perspective | NPV | IRR | MIRR | Payback (yrs) |\n")
	b.WriteString("|---|---|---|---|---|\n")
	writeReturnsRow(&b, "Equity", m.Returns.Equity)
	writeReturnsRow(&b, "Project", m.Returns.Project)
	writeReturnsRow(&b, "Investor", m.Returns.Investor)

	b.WriteString("\n## Profitability\n\n")
	fmt.Fprintf(&b, "- Total revenue: %s\n", money(m.Profitability.TotalRevenue))
	fmt.Fprintf(&b, "- Total EBITDA: %s\n", money(m.Profitability.TotalEBITDA))
	fmt.Fprintf(&b, "- Total net income: %s\n", money(m.Profitability.TotalNetIncome))
	fmt.Fprintf(&b, "- Net margin: %s\n", pct(m.Profitability.NetMargin))

	b.WriteString("\n## Carbon\n\n")
	fmt.Fprintf(&b, "- Credits generated: %.0f tCO2e\n", m.CarbonKPIs.TotalGenerated)
	fmt.Fprintf(&b, "- Credits issued: %.0f tCO2e\n", m.CarbonKPIs.TotalIssued)
	fmt.Fprintf(&b, "- Issuance ratio: %s\n", pct(m.CarbonKPIs.IssuanceRatio))
	fmt.Fprintf(&b, "- Realized price: %s\n", moneyPtr(m.CarbonKPIs.RealizedPrice))
	fmt.Fprintf(&b, "- LCOC: %s\n", moneyPtr(m.UnitEconomics.LCOC))
	fmt.Fprintf(&b, "- Break-even price: %s\n", moneyPtr(m.BreakEven.BreakEvenPrice))
	fmt.Fprintf(&b, "- Safety spread: %s\n", moneyPtr(m.BreakEven.SafetySpread))

	b.WriteString("\n## Debt\n\n")
	if m.DebtCoverage.MinDSCR != nil && m.DebtCoverage.MinDSCRYear != nil {
		fmt.Fprintf(&b, "- Minimum DSCR: %.2fx in %d\n", *m.DebtCoverage.MinDSCR, *m.DebtCoverage.MinDSCRYear)
	} else {
		b.WriteString("- Minimum DSCR: — (no debt service)\n")
	}

	b.WriteString("\n## Compliance\n\n")
	if m.Compliance != nil && m.Compliance.OverallPass {
		b.WriteString("All accounting identities hold within tolerance.\n")
	} else if m.Compliance != nil {
		b.WriteString("Failed checks:\n\n")
		for _, failed := range m.Compliance.FailedChecks {
			fmt.Fprintf(&b, "- %s\n", failed)
		}
	}

	return b.String()
}

// RenderHTML converts the markdown report to HTML via goldmark.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

func writeReturnsRow(b *strings.Builder, label string, r metrics.ReturnMetrics) {
	payback := "—"
	if r.PaybackYear != nil {
		payback = fmt.Sprintf("%d", *r.PaybackYear)
	}
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
		label, money(r.NPV), pct(r.IRR), pct(r.MIRR), payback)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func moneyPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return money(*v)
}

func pct(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
