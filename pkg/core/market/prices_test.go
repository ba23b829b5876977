package market

import (
	"math"
	"testing"
)

const cannedPage = `
<html><body>
<table>
  <tr><th>Segment</th><th>Price</th></tr>
  <tr><td>Nature-based removal</td><td>$12.40</td></tr>
  <tr><td>Renewable energy</td><td>USD 3.85</td></tr>
  <tr><td>Engineered removal</td><td>1,240.00</td></tr>
  <tr><td>Pending segment</td><td>TBD</td></tr>
  <tr><td></td><td>9.99</td></tr>
</table>
</body></html>`

func TestParsePriceHTML(t *testing.T) {
	prices, err := ParsePriceHTML(cannedPage)
	if err != nil {
		t.Fatal(err)
	}

	// Header row has no td cells; the TBD row and the nameless row are
	// skipped. Three parseable entries remain.
	if len(prices) != 3 {
		t.Fatalf("expected 3 prices, got %d: %v", len(prices), prices)
	}
	if math.Abs(prices["Nature-based removal"]-12.40) > 1e-9 {
		t.Errorf("dollar-prefixed price expected 12.40, got %f", prices["Nature-based removal"])
	}
	if math.Abs(prices["Renewable energy"]-3.85) > 1e-9 {
		t.Errorf("USD-prefixed price expected 3.85, got %f", prices["Renewable energy"])
	}
	if math.Abs(prices["Engineered removal"]-1240.00) > 1e-9 {
		t.Errorf("comma-separated price expected 1240.00, got %f", prices["Engineered removal"])
	}
}

func TestParsePriceHTML_NoTable(t *testing.T) {
	prices, err := ParsePriceHTML("<html><body><p>maintenance</p></body></html>")
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 0 {
		t.Errorf("expected no prices, got %v", prices)
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$12.40", 12.40, true},
		{"USD 8.15", 8.15, true},
		{"1,240.00", 1240.00, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-5.00", 0, false}, // negative prices rejected
	}
	for _, c := range cases {
		got, ok := parsePrice(c.in)
		if ok != c.ok {
			t.Errorf("parsePrice(%q) ok expected %v, got %v", c.in, c.ok, ok)
			continue
		}
		if ok && math.Abs(got-c.want) > 1e-9 {
			t.Errorf("parsePrice(%q) expected %f, got %f", c.in, c.want, got)
		}
	}
}
