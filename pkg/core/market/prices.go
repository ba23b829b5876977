// Package market fetches reference carbon-credit spot prices from a
// registry price page. Prices are advisory pre-fill values only; a
// fetch failure degrades to config defaults and never blocks a model
// run.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent identifies us to the registry per its access policy.
const UserAgent = "carbon-finance-model/1.0 (model-inputs@carbonfinance.dev)"

// PriceFetcher pulls the registry price table and caches the parsed
// result locally so repeated model edits don't re-hit the source.
type PriceFetcher struct {
	client   *http.Client
	url      string
	cacheDir string
}

// NewPriceFetcher creates a fetcher. If cacheDir is non-empty, parsed
// prices are cached there as JSON.
func NewPriceFetcher(url, cacheDir string) *PriceFetcher {
	return &PriceFetcher{
		client:   &http.Client{Timeout: 20 * time.Second},
		url:      url,
		cacheDir: cacheDir,
	}
}

// FetchSpotPrices returns a map of market segment name to $/tCO2e.
func (f *PriceFetcher) FetchSpotPrices(ctx context.Context) (map[string]float64, error) {
	// 1. Check cache first
	if f.cacheDir != "" {
		cachePath := filepath.Join(f.cacheDir, "spot_prices.json")
		if content, err := os.ReadFile(cachePath); err == nil {
			var cached map[string]float64
			if err := json.Unmarshal(content, &cached); err == nil && len(cached) > 0 {
				return cached, nil
			}
		}
	}

	// 2. Fetch live
	req, err := http.NewRequestWithContext(ctx, "GET", f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, f.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price page: %w", err)
	}

	prices := parsePriceTable(doc)
	if len(prices) == 0 {
		return nil, fmt.Errorf("no prices found on %s", f.url)
	}

	// 3. Cache the result
	if f.cacheDir != "" {
		if data, err := json.Marshal(prices); err == nil {
			os.MkdirAll(f.cacheDir, 0755)
			os.WriteFile(filepath.Join(f.cacheDir, "spot_prices.json"), data, 0644)
		}
	}

	return prices, nil
}

// ParsePriceHTML parses a price table from raw HTML. Exposed for
// testing against canned pages.
func ParsePriceHTML(html string) (map[string]float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return parsePriceTable(doc), nil
}

// parsePriceTable walks table rows looking for a name cell followed by
// a numeric price cell. Rows without a parseable price are skipped.
func parsePriceTable(doc *goquery.Document) map[string]float64 {
	prices := make(map[string]float64)

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		if name == "" {
			return
		}

		priceText := strings.TrimSpace(cells.Eq(1).Text())
		price, ok := parsePrice(priceText)
		if !ok {
			return
		}
		prices[name] = price
	})

	return prices
}

// parsePrice strips currency symbols and separators ("$12.40",
// "USD 12.40", "1,240.00") before conversion.
func parsePrice(text string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", "USD", "", ",", "", "\u00a0", " ").Replace(text)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
