package market

import (
	"encoding/json"
	"fmt"
	"net/http"

	coremarket "carbon_finance/pkg/core/market"
)

// Handler exposes reference spot prices for input pre-fill.
type Handler struct {
	fetcher *coremarket.PriceFetcher
}

// NewHandler creates a market price handler.
func NewHandler(fetcher *coremarket.PriceFetcher) *Handler {
	return &Handler{fetcher: fetcher}
}

// HandlePrices is GET /api/market/prices.
func (h *Handler) HandlePrices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	prices, err := h.fetcher.FetchSpotPrices(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("price fetch failed: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prices)
}
