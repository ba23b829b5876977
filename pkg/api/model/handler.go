package model

import (
	"encoding/json"
	"fmt"
	"net/http"

	"carbon_finance/pkg/core/engine"
	"carbon_finance/pkg/core/inputs"
	"carbon_finance/pkg/core/metrics"
	"carbon_finance/pkg/core/validate"
	"carbon_finance/pkg/models"
)

// Handler serves the full recomputation pipeline. Every request runs
// normalize -> reconstruct -> engine -> metrics from scratch; there is
// no partial or incremental recompute entry point.
type Handler struct {
	defaults inputs.Defaults
}

// NewHandler creates a model compute handler with config defaults.
func NewHandler(defaults inputs.Defaults) *Handler {
	return &Handler{defaults: defaults}
}

// ComputeRequest carries a loose model record plus optional slider
// overrides (variable key -> scalar).
type ComputeRequest struct {
	Model     json.RawMessage    `json:"model"`
	Overrides map[string]float64 `json:"overrides,omitempty"`
}

// ComputeResponse is the full output of one pipeline run.
type ComputeResponse struct {
	Inputs     *models.ModelInputs           `json:"inputs"`
	Statements *models.YearlyStatements      `json:"statements"`
	Metrics    *metrics.ComprehensiveMetrics `json:"metrics"`
	Warnings   []validate.Warning            `json:"warnings"`
}

// HandleCompute is the POST /api/model/compute endpoint.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.Run(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Run executes the pipeline outside of HTTP concerns so the scenario
// handler can reuse it for save-time snapshots.
func (h *Handler) Run(req ComputeRequest) (*ComputeResponse, error) {
	raw, err := inputs.SmartParse(string(req.Model))
	if err != nil {
		return nil, fmt.Errorf("unparseable model payload: %w", err)
	}

	in, err := inputs.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid model payload: %w", err)
	}
	inputs.ApplyDefaults(in, h.defaults)

	warnings := validate.CheckInputs(in)

	if len(req.Overrides) > 0 {
		in = inputs.ApplyOverrides(in, req.Overrides)
	}

	statements := engine.NewStatementEngine().Compute(in)
	m := metrics.NewCalculator().Calculate(statements, metrics.Rates{
		Discount: in.DiscountRate,
		Finance:  in.FinanceRate,
		Reinvest: in.ReinvestRate,
	})

	return &ComputeResponse{
		Inputs:     in,
		Statements: statements,
		Metrics:    m,
		Warnings:   warnings,
	}, nil
}
