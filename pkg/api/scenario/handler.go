package scenario

import (
	"encoding/json"
	"fmt"
	"net/http"

	apimodel "carbon_finance/pkg/api/model"
	"carbon_finance/pkg/core/report"
	corescenario "carbon_finance/pkg/core/scenario"
	"carbon_finance/pkg/core/store"
)

// Handler serves scenario persistence, comparison and reporting.
type Handler struct {
	repo    *store.ScenarioRepo
	compute *apimodel.Handler
}

// NewHandler creates a scenario handler backed by the store.
func NewHandler(repo *store.ScenarioRepo, compute *apimodel.Handler) *Handler {
	return &Handler{repo: repo, compute: compute}
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// SaveRequest recomputes the model at save time and freezes the result
// alongside the overrides that produced it.
type SaveRequest struct {
	Name      string             `json:"name"`
	Model     json.RawMessage    `json:"model"`
	Overrides map[string]float64 `json:"overrides,omitempty"`
}

// HandleSave is POST /api/scenario/save.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "scenario name is required", http.StatusBadRequest)
		return
	}

	resp, err := h.compute.Run(apimodel.ComputeRequest{Model: req.Model, Overrides: req.Overrides})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.repo.Save(r.Context(), req.Name, req.Overrides, resp.Metrics)
	if err != nil {
		http.Error(w, fmt.Sprintf("save failed: %v", err), http.StatusInternalServerError)
		return
	}
	fmt.Printf("[SCENARIO] Saved %q as %s\n", req.Name, id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// HandleList is GET /api/scenario/list.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}

	scenarios, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("list failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scenarios)
}

// HandleLoad is GET /api/scenario/load?id=...
func (h *Handler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	s, err := h.repo.Load(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// HandleDelete is DELETE /api/scenario/delete?id=...
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "DELETE") {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	fmt.Printf("[SCENARIO] Deleted %s\n", id)
	w.WriteHeader(http.StatusNoContent)
}

// CompareRequest recomputes a current model and diffs it against a
// saved base scenario.
type CompareRequest struct {
	BaseID    string             `json:"base_id"`
	Model     json.RawMessage    `json:"model"`
	Overrides map[string]float64 `json:"overrides,omitempty"`
}

// HandleCompare is POST /api/scenario/compare.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	base, err := h.repo.Load(r.Context(), req.BaseID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	resp, err := h.compute.Run(apimodel.ComputeRequest{Model: req.Model, Overrides: req.Overrides})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	changes := corescenario.Compare(resp.Metrics, base.Metrics)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"base_id": base.ID,
		"changes": changes,
	})
}

// ExpectedRequest weights saved scenarios by probability (percent,
// summing to 100).
type ExpectedRequest struct {
	Scenarios []struct {
		ID          string  `json:"id"`
		Probability float64 `json:"probability"`
	} `json:"scenarios"`
}

// HandleExpected is POST /api/scenario/expected.
func (h *Handler) HandleExpected(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	var req ExpectedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	weighted := make([]corescenario.Weighted, 0, len(req.Scenarios))
	for _, entry := range req.Scenarios {
		s, err := h.repo.Load(r.Context(), entry.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		weighted = append(weighted, corescenario.Weighted{
			Probability: entry.Probability,
			Metrics:     s.Metrics,
		})
	}

	expected := corescenario.ExpectedMetrics(weighted)
	if expected == nil {
		http.Error(w, "probability weights must sum to 100%", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expected)
}

// HandleReport is GET /api/scenario/report?id=...&format=md|html.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	s, err := h.repo.Load(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	markdown := report.RenderScenarioReport(s.Name, s.Metrics)
	if r.URL.Query().Get("format") == "html" {
		html, err := report.RenderHTML(markdown)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, markdown)
}
