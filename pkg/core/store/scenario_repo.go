package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carbon_finance/pkg/core/metrics"
	"carbon_finance/pkg/core/scenario"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScenarioRepo persists frozen scenario snapshots. Saves capture a
// point-in-time copy of both the slider overrides and the computed
// metrics, so later recomputation never changes a saved scenario.
type ScenarioRepo struct{}

// NewScenarioRepo creates a new repository instance.
func NewScenarioRepo() *ScenarioRepo {
	return &ScenarioRepo{}
}

// Save stores a new scenario and returns its generated id.
func (r *ScenarioRepo) Save(ctx context.Context, name string, variables map[string]float64, m *metrics.ComprehensiveMetrics) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	varsJSON, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("failed to marshal variables: %w", err)
	}
	metricsJSON, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metrics: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO scenarios (id, name, variables, metrics, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := pool.Exec(ctx, query, id, name, varsJSON, metricsJSON, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save scenario: %w", err)
	}
	return id, nil
}

// Load retrieves one scenario by id.
func (r *ScenarioRepo) Load(ctx context.Context, id string) (*scenario.Scenario, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT id, name, variables, metrics, created_at FROM scenarios WHERE id = $1`

	var s scenario.Scenario
	var varsJSON, metricsJSON []byte
	err := pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &varsJSON, &metricsJSON, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no scenario found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	if err := json.Unmarshal(varsJSON, &s.Variables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
	}
	if err := json.Unmarshal(metricsJSON, &s.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	return &s, nil
}

// List returns all saved scenarios, newest first.
func (r *ScenarioRepo) List(ctx context.Context) ([]*scenario.Scenario, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT id, name, variables, metrics, created_at FROM scenarios ORDER BY created_at DESC`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var out []*scenario.Scenario
	for rows.Next() {
		var s scenario.Scenario
		var varsJSON, metricsJSON []byte
		if err := rows.Scan(&s.ID, &s.Name, &varsJSON, &metricsJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario row: %w", err)
		}
		if err := json.Unmarshal(varsJSON, &s.Variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
		if err := json.Unmarshal(metricsJSON, &s.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Delete removes a scenario by id.
func (r *ScenarioRepo) Delete(ctx context.Context, id string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	tag, err := pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no scenario found for id %s", id)
	}
	return nil
}
