package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/quote-service/internal/model"
)

// ModelStats aggregates ledger rows per model and purpose.
type ModelStats struct {
	Model     string `db:"model" json:"model"`
	Purpose   string `db:"purpose" json:"purpose"`
	Calls     int64  `db:"calls" json:"calls"`
	Failures  int64  `db:"failures" json:"failures"`
	AvgMillis int64  `db:"avg_ms" json:"avg_ms"`
}

// LLMCallRepository handles persistence of LLM call tracking.
type LLMCallRepository interface {
	Create(ctx context.Context, call *model.LLMCall) error
	Count(ctx context.Context) (int64, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
	StatsByModel(ctx context.Context) ([]ModelStats, error)
}

type sqliteLLMCallRepository struct {
	db *sqlx.DB
}

// NewLLMCallRepository creates a new SQLite-backed LLMCallRepository.
func NewLLMCallRepository(db *sqlx.DB) LLMCallRepository {
	return &sqliteLLMCallRepository{db: db}
}

func (r *sqliteLLMCallRepository) Create(ctx context.Context, call *model.LLMCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_calls (session_id, purpose, provider, model, success, duration_ms)
		VALUES (:session_id, :purpose, :provider, :model, :success, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating llm call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteLLMCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls")
	return count, err
}

func (r *sqliteLLMCallRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls WHERE session_id = ?", sessionID)
	return count, err
}

func (r *sqliteLLMCallRepository) StatsByModel(ctx context.Context) ([]ModelStats, error) {
	var stats []ModelStats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT model, purpose,
		       COUNT(*) AS calls,
		       SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures,
		       CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER) AS avg_ms
		FROM llm_calls
		GROUP BY model, purpose
		ORDER BY model, purpose
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating llm calls: %w", err)
	}
	return stats, nil
}
