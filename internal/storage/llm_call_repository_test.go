package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fleveque/quote-service/internal/model"
)

// setupTestDB creates a temporary SQLite database, removed when the test ends.
func setupTestDB(t *testing.T) LLMCallRepository {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewLLMCallRepository(db)
}

func durationPtr(ms int64) *int64 { return &ms }

func TestLLMCallRepository_Create(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	call := &model.LLMCall{
		SessionID:  "session-1",
		Purpose:    model.PurposeQuote,
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		Success:    true,
		DurationMs: durationPtr(1500),
	}

	if err := repo.Create(ctx, call); err != nil {
		t.Fatalf("creating llm call: %v", err)
	}
	if call.ID == 0 {
		t.Error("expected llm call ID to be set after create")
	}

	count, err := repo.CountBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("counting llm calls: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 llm call, got %d", count)
	}
}

func TestLLMCallRepository_StatsByModel(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	calls := []model.LLMCall{
		{Purpose: model.PurposeQuote, Provider: "openai", Model: "gpt-4o-mini", Success: true, DurationMs: durationPtr(100)},
		{Purpose: model.PurposeQuote, Provider: "openai", Model: "gpt-4o-mini", Success: false, DurationMs: durationPtr(300)},
		{Purpose: model.PurposeImageQuery, Provider: "openai", Model: "gpt-4o-mini", Success: true, DurationMs: durationPtr(50)},
		{Purpose: model.PurposeQuote, Provider: "gemini", Model: "gemini-2.5-flash", Success: true},
	}
	for i := range calls {
		if err := repo.Create(ctx, &calls[i]); err != nil {
			t.Fatalf("creating call %d: %v", i, err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 calls, got %d", total)
	}

	stats, err := repo.StatsByModel(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 model/purpose groups, got %d: %+v", len(stats), stats)
	}

	// Ordered by model then purpose: gemini quote, gpt image_query, gpt quote.
	gptQuote := stats[2]
	if gptQuote.Model != "gpt-4o-mini" || gptQuote.Purpose != model.PurposeQuote {
		t.Fatalf("unexpected ordering: %+v", stats)
	}
	if gptQuote.Calls != 2 || gptQuote.Failures != 1 {
		t.Errorf("expected 2 calls / 1 failure, got %+v", gptQuote)
	}
	if gptQuote.AvgMillis != 200 {
		t.Errorf("expected avg 200ms, got %d", gptQuote.AvgMillis)
	}
	if stats[0].AvgMillis != 0 {
		t.Errorf("expected 0 avg for call without duration, got %d", stats[0].AvgMillis)
	}
}
