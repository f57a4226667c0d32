package llm

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/config"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/storage"
)

type stubBackend struct {
	name  string
	reply string
	err   error
	calls []Request
}

func (s *stubBackend) ProviderName() string { return s.name }

func (s *stubBackend) Complete(_ context.Context, req Request) (string, error) {
	s.calls = append(s.calls, req)
	return s.reply, s.err
}

type stubLedger struct {
	storage.LLMCallRepository
	recorded []*model.LLMCall
	ctxErrs  []error
}

func (s *stubLedger) Create(ctx context.Context, call *model.LLMCall) error {
	s.recorded = append(s.recorded, call)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return nil
}

// hangUpBackend cancels the caller's context mid-call, like a client disconnecting.
type hangUpBackend struct {
	cancel context.CancelFunc
}

func (h *hangUpBackend) ProviderName() string { return "openai" }

func (h *hangUpBackend) Complete(ctx context.Context, _ Request) (string, error) {
	h.cancel()
	return "", ctx.Err()
}

func TestRouter_DispatchesByModel(t *testing.T) {
	openai := &stubBackend{name: "openai", reply: "from openai"}
	gemini := &stubBackend{name: "gemini", reply: "from gemini"}

	router := NewRouter(
		[]config.ModelConfig{
			{Name: "gpt-4o-mini", Provider: "openai"},
			{Name: "gemini-2.5-flash", Provider: "gemini"},
		},
		map[string]Client{"openai": openai, "gemini": gemini},
		0, nil, zap.NewNop(),
	)

	text, err := router.Complete(context.Background(), Request{Model: "gemini-2.5-flash"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "from gemini" {
		t.Errorf("expected gemini reply, got %q", text)
	}
	if len(openai.calls) != 0 || len(gemini.calls) != 1 {
		t.Errorf("expected only gemini to be called, got openai=%d gemini=%d", len(openai.calls), len(gemini.calls))
	}
}

func TestRouter_SkipsModelsWithoutBackend(t *testing.T) {
	router := NewRouter(
		[]config.ModelConfig{
			{Name: "gpt-4o-mini", Provider: "openai"},
			{Name: "claude-haiku-4-5", Provider: "anthropic"},
			{Name: "gpt-4o-mini", Provider: "openai"},
		},
		map[string]Client{"openai": &stubBackend{name: "openai"}},
		0, nil, zap.NewNop(),
	)

	models := router.Models()
	if len(models) != 1 || models[0].Name != "gpt-4o-mini" {
		t.Fatalf("expected only gpt-4o-mini, got %+v", models)
	}
	if router.HasModel("claude-haiku-4-5") {
		t.Error("expected anthropic model to be unavailable")
	}

	_, err := router.Complete(context.Background(), Request{Model: "claude-haiku-4-5"})
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestRouter_RecordsCalls(t *testing.T) {
	failing := &stubBackend{name: "openai", err: errors.New("boom")}
	ledger := &stubLedger{}

	router := NewRouter(
		[]config.ModelConfig{{Name: "gpt-4o-mini", Provider: "openai"}},
		map[string]Client{"openai": failing},
		60, ledger, zap.NewNop(),
	)

	_, err := router.Complete(context.Background(), Request{
		Purpose:   model.PurposeImageQuery,
		SessionID: "s1",
		Model:     "gpt-4o-mini",
	})
	if err == nil {
		t.Fatal("expected backend error to propagate")
	}
	if len(failing.calls) != 1 {
		t.Errorf("expected exactly one backend call (no retry), got %d", len(failing.calls))
	}

	if len(ledger.recorded) != 1 {
		t.Fatalf("expected one ledger row, got %d", len(ledger.recorded))
	}
	row := ledger.recorded[0]
	if row.Success || row.Purpose != model.PurposeImageQuery || row.SessionID != "s1" || row.Provider != "openai" {
		t.Errorf("unexpected ledger row: %+v", row)
	}
}

func TestRouter_RecordsCallAfterClientHangUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ledger := &stubLedger{}

	router := NewRouter(
		[]config.ModelConfig{{Name: "gpt-4o-mini", Provider: "openai"}},
		map[string]Client{"openai": &hangUpBackend{cancel: cancel}},
		0, ledger, zap.NewNop(),
	)

	_, err := router.Complete(ctx, Request{Purpose: model.PurposeQuote, Model: "gpt-4o-mini"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(ledger.recorded) != 1 || ledger.recorded[0].Success {
		t.Fatalf("expected one failed ledger row, got %+v", ledger.recorded)
	}
	if ledger.ctxErrs[0] != nil {
		t.Errorf("ledger insert ran with a cancelled context: %v", ledger.ctxErrs[0])
	}
}

func TestRouter_ModelsReturnsCopy(t *testing.T) {
	router := NewRouter(
		[]config.ModelConfig{{Name: "gpt-4o-mini", Provider: "openai"}},
		map[string]Client{"openai": &stubBackend{name: "openai"}},
		0, nil, zap.NewNop(),
	)

	models := router.Models()
	models[0].Name = "tampered"

	if got := router.Models()[0].Name; got != "gpt-4o-mini" {
		t.Errorf("catalog mutated through Models(): %s", got)
	}
}
