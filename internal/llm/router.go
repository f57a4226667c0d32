package llm

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/quote-service/internal/config"
	"github.com/fleveque/quote-service/internal/credentials"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/storage"
)

// Model is one entry of the model catalog offered to users.
type Model struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Router dispatches each request to the backend configured for its model.
// Calls are rate limited process-wide and, when a ledger is configured,
// recorded for cost tracking. Router never retries or falls back to another
// backend: a failed call is returned to the caller as is.
type Router struct {
	backends map[string]Client
	models   []Model
	byName   map[string]Model
	limiter  *rate.Limiter
	calls    storage.LLMCallRepository // nil when the ledger is disabled
	logger   *zap.Logger
}

// NewRouter builds the catalog from the configured models, keeping only those
// whose backend is available. ratePerMinute <= 0 disables rate limiting.
func NewRouter(
	models []config.ModelConfig,
	backends map[string]Client,
	ratePerMinute int,
	calls storage.LLMCallRepository,
	logger *zap.Logger,
) *Router {
	r := &Router{
		backends: backends,
		byName:   make(map[string]Model, len(models)),
		calls:    calls,
		logger:   logger,
	}

	for _, m := range models {
		if _, ok := backends[m.Provider]; !ok {
			logger.Warn("model skipped, backend not configured",
				zap.String("model", m.Name),
				zap.String("provider", m.Provider),
			)
			continue
		}
		if _, dup := r.byName[m.Name]; dup {
			continue
		}
		entry := Model{Name: m.Name, Provider: m.Provider}
		r.models = append(r.models, entry)
		r.byName[m.Name] = entry
	}

	if ratePerMinute > 0 {
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}

	return r
}

func (r *Router) ProviderName() string { return "router" }

// Models returns the servable model catalog in configured order.
func (r *Router) Models() []Model {
	return slices.Clone(r.models)
}

// HasModel reports whether a backend serves the model.
func (r *Router) HasModel(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Complete sends req to the backend that serves req.Model.
func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	m, ok := r.byName[req.Model]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, req.Model)
	}
	backend := r.backends[m.Provider]

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	text, err := backend.Complete(ctx, req)
	duration := time.Since(start).Milliseconds()

	r.recordCall(ctx, backend, req, err, duration)

	if err != nil {
		return "", err
	}
	return text, nil
}

func (r *Router) recordCall(ctx context.Context, backend Client, req Request, callErr error, durationMs int64) {
	r.logger.Debug("llm call",
		zap.String("purpose", req.Purpose),
		zap.String("provider", backend.ProviderName()),
		zap.String("model", req.Model),
		zap.Int64("duration_ms", durationMs),
		zap.Bool("success", callErr == nil),
	)

	if r.calls == nil {
		return
	}

	call := &model.LLMCall{
		SessionID:  req.SessionID,
		Purpose:    req.Purpose,
		Provider:   backend.ProviderName(),
		Model:      req.Model,
		Success:    callErr == nil,
		DurationMs: &durationMs,
	}
	// A client that hung up must not drop the row for the call it aborted.
	if err := r.calls.Create(context.WithoutCancel(ctx), call); err != nil {
		r.logger.Error("recording LLM call", zap.Error(err))
	}
}

// NewBackends creates a backend for every provider that has credentials.
// OpenAI is always present because its key is required.
func NewBackends(ctx context.Context, cfg config.LLMConfig, creds *credentials.Credentials) (map[string]Client, error) {
	backends := map[string]Client{
		"openai": NewOpenAIClient(creds.OpenAIKey, cfg.OpenAI.BaseURL),
	}

	if creds.AnthropicKey != "" {
		backends["anthropic"] = NewAnthropicClient(creds.AnthropicKey, cfg.Anthropic.BaseURL, cfg.Anthropic.MaxTokens)
	}

	if creds.GeminiKey != "" {
		gemini, err := NewGeminiClient(ctx, creds.GeminiKey, cfg.Gemini.BaseURL)
		if err != nil {
			return nil, err
		}
		backends["gemini"] = gemini
	}

	return backends, nil
}
