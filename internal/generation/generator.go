package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleveque/quote-service/internal/llm"
	"github.com/fleveque/quote-service/internal/model"
)

var (
	ErrQuoteGeneration      = errors.New("quote generation failed")
	ErrImageQueryGeneration = errors.New("image query generation failed")
)

// Options are the per-call settings chosen by the user.
type Options struct {
	Model       string
	Temperature float64
	SessionID   string
}

// QuoteGenerator asks the backend for a quote in the labeled three-line format.
// The format is requested, not enforced: the raw text is returned unchecked.
type QuoteGenerator struct {
	client llm.Client
}

func NewQuoteGenerator(client llm.Client) *QuoteGenerator {
	return &QuoteGenerator{client: client}
}

// Generate sends one request and returns the raw response text.
func (g *QuoteGenerator) Generate(ctx context.Context, themeDescription, era, priorQuotes string, opts Options) (string, error) {
	text, err := g.client.Complete(ctx, llm.Request{
		Purpose:     model.PurposeQuote,
		SessionID:   opts.SessionID,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		Messages:    QuoteMessages(themeDescription, era, priorQuotes),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrQuoteGeneration, err)
	}
	return text, nil
}

// ImageQueryGenerator asks the backend for an image-search phrase for a theme.
type ImageQueryGenerator struct {
	client llm.Client
}

func NewImageQueryGenerator(client llm.Client) *ImageQueryGenerator {
	return &ImageQueryGenerator{client: client}
}

// Generate returns the raw response text, used verbatim as the search query.
func (g *ImageQueryGenerator) Generate(ctx context.Context, themeDescription string, opts Options) (string, error) {
	text, err := g.client.Complete(ctx, llm.Request{
		Purpose:     model.PurposeImageQuery,
		SessionID:   opts.SessionID,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		Messages:    ImageQueryMessages(themeDescription),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageQueryGeneration, err)
	}
	return text, nil
}
