// Package service contains the generation cycle that ties the text-generation
// clients, the image lookup and the session state together.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/generation"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/provider"
	"github.com/fleveque/quote-service/internal/session"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid generation request")

// ModelCatalog reports which model names can be served.
type ModelCatalog interface {
	HasModel(name string) bool
}

// Options tune the generation cycle.
type Options struct {
	DefaultModel string
	// HistoryLimit > 0 sends only the most recent prior quotes to the backend.
	HistoryLimit int
	// StrictParsing requires the first response line to be "Quote: <text>".
	StrictParsing bool
}

// QuoteService runs generation cycles. It is safe for concurrent use; cycles of
// the same session run one at a time.
type QuoteService struct {
	quotes  *generation.QuoteGenerator
	queries *generation.ImageQueryGenerator
	images  provider.ImageProvider
	models  ModelCatalog
	opts    Options
	logger  *zap.Logger
}

func NewQuoteService(
	quotes *generation.QuoteGenerator,
	queries *generation.ImageQueryGenerator,
	images provider.ImageProvider,
	models ModelCatalog,
	opts Options,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quotes:  quotes,
		queries: queries,
		images:  images,
		models:  models,
		opts:    opts,
		logger:  logger,
	}
}

// Generate runs one full cycle for sess:
//  1. join the session's prior quotes
//  2. ask for a quote
//  3. extract the quote text and remember it in the session
//  4. ask for an image search phrase for the theme
//  5. look the phrase up (best effort)
//
// Steps run sequentially. Any failure before step 5 is returned; an image
// lookup failure only leaves the result without an image.
func (s *QuoteService) Generate(ctx context.Context, sess *session.Session, req model.GenerationRequest) (*model.GenerationResult, error) {
	theme, opts, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	opts.SessionID = sess.ID

	unlock := sess.Lock()
	defer unlock()

	prior := sess.PriorQuotes(s.opts.HistoryLimit)

	raw, err := s.quotes.Generate(ctx, theme.Description, req.Era, prior, opts)
	if err != nil {
		return nil, err
	}

	text, err := s.extract(raw)
	if err != nil {
		return nil, fmt.Errorf("extracting quote: %w", err)
	}
	repeated := !sess.Remember(text)

	query, err := s.queries.Generate(ctx, theme.Description, opts)
	if err != nil {
		return nil, err
	}

	imageURL, found := s.images.FindImage(ctx, query)

	// The raw text is non-empty here, so parsing cannot fail.
	parsed, _ := model.ParseQuote(raw)

	s.logger.Info("quote generated",
		zap.String("session_id", sess.ID),
		zap.String("theme", theme.Label),
		zap.String("era", req.Era),
		zap.String("model", opts.Model),
		zap.Bool("repeated", repeated),
		zap.Bool("has_image", found),
	)

	return &model.GenerationResult{
		Raw:        raw,
		Quote:      parsed,
		ImageQuery: query,
		ImageURL:   imageURL,
		Repeated:   repeated,
	}, nil
}

func (s *QuoteService) validate(req model.GenerationRequest) (model.Theme, generation.Options, error) {
	theme, ok := model.LookupTheme(req.Theme)
	if !ok {
		return model.Theme{}, generation.Options{}, fmt.Errorf("%w: unknown theme %q", ErrInvalidRequest, req.Theme)
	}
	if !model.ValidEra(req.Era) {
		return model.Theme{}, generation.Options{}, fmt.Errorf("%w: unknown era %q", ErrInvalidRequest, req.Era)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = s.opts.DefaultModel
	}
	if !s.models.HasModel(modelName) {
		return model.Theme{}, generation.Options{}, fmt.Errorf("%w: unknown model %q", ErrInvalidRequest, modelName)
	}

	if req.Temperature < 0 || req.Temperature > 1 {
		return model.Theme{}, generation.Options{}, fmt.Errorf("%w: temperature %v outside [0, 1]", ErrInvalidRequest, req.Temperature)
	}

	return theme, generation.Options{Model: modelName, Temperature: req.Temperature}, nil
}

func (s *QuoteService) extract(raw string) (string, error) {
	if s.opts.StrictParsing {
		return model.ExtractQuoteStrict(raw)
	}
	q, err := model.ParseQuote(raw)
	if err != nil {
		return "", err
	}
	return q.Text, nil
}
