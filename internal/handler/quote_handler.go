package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/llm"
	"github.com/fleveque/quote-service/internal/middleware"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/service"
	"github.com/fleveque/quote-service/internal/session"
)

// Generator runs one generation cycle for a session.
type Generator interface {
	Generate(ctx context.Context, sess *session.Session, req model.GenerationRequest) (*model.GenerationResult, error)
}

// ModelLister returns the servable model catalog.
type ModelLister interface {
	Models() []llm.Model
}

// SessionEnder discards a session's state.
type SessionEnder interface {
	Delete(id string)
}

// Defaults are the preselected values offered to clients.
type Defaults struct {
	Model       string
	Temperature float64
}

// QuoteHandler serves the JSON API.
type QuoteHandler struct {
	generator  Generator
	models     ModelLister
	sessions   SessionEnder
	cookieName string
	defaults   Defaults
	logger     *zap.Logger
}

func NewQuoteHandler(generator Generator, models ModelLister, sessions SessionEnder, cookieName string, defaults Defaults, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		generator:  generator,
		models:     models,
		sessions:   sessions,
		cookieName: cookieName,
		defaults:   defaults,
		logger:     logger,
	}
}

type quoteResponse struct {
	Quote          string `json:"quote"`
	Author         string `json:"author"`
	Context        string `json:"context"`
	Raw            string `json:"raw"`
	ImageURL       string `json:"image_url"`
	ImageAvailable bool   `json:"image_available"`
	Repeated       bool   `json:"repeated"`
	SessionID      string `json:"session_id"`
}

// Catalog lists the themes, eras and models a client can pick from.
// Route: GET /api/v1/catalog
func (h *QuoteHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes":        model.Themes,
		"eras":          model.Eras,
		"models":        h.models.Models(),
		"default_model": h.defaults.Model,
		"temperature": gin.H{
			"default": h.defaults.Temperature,
			"min":     0.0,
			"max":     1.0,
		},
	})
}

// Generate runs one cycle for the caller's session.
// Route: POST /api/v1/quotes
//
// A missing temperature takes the configured default; a missing model the default model.
func (h *QuoteHandler) Generate(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	req := model.GenerationRequest{Temperature: h.defaults.Temperature}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), sess, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("quote generation failed",
			zap.String("session_id", sess.ID),
			zap.String("theme", req.Theme),
			zap.String("era", req.Era),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "quote generation failed"})
		return
	}

	c.JSON(http.StatusOK, quoteResponse{
		Quote:          result.Quote.Text,
		Author:         result.Quote.Author,
		Context:        result.Quote.Context,
		Raw:            result.Raw,
		ImageURL:       result.ImageURL,
		ImageAvailable: result.HasImage(),
		Repeated:       result.Repeated,
		SessionID:      sess.ID,
	})
}

// Session describes the caller's session.
// Route: GET /api/v1/session
func (h *QuoteHandler) Session(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"session_id":   sess.ID,
		"created_at":   sess.CreatedAt.UTC().Format(time.RFC3339),
		"prior_quotes": sess.Len(),
	})
}

// EndSession discards the caller's prior quotes and clears the cookie.
// Route: DELETE /api/v1/session
func (h *QuoteHandler) EndSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	h.sessions.Delete(sess.ID)
	middleware.SetSessionCookie(c, h.cookieName, "", 0)

	h.logger.Debug("session ended", zap.String("session_id", sess.ID))
	c.Status(http.StatusNoContent)
}
