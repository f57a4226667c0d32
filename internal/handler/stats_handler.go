package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/middleware"
	"github.com/fleveque/quote-service/internal/storage"
)

// StatsHandler reports the LLM call ledger.
type StatsHandler struct {
	calls  storage.LLMCallRepository
	logger *zap.Logger
}

func NewStatsHandler(calls storage.LLMCallRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		calls:  calls,
		logger: logger,
	}
}

// Stats returns call totals overall, per model and for the caller's session.
// Route: GET /api/v1/stats (only registered when the ledger is enabled)
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.calls.Count(ctx)
	if err != nil {
		h.logger.Error("counting llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	byModel, err := h.calls.StatsByModel(ctx)
	if err != nil {
		h.logger.Error("aggregating llm calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{
		"total_calls": total,
		"by_model":    byModel,
	}

	if sess := middleware.CurrentSession(c); sess != nil {
		mine, err := h.calls.CountBySession(ctx, sess.ID)
		if err != nil {
			h.logger.Error("counting session llm calls", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		resp["session_calls"] = mine
	}

	c.JSON(http.StatusOK, resp)
}
