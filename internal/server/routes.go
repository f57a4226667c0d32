package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/config"
	"github.com/fleveque/quote-service/internal/handler"
	"github.com/fleveque/quote-service/internal/middleware"
	"github.com/fleveque/quote-service/internal/session"
	"github.com/fleveque/quote-service/internal/storage"
)

// Deps are the components the routes need. Calls may be nil when the ledger is disabled.
type Deps struct {
	Generator handler.Generator
	Models    handler.ModelLister
	Sessions  *session.Store
	Calls     storage.LLMCallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Each handler gets exactly the dependencies it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	defaults := handler.Defaults{
		Model:       cfg.Generation.DefaultModel,
		Temperature: cfg.Generation.DefaultTemperature,
	}

	healthHandler := handler.NewHealthHandler(deps.Sessions)
	pageHandler := handler.NewPageHandler(deps.Generator, deps.Models, defaults, logger)
	quoteHandler := handler.NewQuoteHandler(deps.Generator, deps.Models, deps.Sessions, cfg.Session.CookieName, defaults, logger)

	sessions := middleware.Session(deps.Sessions, cfg.Session.CookieName, cfg.Session.IdleTimeout)
	// The limiter runs ahead of sessions so throttled requests never create one.
	limit := middleware.RateLimit(deps.Sessions, cfg.Session.CookieName, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r.GET("/healthz", healthHandler.Healthz)

	r.GET("/", sessions, pageHandler.Show)
	r.POST("/", limit, sessions, pageHandler.Generate)

	// CORS runs first so preflight requests never create sessions.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.GET("/catalog", quoteHandler.Catalog)
		api.POST("/quotes", limit, sessions, quoteHandler.Generate)
		api.GET("/session", sessions, quoteHandler.Session)
		api.DELETE("/session", sessions, quoteHandler.EndSession)

		if deps.Calls != nil {
			api.GET("/stats", sessions, handler.NewStatsHandler(deps.Calls, logger).Stats)
		}
	}
}
