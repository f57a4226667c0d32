package handler

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/llm"
	"github.com/fleveque/quote-service/internal/middleware"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageErrorMessage is the only failure text the page ever shows.
const PageErrorMessage = "An error occurred while generating your quote."

// PageTemplate parses the embedded page templates for router.SetHTMLTemplate.
func PageTemplate() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// PageHandler serves the single-page HTML interface.
type PageHandler struct {
	generator Generator
	models    ModelLister
	defaults  Defaults
	logger    *zap.Logger
}

func NewPageHandler(generator Generator, models ModelLister, defaults Defaults, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		generator: generator,
		models:    models,
		defaults:  defaults,
		logger:    logger,
	}
}

type pageData struct {
	Themes  []model.Theme
	Eras    []string
	Models  []llm.Model
	Request model.GenerationRequest
	Result  *model.GenerationResult
	Error   string
}

// Show renders the page with the default selections and no result.
// Route: GET /
func (h *PageHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.data(h.defaultRequest()))
}

// Generate runs a cycle for the cookie session and re-renders the page.
// Route: POST /
func (h *PageHandler) Generate(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	req := h.defaultRequest()
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid page form", zap.String("session_id", sess.ID), zap.Error(err))
		data := h.data(h.defaultRequest())
		data.Error = PageErrorMessage
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}

	data := h.data(req)

	result, err := h.generator.Generate(c.Request.Context(), sess, req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		h.logger.Error("quote generation failed",
			zap.String("session_id", sess.ID),
			zap.String("theme", req.Theme),
			zap.String("era", req.Era),
			zap.Error(err),
		)
		data.Error = PageErrorMessage
		c.HTML(status, "index.html", data)
		return
	}

	data.Result = result
	c.HTML(http.StatusOK, "index.html", data)
}

func (h *PageHandler) defaultRequest() model.GenerationRequest {
	return model.GenerationRequest{
		Theme:       model.Themes[0].Label,
		Era:         model.Eras[0],
		Model:       h.defaults.Model,
		Temperature: h.defaults.Temperature,
	}
}

func (h *PageHandler) data(req model.GenerationRequest) pageData {
	return pageData{
		Themes:  model.Themes,
		Eras:    model.Eras,
		Models:  h.models.Models(),
		Request: req,
	}
}
