package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// PageHandler serves the web page and health check
type PageHandler struct {
	templatesDir string
	index        ResumeIndex
}

// NewPageHandler creates a page handler rendering templates from dir
func NewPageHandler(templatesDir string, index ResumeIndex) *PageHandler {
	return &PageHandler{templatesDir: templatesDir, index: index}
}

// Index renders the main page. The template is parsed per request so a
// missing or broken file turns into an error page, not a startup failure.
func (h *PageHandler) Index(c *gin.Context) {
	tmpl, err := template.ParseFiles(filepath.Join(h.templatesDir, "index.html"))
	if err != nil {
		logger.Error().Err(err).Msg("error loading page")
		c.String(http.StatusInternalServerError, "Error loading page: %v", err)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, gin.H{"RAGReady": h.index.Ready()}); err != nil {
		logger.Error().Err(err).Msg("error rendering page")
		c.String(http.StatusInternalServerError, "Error loading page: %v", err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Health reports service health
// @Summary Health check
// @Description Service status and resume index state
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse "Healthy"
// @Router /health [get]
func (h *PageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:       "healthy",
		Version:      Version,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		RAGReady:     h.index.Ready(),
		IndexedFiles: len(h.index.Files()),
	})
}
