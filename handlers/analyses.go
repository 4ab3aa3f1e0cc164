package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/storage"
)

const (
	defaultAnalysesLimit = 20
	maxAnalysesLimit     = 100
)

// AnalysesHandler serves the job analysis history
type AnalysesHandler struct {
	store storage.AnalysisStore
}

// NewAnalysesHandler creates a new analyses handler
func NewAnalysesHandler(store storage.AnalysisStore) *AnalysesHandler {
	return &AnalysesHandler{store: store}
}

// ListAnalyses returns the most recent analyses
// @Summary List job analyses
// @Description Most recent job analyses, newest first
// @Tags Jobs
// @Produce json
// @Param limit query int false "Maximum number of results" default(20)
// @Success 200 {object} models.AnalysesResponse "Analyses"
// @Failure 400 {object} models.ErrorResponse "Invalid limit"
// @Failure 500 {object} models.ErrorResponse "Failed to load analyses"
// @Router /api/analyses [get]
func (h *AnalysesHandler) ListAnalyses(c *gin.Context) {
	limit := defaultAnalysesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  http.StatusBadRequest,
			})
			return
		}
		limit = min(n, maxAnalysesLimit)
	}

	analyses, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load analyses")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load analyses",
			Code:  http.StatusInternalServerError,
		})
		return
	}
	if analyses == nil {
		analyses = []models.JobAnalysis{}
	}

	c.JSON(http.StatusOK, models.AnalysesResponse{Analyses: analyses, Count: len(analyses)})
}

// GetAnalysis returns one analysis
// @Summary Get a job analysis
// @Tags Jobs
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} models.JobAnalysis "Analysis"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /api/analyses/{id} [get]
func (h *AnalysesHandler) GetAnalysis(c *gin.Context) {
	analysis, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Analysis not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		logger.Error().Err(err).Msg("failed to load analysis")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to load analysis",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
