package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/analyzer"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/scraper"
)

// JobAnalyzer analyzes job posting URLs
type JobAnalyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error)
	AnalyzeBatch(ctx context.Context, urls []string) ([]models.AnalyzeJobsResult, error)
}

// JobHandler handles job URL analysis requests
type JobHandler struct {
	analyzer JobAnalyzer
}

// NewJobHandler creates a new job handler
func NewJobHandler(a JobAnalyzer) *JobHandler {
	return &JobHandler{analyzer: a}
}

// AnalyzeJob extracts job details from one posting URL
// @Summary Analyze a job URL
// @Description Fetch a job posting and extract title, description, company, location, pay and keyword sections
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.AnalyzeJobRequest true "Job URL"
// @Success 200 {object} models.AnalyzeJobResponse "Extracted job details"
// @Failure 400 {object} models.MessageErrorResponse "Invalid URL, unreachable page or not a job"
// @Failure 500 {object} models.MessageErrorResponse "Analysis failed"
// @Router /analyze-job [post]
func (h *JobHandler) AnalyzeJob(c *gin.Context) {
	var req models.AnalyzeJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn().Err(err).Msg("invalid analyze-job body")
		req.URL = ""
	}

	analysis, err := h.analyzer.AnalyzeURL(c.Request.Context(), req.URL)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, analyzer.ErrInvalidURL) &&
			!errors.Is(err, scraper.ErrFetchFailed) &&
			!errors.Is(err, scraper.ErrNotJobPosting) {
			logger.Error().Err(err).Str("url", req.URL).Msg("error analyzing URL")
			status = http.StatusInternalServerError
		}

		c.JSON(status, models.MessageErrorResponse{
			Message: analyzer.FailureMessage(err),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeJobResponse{
		Message:    "Job URL validated successfully!",
		Success:    true,
		JobDetails: &analysis.Details,
	})
}

// AnalyzeJobs analyzes several job URLs concurrently
// @Summary Analyze job URLs in batch
// @Description Analyze several job URLs concurrently. Results keep the request order.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.AnalyzeJobsRequest true "Job URLs"
// @Success 200 {object} models.AnalyzeJobsResponse "Per-URL results"
// @Failure 400 {object} models.ErrorResponse "Invalid request body or too many URLs"
// @Router /api/analyze-jobs [post]
func (h *JobHandler) AnalyzeJobs(c *gin.Context) {
	var req models.AnalyzeJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	results, err := h.analyzer.AnalyzeBatch(c.Request.Context(), req.URLs)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid batch",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	resp := models.AnalyzeJobsResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	c.JSON(http.StatusOK, resp)
}
