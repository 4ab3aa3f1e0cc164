package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/rag"
)

// QuestionAnswerer answers questions about the indexed resumes
type QuestionAnswerer interface {
	Ask(ctx context.Context, question string) (rag.Answer, error)
}

// AskHandler handles resume questions
type AskHandler struct {
	qa      QuestionAnswerer
	playful bool
}

// NewAskHandler creates a new ask handler. When playful is set answers are
// wrapped in a random framing.
func NewAskHandler(qa QuestionAnswerer, playful bool) *AskHandler {
	return &AskHandler{qa: qa, playful: playful}
}

// Ask answers a question about the candidate
// @Summary Ask about the resume
// @Description Answer a question using the indexed resumes as context
// @Tags Resume
// @Accept json
// @Produce json
// @Param request body models.AskRequest true "Question"
// @Success 200 {object} models.AskResponse "Answer"
// @Failure 400 {object} models.SimpleErrorResponse "Missing or malformed question"
// @Failure 500 {object} models.SimpleErrorResponse "Index not ready or generation failed"
// @Router /ask [post]
func (h *AskHandler) Ask(c *gin.Context) {
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn().Err(err).Msg("error parsing question from request")
		c.JSON(http.StatusBadRequest, models.SimpleErrorResponse{Error: "Invalid question format"})
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, models.SimpleErrorResponse{Error: "No question received"})
		return
	}
	logger.Info().Int("question_len", len(question)).Msg("received question")

	answer, err := h.qa.Ask(c.Request.Context(), question)
	if err != nil {
		if errors.Is(err, rag.ErrNotInitialized) {
			logger.Error().Msg("QA chain is not initialized")
			c.JSON(http.StatusInternalServerError, models.SimpleErrorResponse{Error: "QA chain is not initialized"})
			return
		}
		logger.Error().Err(err).Msg("error generating response")
		c.JSON(http.StatusInternalServerError, models.SimpleErrorResponse{Error: "Failed to generate response"})
		return
	}

	response := answer.Text
	if h.playful {
		response = rag.Flavor(response)
	}

	logger.Info().Strs("sources", answer.Sources).Msg("response generated")
	c.JSON(http.StatusOK, models.AskResponse{Response: response})
}
