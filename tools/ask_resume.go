package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jobfit/backend/rag"
)

// ResumeAsker answers questions about indexed resumes
type ResumeAsker interface {
	Ask(ctx context.Context, question string) (rag.Answer, error)
}

// AskResumeTool answers questions from the resume index
type AskResumeTool struct {
	asker ResumeAsker
}

// NewAskResumeTool creates the resume question tool
func NewAskResumeTool(asker ResumeAsker) *AskResumeTool {
	return &AskResumeTool{asker: asker}
}

func (t *AskResumeTool) Name() string {
	return "ask_resume"
}

func (t *AskResumeTool) Description() string {
	return `Answer a question about the candidate using the indexed resumes.
Returns the answer and the resume files its context came from.`
}

// AskResumeInput represents the input for the question tool
type AskResumeInput struct {
	Question string `json:"question" jsonschema:"required,description=Question about the candidate"`
}

func (t *AskResumeTool) InputSchema() map[string]interface{} {
	return schemaFor(&AskResumeInput{})
}

func (t *AskResumeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var params AskResumeInput
	if err := json.Unmarshal(input, &params); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}
	if strings.TrimSpace(params.Question) == "" {
		return NewErrorResult("No question received")
	}

	answer, err := t.asker.Ask(ctx, params.Question)
	if err != nil {
		if errors.Is(err, rag.ErrNotInitialized) {
			return NewErrorResult(err.Error())
		}
		return NewErrorResult("Failed to generate response")
	}

	return NewSuccessResult(answer)
}
