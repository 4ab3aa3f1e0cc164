package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jobfit/backend/analyzer"
	"github.com/jobfit/backend/models"
)

// JobAnalyzer is the part of the analyzer the tool needs
type JobAnalyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error)
}

// AnalyzeJobTool extracts job details from a posting URL
type AnalyzeJobTool struct {
	analyzer JobAnalyzer
}

// NewAnalyzeJobTool creates the job analysis tool
func NewAnalyzeJobTool(a JobAnalyzer) *AnalyzeJobTool {
	return &AnalyzeJobTool{analyzer: a}
}

func (t *AnalyzeJobTool) Name() string {
	return "analyze_job_url"
}

func (t *AnalyzeJobTool) Description() string {
	return `Fetch a job posting URL and extract its details.
Returns job_title, job_description, company_name, location, pay_range and
the keyword sections found on the page. Missing values are "Not available".`
}

// AnalyzeJobInput represents the input for the analysis tool
type AnalyzeJobInput struct {
	URL string `json:"url" jsonschema:"required,description=The job posting URL (http or https)"`
}

func (t *AnalyzeJobTool) InputSchema() map[string]interface{} {
	return schemaFor(&AnalyzeJobInput{})
}

func (t *AnalyzeJobTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var params AnalyzeJobInput
	if err := json.Unmarshal(input, &params); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	analysis, err := t.analyzer.AnalyzeURL(ctx, params.URL)
	if err != nil {
		return NewErrorResult(analyzer.FailureMessage(err))
	}

	return NewSuccessResult(analysis)
}
