package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobfit/backend/llm"
	"github.com/jobfit/backend/models"
)

const extractSystemPrompt = `You extract job posting information from web pages. Answer with JSON only.`

const extractPromptTemplate = `Extract job posting information from this HTML content.
Return a JSON object with the following fields:

{
  "job_title": "Job title",
  "job_description": "Job description (summarize if very long, max 1000 chars)",
  "company_name": "Company name",
  "location": "Job location",
  "pay_range": "Salary range if mentioned"
}

Use "Not available" for anything the page does not state.

URL: %s

HTML CONTENT:
%s

Return ONLY the JSON object. If this is not a job posting page, return {"error": "not_a_job_posting"}.`

type llmJob struct {
	Error          string `json:"error"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	CompanyName    string `json:"company_name"`
	Location       string `json:"location"`
	PayRange       string `json:"pay_range"`
}

// ExtractWithLLM asks a chat model for the job fields of a page. It is used
// when the heuristics find no job.
func ExtractWithLLM(ctx context.Context, model llm.ChatModel, pageURL, page string) (models.JobDetails, error) {
	content, err := ContentForLLM(page, DefaultContentLimit)
	if err != nil {
		return models.NewJobDetails(), err
	}

	text, err := model.Generate(ctx, []llm.Message{
		llm.System(extractSystemPrompt),
		llm.User(fmt.Sprintf(extractPromptTemplate, pageURL, content)),
	})
	if err != nil {
		return models.NewJobDetails(), fmt.Errorf("llm extraction failed: %w", err)
	}

	var job llmJob
	if err := json.Unmarshal([]byte(llm.CleanJSON(text)), &job); err != nil {
		return models.NewJobDetails(), fmt.Errorf("failed to parse job JSON: %w", err)
	}
	if strings.EqualFold(job.Error, "not_a_job_posting") {
		return models.NewJobDetails(), ErrNotJobPosting
	}

	d := models.JobDetails{
		JobTitle:       finalize(job.JobTitle),
		JobDescription: finalize(job.JobDescription),
		CompanyName:    finalize(job.CompanyName),
		Location:       finalize(job.Location),
		PayRange:       finalize(job.PayRange),
		Sections:       map[string]string{},
	}
	if !d.IsJobPosting() {
		return d, ErrNotJobPosting
	}
	return d, nil
}
