package models

import "time"

// NotAvailable is the placeholder for any job field that could not be extracted
const NotAvailable = "Not available"

// JobDetails represents the structured fields extracted from a job posting page
// @Description Job details extracted from a posting page
type JobDetails struct {
	JobTitle       string            `json:"job_title" firestore:"job_title" example:"Senior Go Engineer"`
	JobDescription string            `json:"job_description" firestore:"job_description" example:"Build backend services in Go..."`
	CompanyName    string            `json:"company_name" firestore:"company_name" example:"Google"`
	Location       string            `json:"location" firestore:"location" example:"Mountain View"`
	PayRange       string            `json:"pay_range" firestore:"pay_range" example:"USD 150000-200000 per YEAR"`
	Sections       map[string]string `json:"sections,omitempty" firestore:"sections,omitempty"`
}

// NewJobDetails returns details with every field set to NotAvailable
func NewJobDetails() JobDetails {
	return JobDetails{
		JobTitle:       NotAvailable,
		JobDescription: NotAvailable,
		CompanyName:    NotAvailable,
		Location:       NotAvailable,
		PayRange:       NotAvailable,
		Sections:       map[string]string{},
	}
}

// IsJobPosting reports whether both the title and the description were found
func (d JobDetails) IsJobPosting() bool {
	return IsAvailable(d.JobTitle) && IsAvailable(d.JobDescription)
}

// IsAvailable reports whether a field holds an extracted value
func IsAvailable(v string) bool {
	return v != "" && v != NotAvailable
}

// Extraction sources
const (
	SourceHeuristics = "heuristics"
	SourceLLM        = "llm"
	SourceCache      = "cache"
)

// JobAnalysis is a persisted record of one analyzed URL
// @Description Stored job analysis
type JobAnalysis struct {
	ID         string     `json:"id" firestore:"-" example:"3f0c6a1e-8a43-4b1e-9f1a-2d8f7c9b1a11"`
	URL        string     `json:"url" firestore:"url" example:"https://careers.example.com/jobs/123"`
	Details    JobDetails `json:"job_details" firestore:"job_details"`
	Source     string     `json:"source" firestore:"source" example:"heuristics"`
	AnalyzedAt time.Time  `json:"analyzed_at" firestore:"analyzed_at"`
}
