package models

// AnalyzeJobRequest is the body of the single URL analysis endpoint
// @Description Job URL to analyze
type AnalyzeJobRequest struct {
	URL string `json:"url" example:"https://careers.example.com/jobs/123"`
}

// AnalyzeJobResponse keeps the shape the web page expects
// @Description Job analysis result
type AnalyzeJobResponse struct {
	Message    string      `json:"message" example:"Job URL validated successfully!"`
	Success    bool        `json:"success" example:"true"`
	JobDetails *JobDetails `json:"job_details,omitempty"`
}

// AnalyzeJobsRequest is the body of the batch analysis endpoint
// @Description Batch of job URLs to analyze
type AnalyzeJobsRequest struct {
	URLs []string `json:"urls" binding:"required,min=1" example:"https://careers.example.com/jobs/123"`
}

// AnalyzeJobsResult is one entry of a batch analysis, in request order
type AnalyzeJobsResult struct {
	URL        string      `json:"url"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
	AnalysisID string      `json:"analysis_id,omitempty"`
	JobDetails *JobDetails `json:"job_details,omitempty"`
}

// AnalyzeJobsResponse represents the batch analysis response
// @Description Batch analysis results
type AnalyzeJobsResponse struct {
	Results   []AnalyzeJobsResult `json:"results"`
	Succeeded int                 `json:"succeeded" example:"2"`
	Failed    int                 `json:"failed" example:"1"`
}

// AskRequest is a question about the indexed resumes
// @Description Question for the resume assistant
type AskRequest struct {
	Question string `json:"question" example:"What programming languages does the candidate know?"`
}

// AskResponse carries the generated answer
// @Description Answer from the resume assistant
type AskResponse struct {
	Response string `json:"response" example:"The candidate knows Go, Python and SQL."`
}

// MessageErrorResponse is the error shape of the job analysis endpoint
type MessageErrorResponse struct {
	Message string `json:"message" example:"URL format expected as input"`
	Success bool   `json:"success" example:"false"`
}

// SimpleErrorResponse is the error shape of the question endpoint and the
// router fallbacks
type SimpleErrorResponse struct {
	Error string `json:"error" example:"No question received"`
}

// ErrorResponse represents an API error response
// @Description Standard error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Code    int    `json:"code" example:"400"`
	Details string `json:"details,omitempty" example:"urls is required"`
}

// HealthResponse represents health check response
// @Description Server health status
type HealthResponse struct {
	Status       string `json:"status" example:"healthy"`
	Version      string `json:"version" example:"1.0.0"`
	Timestamp    string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	RAGReady     bool   `json:"rag_ready" example:"true"`
	IndexedFiles int    `json:"indexed_files" example:"2"`
}

// DocumentInfo describes one resume in the data folder
// @Description Resume document
type DocumentInfo struct {
	Name     string `json:"name" example:"jane_doe.pdf"`
	Size     int64  `json:"size" example:"48213"`
	Indexed  bool   `json:"indexed" example:"true"`
	URL      string `json:"url" example:"/data/jane_doe.pdf"`
	Archived bool   `json:"archived,omitempty" example:"false"`
}

// DocumentsResponse lists resumes
// @Description Resume documents
type DocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
	RAGReady  bool           `json:"rag_ready"`
}

// DocumentUploadResponse represents the upload response
// @Description Resume upload response
type DocumentUploadResponse struct {
	Document     DocumentInfo `json:"document"`
	LooksLikeCV  bool         `json:"looks_like_resume" example:"true"`
	Reindexed    bool         `json:"reindexed" example:"true"`
	IndexedFiles int          `json:"indexed_files" example:"3"`
	Message      string       `json:"message" example:"Document uploaded successfully"`
}

// ReindexResponse reports the state after a rebuild
// @Description Reindex result
type ReindexResponse struct {
	Files   []string `json:"files"`
	Message string   `json:"message" example:"Index rebuilt"`
}

// AnalysesResponse lists stored analyses, newest first
// @Description Stored job analyses
type AnalysesResponse struct {
	Analyses []JobAnalysis `json:"analyses"`
	Count    int           `json:"count" example:"10"`
}
