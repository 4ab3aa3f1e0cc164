package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/analyzer"
	"github.com/jobfit/backend/auth"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/scraper"
	"github.com/jobfit/backend/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error) {
	args := m.Called(url)
	if a := args.Get(0); a != nil {
		return a.(*models.JobAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalyzer) AnalyzeBatch(ctx context.Context, urls []string) ([]models.AnalyzeJobsResult, error) {
	args := m.Called(urls)
	if r := args.Get(0); r != nil {
		return r.([]models.AnalyzeJobsResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubQA struct {
	answer rag.Answer
	err    error
}

func (s stubQA) Ask(ctx context.Context, question string) (rag.Answer, error) {
	return s.answer, s.err
}

type stubIndex struct {
	files    []string
	err      error
	reindexN int
}

func (s *stubIndex) Reindex(ctx context.Context) ([]string, error) {
	s.reindexN++
	return s.files, s.err
}
func (s *stubIndex) Files() []string { return s.files }
func (s *stubIndex) Ready() bool     { return len(s.files) > 0 }

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAnalyzeJob(t *testing.T) {
	details := models.NewJobDetails()
	details.JobTitle = "Data Engineer"
	details.JobDescription = "Pipelines"

	m := new(mockAnalyzer)
	m.On("AnalyzeURL", "https://ok.example/job").Return(&models.JobAnalysis{Details: details}, nil)
	m.On("AnalyzeURL", "ftp://bad").Return(nil, analyzer.ErrInvalidURL)
	m.On("AnalyzeURL", "").Return(nil, analyzer.ErrInvalidURL)
	m.On("AnalyzeURL", "https://down.example").Return(nil, scraper.ErrFetchFailed)
	m.On("AnalyzeURL", "https://blog.example").Return(nil, scraper.ErrNotJobPosting)
	m.On("AnalyzeURL", "https://boom.example").Return(nil, errors.New("parser exploded"))

	r := gin.New()
	r.POST("/analyze-job", NewJobHandler(m).AnalyzeJob)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"success", `{"url":"https://ok.example/job"}`, 200, "Job URL validated successfully!"},
		{"invalid url", `{"url":"ftp://bad"}`, 400, "URL format expected as input"},
		{"malformed body", `{"url":`, 400, "URL format expected as input"},
		{"unreachable", `{"url":"https://down.example"}`, 400, "Could not access the URL or it took too long to respond."},
		{"not a job", `{"url":"https://blog.example"}`, 400, "Provided URL does not contain a job, please verify"},
		{"unexpected", `{"url":"https://boom.example"}`, 500, "An error occurred during URL analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/analyze-job", tt.body)
			assert.Equal(t, tt.status, w.Code)

			body := decodeBody(t, w)
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, tt.status == 200, body["success"])
			if tt.status == 200 {
				job := body["job_details"].(map[string]interface{})
				assert.Equal(t, "Data Engineer", job["job_title"])
				assert.Equal(t, models.NotAvailable, job["pay_range"])
			} else {
				assert.NotContains(t, body, "job_details")
			}
		})
	}
}

func TestAnalyzeJobs(t *testing.T) {
	m := new(mockAnalyzer)
	m.On("AnalyzeBatch", []string{"https://a.example", "x"}).Return([]models.AnalyzeJobsResult{
		{URL: "https://a.example", Success: true},
		{URL: "x", Error: "URL format expected as input"},
	}, nil)

	r := gin.New()
	r.POST("/api/analyze-jobs", NewJobHandler(m).AnalyzeJobs)

	w := doJSON(r, http.MethodPost, "/api/analyze-jobs", `{"urls":["https://a.example","x"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyzeJobsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "x", resp.Results[1].URL)

	w = doJSON(r, http.MethodPost, "/api/analyze-jobs", `{"urls":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name   string
		qa     stubQA
		body   string
		status int
		key    string
		value  string
	}{
		{"answer", stubQA{answer: rag.Answer{Text: "Go"}}, `{"question":"Languages?"}`, 200, "response", "Go"},
		{"malformed", stubQA{}, `not json`, 400, "error", "Invalid question format"},
		{"empty", stubQA{}, `{"question":""}`, 400, "error", "No question received"},
		{"missing", stubQA{}, `{}`, 400, "error", "No question received"},
		{"not initialized", stubQA{err: rag.ErrNotInitialized}, `{"question":"x"}`, 500, "error", "QA chain is not initialized"},
		{"model failure", stubQA{err: errors.New("timeout")}, `{"question":"x"}`, 500, "error", "Failed to generate response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/ask", NewAskHandler(tt.qa, false).Ask)

			w := doJSON(r, http.MethodPost, "/ask", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.value, decodeBody(t, w)[tt.key])
		})
	}
}

func TestAskPlayful(t *testing.T) {
	r := gin.New()
	r.POST("/ask", NewAskHandler(stubQA{answer: rag.Answer{Text: "Kubernetes"}}, true).Ask)

	w := doJSON(r, http.MethodPost, "/ask", `{"question":"Tools?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["response"], "Kubernetes")
}

func newDocumentRouter(t *testing.T, index *stubIndex) (*gin.Engine, *storage.DataDir) {
	t.Helper()
	dir, err := storage.NewDataDir(t.TempDir())
	require.NoError(t, err)

	h := NewDocumentHandler(dir, index, nil)
	h.extractText = func(data []byte) (string, error) {
		if bytes.HasPrefix(data, []byte("%PDF")) {
			return "Experience and Skills", nil
		}
		return "", errors.New("not a pdf")
	}

	r := gin.New()
	r.GET("/api/documents", h.ListDocuments)
	r.POST("/api/documents", h.UploadDocument)
	r.DELETE("/api/documents/:name", h.DeleteDocument)
	r.POST("/api/reindex", h.Reindex)
	return r, dir
}

func upload(r http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", filename)
	_, _ = io.Copy(fw, bytes.NewReader(content))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadDocument(t *testing.T) {
	index := &stubIndex{files: []string{"jane_doe.pdf"}}
	r, dir := newDocumentRouter(t, index)

	w := upload(r, "jane doe.pdf", []byte("%PDF-1.4 fake"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.DocumentUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jane_doe.pdf", resp.Document.Name)
	assert.True(t, resp.Document.Indexed)
	assert.True(t, resp.LooksLikeCV)
	assert.True(t, resp.Reindexed)
	assert.Equal(t, 1, index.reindexN)

	_, err := os.Stat(filepath.Join(dir.Dir(), "jane_doe.pdf"))
	assert.NoError(t, err)

	w = upload(r, "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only PDF files are supported", decodeBody(t, w)["error"])

	w = upload(r, "broken.pdf", []byte("garbage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Could not read PDF", decodeBody(t, w)["error"])
}

func TestUploadDocumentNameConflict(t *testing.T) {
	index := &stubIndex{}
	r, dir := newDocumentRouter(t, index)

	w := upload(r, "rsum.pdf", []byte("%PDF-1.4 first"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = upload(r, "résumé.pdf", []byte("%PDF-1.4 second"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Failed to store file", decodeBody(t, w)["error"])

	data, err := os.ReadFile(filepath.Join(dir.Dir(), "rsum.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 first", string(data))
}

func TestListAndDeleteDocuments(t *testing.T) {
	index := &stubIndex{files: []string{"a.pdf"}}
	r, dir := newDocumentRouter(t, index)

	require.NoError(t, os.WriteFile(filepath.Join(dir.Dir(), "a.pdf"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir.Dir(), "b.pdf"), []byte("bb"), 0o644))

	w := doJSON(r, http.MethodGet, "/api/documents", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list models.DocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Documents, 2)
	assert.True(t, list.RAGReady)
	assert.True(t, list.Documents[0].Indexed)
	assert.False(t, list.Documents[1].Indexed)
	assert.Equal(t, "/data/b.pdf", list.Documents[1].URL)

	w = doJSON(r, http.MethodDelete, "/api/documents/b.pdf", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, index.reindexN)

	w = doJSON(r, http.MethodDelete, "/api/documents/b.pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReindex(t *testing.T) {
	r, _ := newDocumentRouter(t, &stubIndex{err: rag.ErrNoDocuments})
	w := doJSON(r, http.MethodPost, "/api/reindex", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	r, _ = newDocumentRouter(t, &stubIndex{files: []string{"a.pdf"}})
	w = doJSON(r, http.MethodPost, "/api/reindex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"a.pdf"}, decodeBody(t, w)["files"])
}

func TestAnalyses(t *testing.T) {
	store := storage.NewMemoryAnalysisStore(10)
	a := &models.JobAnalysis{URL: "https://a.example", Details: models.NewJobDetails()}
	require.NoError(t, store.Save(context.Background(), a))

	h := NewAnalysesHandler(store)
	r := gin.New()
	r.GET("/api/analyses", h.ListAnalyses)
	r.GET("/api/analyses/:id", h.GetAnalysis)

	w := doJSON(r, http.MethodGet, "/api/analyses?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doJSON(r, http.MethodGet, "/api/analyses?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/analyses/"+a.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://a.example", decodeBody(t, w)["url"])

	w = doJSON(r, http.MethodGet, "/api/analyses/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<h1>jobfit {{if .RAGReady}}ready{{end}}</h1>`), 0o644))

	r := gin.New()
	r.GET("/", NewPageHandler(dir, &stubIndex{files: []string{"a.pdf"}}).Index)

	w := doJSON(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jobfit ready")

	r = gin.New()
	r.GET("/", NewPageHandler(t.TempDir(), &stubIndex{}).Index)
	w = doJSON(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Error loading page: "))
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewPageHandler("", &stubIndex{files: []string{"a.pdf", "b.pdf"}}).Health)

	w := doJSON(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["rag_ready"])
	assert.EqualValues(t, 2, body["indexed_files"])
}

func TestFallbackErrors(t *testing.T) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(Recovery())
	r.NoRoute(NotFound)
	r.NoMethod(MethodNotAllowed)
	r.POST("/ask", func(c *gin.Context) {})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := doJSON(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "The requested URL was not found on the server.", decodeBody(t, w)["error"])

	w = doJSON(r, http.MethodGet, "/ask", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "The method is not allowed for the requested URL.", decodeBody(t, w)["error"])

	w = doJSON(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An internal server error occurred.", decodeBody(t, w)["error"])
}

type stubOperators struct {
	op  models.Operator
	err error
}

func (s stubOperators) Login(email, password string) (models.Operator, error) {
	return s.op, s.err
}

func (s stubOperators) LoginWithGoogle(ctx context.Context, idToken string) (models.Operator, error) {
	return s.op, s.err
}

func TestAuthHandler(t *testing.T) {
	jwtService := auth.NewJWTService(&config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1})
	op := models.Operator{Email: "ops@example.com", Provider: "password"}

	r := gin.New()
	h := NewAuthHandler(stubOperators{op: op}, jwtService)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", auth.AuthMiddleware(jwtService), h.Me)

	w := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"ops@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3600, resp.ExpiresIn)
	require.NotEmpty(t, resp.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", decodeBody(t, rec)["email"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerFailures(t *testing.T) {
	jwtService := auth.NewJWTService(&config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1})

	tests := []struct {
		err    error
		status int
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrNotOperator, http.StatusForbidden},
		{auth.ErrLoginDisabled, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		r := gin.New()
		r.POST("/api/auth/google", NewAuthHandler(stubOperators{err: tt.err}, jwtService).GoogleLogin)

		w := doJSON(r, http.MethodPost, "/api/auth/google", `{"idToken":"tok"}`)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}
