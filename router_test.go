package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/auth"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/storage"
	"github.com/jobfit/backend/tools"
)

type noopJobs struct{}

func (noopJobs) AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error) {
	return &models.JobAnalysis{Details: models.NewJobDetails()}, nil
}

func (noopJobs) AnalyzeBatch(ctx context.Context, urls []string) ([]models.AnalyzeJobsResult, error) {
	return nil, nil
}

type emptyIndex struct{}

func (emptyIndex) Ask(ctx context.Context, q string) (rag.Answer, error) {
	return rag.Answer{}, rag.ErrNotInitialized
}
func (emptyIndex) Reindex(ctx context.Context) ([]string, error) { return nil, rag.ErrNoDocuments }
func (emptyIndex) Files() []string                                { return nil }
func (emptyIndex) Ready() bool                                    { return false }

func testRouter(t *testing.T) (*gin.Engine, *storage.DataDir, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CORSOrigins:    []string{"*"},
		TemplatesDir:   t.TempDir(),
		JWTSecret:      "router-secret",
		JWTExpiryHours: 1,
		OperatorEmail:  "ops@example.com",
	}
	dir, err := storage.NewDataDir(t.TempDir())
	require.NoError(t, err)

	jwtService := auth.NewJWTService(cfg)
	registry := tools.NewToolRegistry()
	registry.Register(tools.NewAskResumeTool(emptyIndex{}))

	r := newRouter(routerDeps{
		cfg:       cfg,
		jobs:      noopJobs{},
		qa:        emptyIndex{},
		index:     emptyIndex{},
		docs:      dir,
		analyses:  storage.NewMemoryAnalysisStore(10),
		operators: auth.NewOperatorService(cfg, nil),
		jwt:       jwtService,
		registry:  registry,
	})
	return r, dir, jwtService
}

func serve(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterFallbacks(t *testing.T) {
	r, _, _ := testRouter(t)

	w := serve(r, http.MethodGet, "/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"The requested URL was not found on the server."}`, w.Body.String())

	w = serve(r, http.MethodGet, "/ask", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"The method is not allowed for the requested URL."}`, w.Body.String())
}

func TestRouterAskBeforeIndex(t *testing.T) {
	r, _, _ := testRouter(t)

	w := serve(r, http.MethodPost, "/ask", `{"question":"Skills?"}`, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"QA chain is not initialized"}`, w.Body.String())
}

func TestRouterOperatorRoutes(t *testing.T) {
	r, _, jwtService := testRouter(t)

	w := serve(r, http.MethodPost, "/api/reindex", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtService.GenerateToken(models.Operator{Email: "ops@example.com", Provider: "password"})
	require.NoError(t, err)

	w = serve(r, http.MethodPost, "/api/reindex", "", token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodGet, "/api/documents", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterRejectsNonOperatorTokens(t *testing.T) {
	r, dir, jwtService := testRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir.Dir(), "cv.pdf"), []byte("%PDF-1.4"), 0o644))

	token, err := jwtService.GenerateToken(models.Operator{Email: "visitor@example.com", Provider: "google"})
	require.NoError(t, err)

	w := serve(r, http.MethodDelete, "/api/documents/cv.pdf", "", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.FileExists(t, filepath.Join(dir.Dir(), "cv.pdf"))

	w = serve(r, http.MethodPost, "/api/reindex", "", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Email: "ops@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "jobfit",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte(config.DefaultJWTSecret))
	require.NoError(t, err)

	w = serve(r, http.MethodDelete, "/api/documents/cv.pdf", "", signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.FileExists(t, filepath.Join(dir.Dir(), "cv.pdf"))
}

func TestRouterServesDataFiles(t *testing.T) {
	r, dir, _ := testRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir.Dir(), "cv.pdf"), []byte("%PDF-1.4"), 0o644))

	w := serve(r, http.MethodGet, "/data/cv.pdf", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestRouterPageAndHealth(t *testing.T) {
	r, _, _ := testRouter(t)

	w := serve(r, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error loading page:")

	w = serve(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rag_ready":false`)

	w = serve(r, http.MethodGet, "/api/tools", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ask_resume")
}
