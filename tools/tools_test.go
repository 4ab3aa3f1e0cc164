package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/scraper"
	"github.com/jobfit/backend/storage"
)

type fakeAnalyzer struct {
	analysis *models.JobAnalysis
	err      error
}

func (f fakeAnalyzer) AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error) {
	return f.analysis, f.err
}

type fakeAsker struct {
	question string
	err      error
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (rag.Answer, error) {
	f.question = question
	if f.err != nil {
		return rag.Answer{}, f.err
	}
	return rag.Answer{Text: "Five years of Go", Sources: []string{"cv.pdf"}}, nil
}

type fakeDocs struct{}

func (fakeDocs) List() ([]storage.FileInfo, error) {
	return []storage.FileInfo{{Name: "a.pdf", Size: 10}, {Name: "b.pdf", Size: 20}}, nil
}

type fakeIndexed []string

func (f fakeIndexed) Files() []string { return f }

func decode(t *testing.T, raw json.RawMessage) ToolResult {
	t.Helper()
	var res ToolResult
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestRegistryListsSorted(t *testing.T) {
	r := NewToolRegistry()
	r.Register(NewListDocumentsTool(fakeDocs{}, fakeIndexed{}))
	r.Register(NewAskResumeTool(&fakeAsker{}))
	r.Register(NewAnalyzeJobTool(fakeAnalyzer{}))

	var names []string
	for _, tool := range r.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"analyze_job_url", "ask_resume", "list_resume_documents"}, names)

	defs := r.GetToolDefinitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "analyze_job_url", defs[0]["name"])

	_, ok := r.Get("ask_resume")
	assert.True(t, ok)
}

func TestInputSchemaReflection(t *testing.T) {
	schema := NewAnalyzeJobTool(fakeAnalyzer{}).InputSchema()

	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "url")
	assert.Equal(t, []interface{}{"url"}, schema["required"])
}

func TestAnalyzeJobTool(t *testing.T) {
	details := models.NewJobDetails()
	details.JobTitle = "SRE"
	tool := NewAnalyzeJobTool(fakeAnalyzer{analysis: &models.JobAnalysis{ID: "1", Details: details}})

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"url":"https://x.example/job"}`))
	require.NoError(t, err)
	res := decode(t, raw)
	assert.True(t, res.Success)
	assert.Contains(t, string(res.Data), `"job_title":"SRE"`)

	failing := NewAnalyzeJobTool(fakeAnalyzer{err: scraper.ErrNotJobPosting})
	raw, err = failing.Execute(context.Background(), json.RawMessage(`{"url":"https://x.example/blog"}`))
	require.NoError(t, err)
	res = decode(t, raw)
	assert.False(t, res.Success)
	assert.Equal(t, "Provided URL does not contain a job, please verify", res.Error)
}

func TestAskResumeTool(t *testing.T) {
	asker := &fakeAsker{}
	tool := NewAskResumeTool(asker)

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"question":"Experience?"}`))
	require.NoError(t, err)
	res := decode(t, raw)
	assert.True(t, res.Success)
	assert.Equal(t, "Experience?", asker.question)
	assert.Contains(t, string(res.Data), "Five years of Go")

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{"question":"  "}`))
	require.NoError(t, err)
	assert.Equal(t, "No question received", decode(t, raw).Error)

	notReady := NewAskResumeTool(&fakeAsker{err: rag.ErrNotInitialized})
	raw, err = notReady.Execute(context.Background(), json.RawMessage(`{"question":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "QA chain is not initialized", decode(t, raw).Error)
}

func TestListDocumentsTool(t *testing.T) {
	tool := NewListDocumentsTool(fakeDocs{}, fakeIndexed{"b.pdf"})

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	res := decode(t, raw)
	require.True(t, res.Success)

	var data struct {
		Documents []DocumentEntry `json:"documents"`
		Count     int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, 2, data.Count)
	assert.False(t, data.Documents[0].Indexed)
	assert.True(t, data.Documents[1].Indexed)
}
