package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/tools"
)

type fakeAsker struct {
	answer rag.Answer
	err    error
}

func (f fakeAsker) Ask(ctx context.Context, question string) (rag.Answer, error) {
	return f.answer, f.err
}

func newRouter(asker tools.ResumeAsker) *gin.Engine {
	gin.SetMode(gin.TestMode)

	registry := tools.NewToolRegistry()
	registry.Register(tools.NewAskResumeTool(asker))

	r := gin.New()
	NewServer(registry).RegisterRoutes(r.Group("/api"))
	return r
}

func post(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJSONRPCToolsList(t *testing.T) {
	r := newRouter(fakeAsker{})

	w := post(t, r, "/api/mcp", MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result ToolsListResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Tools, 1)
	assert.Equal(t, "ask_resume", resp.Result.Tools[0].Name)
	assert.Equal(t, "object", resp.Result.Tools[0].InputSchema["type"])
}

func TestJSONRPCToolsCall(t *testing.T) {
	r := newRouter(fakeAsker{answer: rag.Answer{Text: "Go and SQL"}})

	params, _ := json.Marshal(ToolCallParams{Name: "ask_resume", Arguments: json.RawMessage(`{"question":"skills?"}`)})
	w := post(t, r, "/api/mcp", MCPRequest{JSONRPC: "2.0", ID: "a", Method: "tools/call", Params: params})

	var resp struct {
		ID     string         `json:"id"`
		Result ToolCallResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a", resp.ID)
	assert.False(t, resp.Result.IsError)
	require.Len(t, resp.Result.Content, 1)
	assert.Contains(t, resp.Result.Content[0].Text, "Go and SQL")
}

func TestJSONRPCErrors(t *testing.T) {
	r := newRouter(fakeAsker{})

	w := post(t, r, "/api/mcp", MCPRequest{JSONRPC: "2.0", ID: 2, Method: "resources/list"})
	var resp MCPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/mcp", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, -32700, resp.Error.Code)
}

func TestToolsCallEndpoint(t *testing.T) {
	r := newRouter(fakeAsker{err: errors.New("model down")})

	w := post(t, r, "/api/mcp/tools/call", ToolCallParams{Name: "ask_resume", Arguments: json.RawMessage(`{"question":"hi"}`)})
	var result ToolCallResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "Failed to generate response")

	w = post(t, r, "/api/mcp/tools/call", ToolCallParams{Name: "nope"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "tool not found")
}

func TestInitialize(t *testing.T) {
	r := newRouter(fakeAsker{})

	w := post(t, r, "/api/mcp", MCPRequest{JSONRPC: "2.0", ID: 0, Method: "initialize"})
	var resp struct {
		Result InitializeResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ProtocolVersion, resp.Result.ProtocolVersion)
	assert.Equal(t, "jobfit", resp.Result.ServerInfo.Name)
}
