package gemini

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/llm"
)

func TestSplitMessages(t *testing.T) {
	system, history, last := splitMessages([]llm.Message{
		llm.System("rule one"),
		llm.User("first question"),
		{Role: llm.RoleAssistant, Content: "first answer"},
		llm.System("rule two"),
		llm.User("second question"),
	})

	assert.Equal(t, "rule one\n\nrule two", system)
	assert.Equal(t, "second question", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("first answer"), history[1].Parts[0])
}

func TestSplitMessagesWithoutFinalUserTurn(t *testing.T) {
	_, _, last := splitMessages([]llm.Message{llm.System("only rules")})
	assert.Empty(t, last)
}

func TestExtractText(t *testing.T) {
	assert.Empty(t, extractText(nil))
	assert.Empty(t, extractText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("hello "), genai.Text("world")}},
		}},
	}
	assert.Equal(t, "hello world", extractText(resp))
}
