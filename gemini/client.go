package gemini

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/llm"
)

// Client wraps the Vertex AI Gemini client as an llm.ChatModel
type Client struct {
	client    *genai.Client
	modelName string
	temp      float32
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:    client,
		modelName: cfg.GeminiModel,
		temp:      float32(cfg.LLMTemperature),
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// Generate sends the prompt to Gemini. System messages become the system
// instruction; the remaining turns are replayed as chat history.
func (c *Client) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temp)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(8192)

	system, history, last := splitMessages(messages)
	if last == "" {
		return "", fmt.Errorf("prompt has no user message")
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// splitMessages separates the system prompt, prior turns and the final user turn
func splitMessages(messages []llm.Message) (string, []*genai.Content, string) {
	var system []string
	var history []*genai.Content
	last := ""

	for i, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			if i == len(messages)-1 {
				last = m.Content
				continue
			}
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}

	return strings.Join(system, "\n\n"), history, last
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}
