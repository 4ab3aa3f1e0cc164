// Package llm defines the chat and embedding model interfaces used by the
// resume assistant and the job extraction fallback.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when a provider answers with no content
var ErrEmptyResponse = errors.New("empty response from model")

// Message is one turn of a chat prompt
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel generates a completion for a prompt
type ChatModel interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Embedder turns texts into vectors, one per input, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// System is shorthand for a system message
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User is shorthand for a user message
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// CleanJSON removes markdown code fences models like to wrap JSON in
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
