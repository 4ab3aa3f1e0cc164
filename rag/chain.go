package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobfit/backend/llm"
)

// Prompt of the "stuff" chain: every retrieved chunk goes into one system message.
const stuffSystemPrompt = `Use the following pieces of context to answer the user's question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
----------------
%s`

// Answer is a generated response with the files its context came from
type Answer struct {
	Text    string   `json:"response"`
	Sources []string `json:"sources,omitempty"`
}

// QAChain answers questions from retrieved resume chunks
type QAChain struct {
	store *VectorStore
	model llm.ChatModel
	topK  int
}

// NewQAChain creates a chain retrieving topK chunks per question
func NewQAChain(store *VectorStore, model llm.ChatModel, topK int) *QAChain {
	if topK <= 0 {
		topK = 4
	}
	return &QAChain{store: store, model: model, topK: topK}
}

// Run retrieves context for question and asks the chat model
func (c *QAChain) Run(ctx context.Context, question string) (Answer, error) {
	results, err := c.store.Search(ctx, question, c.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieval failed: %w", err)
	}

	texts := make([]string, 0, len(results))
	var sources []string
	seen := make(map[string]bool)
	for _, r := range results {
		texts = append(texts, r.Text)
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}

	text, err := c.model.Generate(ctx, []llm.Message{
		llm.System(fmt.Sprintf(stuffSystemPrompt, strings.Join(texts, "\n\n"))),
		llm.User(question),
	})
	if err != nil {
		return Answer{}, fmt.Errorf("generation failed: %w", err)
	}

	return Answer{Text: strings.TrimSpace(text), Sources: sources}, nil
}
