package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobfit/backend/llm"
	"github.com/jobfit/backend/logger"
)

// ErrNoDocuments is returned when there is no text to index
var ErrNoDocuments = errors.New("no documents to index")

// Document is the extracted text of one resume file
type Document struct {
	Name string
	Text string
}

// Indexer splits documents, embeds the chunks and loads them into a store
type Indexer struct {
	splitter    *Splitter
	embedder    llm.Embedder
	batchSize   int
	concurrency int
	log         zerolog.Logger
}

// NewIndexer creates an indexer. batchSize bounds texts per embedding
// request and concurrency bounds requests in flight.
func NewIndexer(splitter *Splitter, embedder llm.Embedder, batchSize, concurrency int) *Indexer {
	if batchSize <= 0 {
		batchSize = 64
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Indexer{
		splitter:    splitter,
		embedder:    embedder,
		batchSize:   batchSize,
		concurrency: concurrency,
		log:         logger.With("indexer"),
	}
}

// Build returns a new store holding every chunk of docs
func (ix *Indexer) Build(ctx context.Context, docs []Document) (*VectorStore, error) {
	var chunks []Chunk
	for _, doc := range docs {
		parts, err := ix.splitter.Split(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", doc.Name, err)
		}
		for _, p := range parts {
			chunks = append(chunks, Chunk{ID: uuid.NewString(), Source: doc.Name, Text: p})
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}

	if err := ix.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	store, err := NewVectorStore(ix.embedder)
	if err != nil {
		return nil, err
	}
	if err := store.Add(chunks); err != nil {
		store.Close()
		return nil, err
	}

	ix.log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("built resume index")
	return store, nil
}

// embedChunks fills chunk vectors in place, batch by batch
func (ix *Indexer) embedChunks(ctx context.Context, chunks []Chunk) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Use semaphore to limit concurrency
	sem := make(chan struct{}, ix.concurrency)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		wg.Add(1)
		go func(batch []Chunk) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Text
			}

			vectors, err := ix.embedder.Embed(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vectors))
			}
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("failed to embed chunks: %w", err)
					cancel()
				})
				return
			}

			for i := range batch {
				batch[i].Vector = vectors[i]
			}
		}(chunks[start:end])
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
