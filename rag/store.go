package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jobfit/backend/llm"
)

// rrfK dampens the weight of top ranks in reciprocal rank fusion
const rrfK = 60

// Chunk is an indexed piece of a resume
type Chunk struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
	Vector []float32 `json:"-"`
}

// SearchResult is a retrieved chunk with its fused score
type SearchResult struct {
	Chunk
	Score float64 `json:"score"`
}

// VectorStore keeps chunks in memory and retrieves them by embedding
// similarity fused with BM25 keyword relevance
type VectorStore struct {
	mu       sync.RWMutex
	embedder llm.Embedder
	chunks   map[string]Chunk
	order    []string
	index    bleve.Index
}

type chunkDoc struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func buildIndexMapping() mapping.IndexMapping {
	chunkMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	chunkMapping.AddFieldMappingsAt("text", textFieldMapping)

	sourceFieldMapping := bleve.NewKeywordFieldMapping()
	chunkMapping.AddFieldMappingsAt("source", sourceFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = chunkMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// NewVectorStore creates an empty store. The embedder is used for queries.
func NewVectorStore(embedder llm.Embedder) (*VectorStore, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}

	return &VectorStore{
		embedder: embedder,
		chunks:   make(map[string]Chunk),
		index:    index,
	}, nil
}

// Add stores embedded chunks
func (s *VectorStore) Add(chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			return fmt.Errorf("chunk %s has no embedding", c.ID)
		}
		if err := batch.Index(c.ID, chunkDoc{Text: c.Text, Source: c.Source}); err != nil {
			return fmt.Errorf("failed to index chunk: %w", err)
		}
		if _, exists := s.chunks[c.ID]; !exists {
			s.order = append(s.order, c.ID)
		}
		s.chunks[c.ID] = c
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index chunks: %w", err)
	}
	return nil
}

// Len returns the number of chunks
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Sources returns the distinct chunk sources in insertion order
func (s *VectorStore) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var sources []string
	for _, id := range s.order {
		src := s.chunks[id].Source
		if !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return sources
}

// Search returns the k chunks most relevant to query
func (s *VectorStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, nil
	}

	candidates := k * 4
	vectorRanks := s.vectorRanking(vectors[0], candidates)

	keywordRanks, err := s.keywordRanking(query, candidates)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(vectorRanks)+len(keywordRanks))
	for rank, id := range vectorRanks {
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}
	for rank, id := range keywordRanks {
		scores[id] += 1.0 / float64(rrfK+rank+1)
	}

	// Vector order is the tie breaker.
	position := make(map[string]int, len(vectorRanks))
	for i, id := range vectorRanks {
		position[id] = i
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		pi, iok := position[ids[i]]
		pj, jok := position[ids[j]]
		if iok != jok {
			return iok
		}
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})

	if len(ids) > k {
		ids = ids[:k]
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, SearchResult{Chunk: s.chunks[id], Score: scores[id]})
	}
	return results, nil
}

func (s *VectorStore) vectorRanking(query []float32, limit int) []string {
	type scored struct {
		id    string
		score float64
		pos   int
	}

	all := make([]scored, 0, len(s.order))
	for i, id := range s.order {
		all = append(all, scored{id: id, score: cosineSimilarity(query, s.chunks[id].Vector), pos: i})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].pos < all[j].pos
	})

	if len(all) > limit {
		all = all[:limit]
	}
	ids := make([]string, len(all))
	for i, sc := range all {
		ids[i] = sc.id
	}
	return ids
}

func (s *VectorStore) keywordRanking(query string, limit int) ([]string, error) {
	q := bleve.NewMatchQuery(query)
	q.SetField("text")

	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the keyword index
func (s *VectorStore) Close() error {
	return s.index.Close()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
