package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jobfit/backend/llm"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/utils"
)

// ErrNotInitialized is returned by Ask before an index has been built
var ErrNotInitialized = errors.New("QA chain is not initialized")

// TextExtractor reads the text of a resume file
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// Service owns the current resume index and QA chain. Rebuilds happen off
// to the side and are swapped in atomically.
type Service struct {
	dataDir   string
	extractor TextExtractor
	indexer   *Indexer
	model     llm.ChatModel
	topK      int
	log       zerolog.Logger

	mu    sync.RWMutex
	store *VectorStore
	chain *QAChain
	files []string

	buildMu sync.Mutex
}

// NewService creates a service indexing the PDFs in dataDir
func NewService(dataDir string, extractor TextExtractor, indexer *Indexer, model llm.ChatModel, topK int) *Service {
	return &Service{
		dataDir:   dataDir,
		extractor: extractor,
		indexer:   indexer,
		model:     model,
		topK:      topK,
		log:       logger.With("rag"),
	}
}

// Initialize builds the index from every PDF in the data folder. With no
// usable PDFs the service is left uninitialized and ErrNoDocuments is returned.
func (s *Service) Initialize(ctx context.Context) error {
	_, err := s.Reindex(ctx)
	return err
}

// Reindex rebuilds the index and returns the files it was built from
func (s *Service) Reindex(ctx context.Context) ([]string, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	names, err := s.pdfFiles()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		text, err := s.extractor.ExtractFile(filepath.Join(s.dataDir, name))
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("skipping unreadable resume")
			continue
		}
		if strings.TrimSpace(text) == "" {
			s.log.Warn().Str("file", name).Msg("resume has no extractable text")
			continue
		}
		if !utils.LooksLikeResume(text) {
			s.log.Warn().Str("file", name).Msg("document does not look like a resume, indexing anyway")
		}
		docs = append(docs, Document{Name: name, Text: text})
	}

	if len(docs) == 0 {
		s.swap(nil, nil)
		s.log.Error().Str("data_dir", s.dataDir).Msg("no PDF files in the data folder, upload a resume to continue")
		return nil, ErrNoDocuments
	}

	store, err := s.indexer.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	files := make([]string, len(docs))
	for i, d := range docs {
		files[i] = d.Name
	}

	s.swap(store, files)
	s.log.Info().Strs("files", files).Int("chunks", store.Len()).Msg("resume index ready")
	return files, nil
}

// swap installs a new store. In-flight questions hold the read lock, so
// the old store is closed only after they finish.
func (s *Service) swap(store *VectorStore, files []string) {
	s.mu.Lock()
	old := s.store
	s.store = store
	s.files = files
	if store != nil {
		s.chain = NewQAChain(store, s.model, s.topK)
	} else {
		s.chain = nil
	}
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.log.Warn().Err(err).Msg("failed to close previous index")
		}
	}
}

// Ask answers a question about the indexed resumes
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.chain == nil {
		return Answer{}, ErrNotInitialized
	}
	return s.chain.Run(ctx, question)
}

// Ready reports whether questions can be answered
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain != nil
}

// Files returns the files the current index was built from
func (s *Service) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.files...)
}

// pdfFiles lists indexable files in the data folder, sorted
func (s *Service) pdfFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && utils.IsSupportedFormat(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
