// Package app builds the services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jobfit/backend/analyzer"
	"github.com/jobfit/backend/cache"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/gemini"
	"github.com/jobfit/backend/llm"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/scraper"
	"github.com/jobfit/backend/storage"
	"github.com/jobfit/backend/utils"
)

// App holds the wired services
type App struct {
	Config   *config.Config
	DataDir  *storage.DataDir
	RAG      *rag.Service
	Analyzer *analyzer.Analyzer
	Analyses storage.AnalysisStore
	Cache    cache.Cache
	// Archive is nil unless RESUME_BUCKET is set
	Archive *storage.ResumeArchive

	closers []io.Closer
}

// Build creates every service from cfg. It does not build the resume index;
// call Start for that.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	dataDir, err := storage.NewDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	a.DataDir = dataDir

	openAI := llm.NewOpenAI(cfg)

	var chat llm.ChatModel = openAI
	if cfg.LLMProvider == config.ProviderGemini {
		logger.Info().Str("model", cfg.GeminiModel).Msg("initializing Gemini client")
		geminiClient, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, geminiClient)
		chat = geminiClient
	}

	indexer := rag.NewIndexer(
		rag.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		openAI,
		cfg.EmbedBatchSize,
		cfg.EmbedConcurrency,
	)
	a.RAG = rag.NewService(dataDir.Dir(), utils.NewDocumentExtractor(), indexer, chat, cfg.RetrievalTopK)

	keywords, err := scraper.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	c, err := cache.New(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-process cache")
		c = cache.NewMemory(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	}
	a.Cache = c
	a.closers = append(a.closers, c)

	if cfg.FirestoreEnabled {
		logger.Info().Str("project", cfg.ProjectID).Msg("initializing Firestore client")
		store, err := storage.NewFirestoreAnalysisStore(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Analyses = store
	} else {
		a.Analyses = storage.NewMemoryAnalysisStore(storage.DefaultMemoryCapacity)
	}
	a.closers = append(a.closers, a.Analyses)

	if cfg.ResumeBucket != "" {
		logger.Info().Str("bucket", cfg.ResumeBucket).Msg("initializing Cloud Storage client")
		archive, err := storage.NewResumeArchive(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Archive = archive
		a.closers = append(a.closers, archive)
	}

	opts := analyzer.Options{Cache: a.Cache, Store: a.Analyses}
	if cfg.LLMExtractionFallback {
		opts.Model = chat
	}
	a.Analyzer = analyzer.New(cfg, scraper.NewFetcher(cfg), scraper.NewExtractor(keywords), opts)

	return a, nil
}

// Start restores archived resumes and builds the resume index. A missing
// corpus is logged and leaves the QA chain uninitialized.
func (a *App) Start(ctx context.Context) error {
	if a.Archive != nil {
		n, err := a.Archive.SyncToDir(ctx, a.DataDir)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to restore resumes from the archive")
		} else if n > 0 {
			logger.Info().Int("files", n).Msg("restored resumes from the archive")
		}
	}

	logger.Info().Str("data_dir", a.DataDir.Dir()).Msg("initializing RAG system")
	if err := a.RAG.Initialize(ctx); err != nil {
		if errors.Is(err, rag.ErrNoDocuments) {
			return nil
		}
		return fmt.Errorf("failed to initialize RAG system: %w", err)
	}
	logger.Info().Strs("files", a.RAG.Files()).Msg("RAG system initialized")
	return nil
}

// Close releases clients in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close client")
		}
	}
	a.closers = nil
}
