// Package analyzer orchestrates job URL analysis: cache lookup, fetch,
// extraction, model fallback and persistence.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobfit/backend/cache"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/llm"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/scraper"
	"github.com/jobfit/backend/storage"
	"github.com/jobfit/backend/utils"
)

// Analysis errors
var (
	ErrInvalidURL  = errors.New("URL format expected as input")
	ErrTooManyURLs = errors.New("too many URLs in one batch")
	ErrNoURLs      = errors.New("no URLs given")
)

// PageFetcher retrieves job pages
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Page, error)
}

// Analyzer turns job URLs into stored job details
type Analyzer struct {
	fetcher       PageFetcher
	extractor     *scraper.Extractor
	cache         cache.Cache
	store         storage.AnalysisStore
	model         llm.ChatModel
	maxConcurrent int
	maxBatch      int
	log           zerolog.Logger
}

// Options wires the optional collaborators
type Options struct {
	Cache cache.Cache
	Store storage.AnalysisStore
	// Model enables the LLM fallback when set
	Model llm.ChatModel
}

// New creates an analyzer
func New(cfg *config.Config, fetcher PageFetcher, extractor *scraper.Extractor, opts Options) *Analyzer {
	maxConcurrent := cfg.AnalyzeConcurrency
	if maxConcurrent <= 0 {
		maxConcurrent = 5 // Max concurrent page fetches
	}
	maxBatch := cfg.MaxBatchURLs
	if maxBatch <= 0 {
		maxBatch = 10
	}

	return &Analyzer{
		fetcher:       fetcher,
		extractor:     extractor,
		cache:         opts.Cache,
		store:         opts.Store,
		model:         opts.Model,
		maxConcurrent: maxConcurrent,
		maxBatch:      maxBatch,
		log:           logger.With("analyzer"),
	}
}

// AnalyzeURL analyzes one job URL. It returns ErrInvalidURL,
// scraper.ErrFetchFailed or scraper.ErrNotJobPosting for the expected
// failure modes.
func (a *Analyzer) AnalyzeURL(ctx context.Context, url string) (*models.JobAnalysis, error) {
	if !utils.IsValidURL(url) {
		return nil, ErrInvalidURL
	}

	log := a.log.With().Str("url", url).Logger()

	if a.cache != nil {
		details, ok, err := a.cache.Get(ctx, url)
		if err != nil {
			log.Warn().Err(err).Msg("cache lookup failed")
		} else if ok {
			log.Debug().Msg("cache hit")
			return &models.JobAnalysis{
				URL:        url,
				Details:    *details,
				Source:     models.SourceCache,
				AnalyzedAt: time.Now().UTC(),
			}, nil
		}
	}

	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error().Err(err).Msg("error accessing URL")
		return nil, err
	}

	details, err := a.extractor.Extract(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job details: %w", err)
	}

	source := models.SourceHeuristics
	if !details.IsJobPosting() {
		if a.model == nil {
			log.Warn().Msg("page does not contain a job posting")
			return nil, scraper.ErrNotJobPosting
		}

		log.Info().Msg("heuristics found no job, trying model extraction")
		llmDetails, err := scraper.ExtractWithLLM(ctx, a.model, url, page.HTML)
		if err != nil {
			if !errors.Is(err, scraper.ErrNotJobPosting) {
				log.Warn().Err(err).Msg("model extraction failed")
			}
			return nil, scraper.ErrNotJobPosting
		}
		llmDetails.Sections = details.Sections
		details = llmDetails
		source = models.SourceLLM
	}

	analysis := &models.JobAnalysis{
		URL:     url,
		Details: details,
		Source:  source,
	}

	if a.store != nil {
		if err := a.store.Save(ctx, analysis); err != nil {
			log.Warn().Err(err).Msg("failed to persist analysis")
		}
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now().UTC()
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, url, details); err != nil {
			log.Warn().Err(err).Msg("failed to cache analysis")
		}
	}

	log.Info().Str("title", details.JobTitle).Str("source", source).Msg("extracted job details")
	return analysis, nil
}

// AnalyzeBatch analyzes urls concurrently. Results are in input order and
// failures are reported per URL.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string) ([]models.AnalyzeJobsResult, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	if len(urls) > a.maxBatch {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooManyURLs, len(urls), a.maxBatch)
	}

	results := make([]models.AnalyzeJobsResult, len(urls))

	// Use semaphore to limit concurrency
	sem := make(chan struct{}, a.maxConcurrent)
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(i int, pageURL string) {
			defer wg.Done()

			res := models.AnalyzeJobsResult{URL: pageURL}

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				res.Error = FailureMessage(ctx.Err())
				results[i] = res
				return
			}

			analysis, err := a.AnalyzeURL(ctx, pageURL)
			if err != nil {
				res.Error = FailureMessage(err)
			} else {
				res.Success = true
				res.AnalysisID = analysis.ID
				res.JobDetails = &analysis.Details
			}
			results[i] = res
		}(i, url)
	}

	wg.Wait()

	return results, nil
}

// FailureMessage maps an analysis error to the message shown to users
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "URL format expected as input"
	case errors.Is(err, scraper.ErrFetchFailed):
		return "Could not access the URL or it took too long to respond."
	case errors.Is(err, scraper.ErrNotJobPosting):
		return "Provided URL does not contain a job, please verify"
	default:
		return "An error occurred during URL analysis"
	}
}
