// Package scraper fetches job posting pages and extracts their details.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/utils"
)

// ErrFetchFailed is returned when a page could not be retrieved
var ErrFetchFailed = errors.New("could not fetch page")

// Page is a fetched job page
type Page struct {
	URL        string
	HTML       string
	StatusCode int
	Rendered   bool // true when the HTML came from the headless browser
}

// Renderer loads a page in a real browser and returns its HTML
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher retrieves job pages over HTTP, falling back to a browser for
// pages that block plain clients
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	renderer Renderer
	log      zerolog.Logger
}

// NewFetcher creates a fetcher from config. The browser fallback is only
// wired when enabled.
func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	var renderer Renderer
	if cfg.BrowserFallback {
		renderer = NewBrowserRenderer(cfg.ChromePath, 3*timeout)
	}

	return NewFetcherWithClient(utils.NewHTTPClient(timeout), cfg.MaxPageBytes, renderer)
}

// NewFetcherWithClient creates a fetcher around an existing client
func NewFetcherWithClient(client *http.Client, maxBytes int64, renderer Renderer) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Fetcher{
		client:   client,
		maxBytes: maxBytes,
		renderer: renderer,
		log:      logger.With("fetcher"),
	}
}

// Fetch downloads a page
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	page, err := f.fetchHTTP(ctx, pageURL)
	if err == nil && (f.renderer == nil || !isChallenge(page)) {
		return page, nil
	}

	if f.renderer == nil || !shouldRender(page, err) {
		return nil, err
	}

	f.log.Info().Str("url", pageURL).Msg("plain fetch blocked, rendering in browser")

	html, renderErr := f.renderer.Render(ctx, pageURL)
	if renderErr != nil {
		return nil, fmt.Errorf("%w: browser render: %v", ErrFetchFailed, renderErr)
	}

	return &Page{URL: pageURL, HTML: html, StatusCode: http.StatusOK, Rendered: true}, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	// Set headers to mimic a browser
	req.Header.Set("User-Agent", utils.BrowserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetchFailed, err)
	}

	page := &Page{URL: pageURL, HTML: string(body), StatusCode: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, fmt.Errorf("%w: status code %d", ErrFetchFailed, resp.StatusCode)
	}
	return page, nil
}

// shouldRender reports whether a failed plain fetch is worth a browser retry
func shouldRender(page *Page, err error) bool {
	if page == nil {
		return false
	}
	if err == nil {
		return isChallenge(page)
	}
	switch page.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// Markers of the interstitial page itself. Regular Cloudflare pages also
// load /cdn-cgi/challenge-platform scripts, so that path is not a marker.
var challengeMarkers = []string{
	"cf-browser-verification",
	"<title>just a moment...</title>",
	"window._cf_chl_opt",
}

// isChallenge detects anti-bot interstitials served with status 200
func isChallenge(page *Page) bool {
	if page == nil {
		return false
	}
	head := strings.ToLower(utils.Truncate(page.HTML, 64*1024))
	for _, marker := range challengeMarkers {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}
