package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobfit/backend/utils"
)

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

// A normal job page behind Cloudflare carries the bot detection script.
const cloudflareJobPage = `<html><head><title>Senior Go Engineer</title>
<script type="application/ld+json">{"@type":"JobPosting","title":"Senior Go Engineer","description":"Build services"}</script>
</head><body><h1>Senior Go Engineer</h1>
<script>(function(){var a=document.createElement('script');a.src='/cdn-cgi/challenge-platform/scripts/jsd/main.js';document.head.appendChild(a);})();</script>
<span class="cf-chl-widget"></span>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/challenge", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Just a moment...</title></head></html>"))
	})
	mux.HandleFunc("/cloudflare-job", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cloudflareJobPage))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOK(t *testing.T) {
	srv := newTestServer(t)
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 1024, nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.HTML, "hello")
	assert.False(t, page.Rendered)
}

func TestFetchCapsBody(t *testing.T) {
	srv := newTestServer(t)
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 100, nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/big")
	require.NoError(t, err)
	assert.Len(t, page.HTML, 100)
}

func TestFetchFailures(t *testing.T) {
	srv := newTestServer(t)
	f := NewFetcherWithClient(utils.NewHTTPClient(100*time.Millisecond), 1024, nil)

	for _, path := range []string{"/missing", "/forbidden", "/slow"} {
		t.Run(path, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), srv.URL+path)
			assert.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestFetchChallengeWithoutRendererReturnsPage(t *testing.T) {
	srv := newTestServer(t)
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 1024, nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/challenge")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.False(t, page.Rendered)
}

func TestFetchCloudflareJobPageIsNotAChallenge(t *testing.T) {
	srv := newTestServer(t)
	renderer := &fakeRenderer{html: "<html>rendered</html>"}
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 64*1024, renderer)

	page, err := f.Fetch(context.Background(), srv.URL+"/cloudflare-job")
	require.NoError(t, err)
	assert.False(t, page.Rendered)
	assert.Equal(t, 0, renderer.calls)

	details, err := NewExtractor(Keywords{}).Extract(page.HTML)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", details.JobTitle)
	assert.True(t, details.IsJobPosting())
}

func TestIsChallenge(t *testing.T) {
	assert.True(t, isChallenge(&Page{HTML: "<html><head><title>Just a moment...</title></head></html>"}))
	assert.True(t, isChallenge(&Page{HTML: `<form id="challenge-form"><script>window._cf_chl_opt={cvId:'3'}</script></form>`}))
	assert.True(t, isChallenge(&Page{HTML: `<div id="cf-browser-verification"></div>`}))
	assert.False(t, isChallenge(&Page{HTML: cloudflareJobPage}))
	assert.False(t, isChallenge(nil))
}

func TestFetchBrowserFallback(t *testing.T) {
	srv := newTestServer(t)
	renderer := &fakeRenderer{html: "<html>rendered</html>"}
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 1024, renderer)

	page, err := f.Fetch(context.Background(), srv.URL+"/forbidden")
	require.NoError(t, err)
	assert.True(t, page.Rendered)
	assert.Equal(t, "<html>rendered</html>", page.HTML)

	page, err = f.Fetch(context.Background(), srv.URL+"/challenge")
	require.NoError(t, err)
	assert.True(t, page.Rendered)

	// 404 is not worth a browser retry
	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 2, renderer.calls)
}

func TestFetchBrowserFallbackError(t *testing.T) {
	srv := newTestServer(t)
	renderer := &fakeRenderer{err: errors.New("chrome not found")}
	f := NewFetcherWithClient(utils.NewHTTPClient(5*time.Second), 1024, renderer)

	_, err := f.Fetch(context.Background(), srv.URL+"/forbidden")
	assert.ErrorIs(t, err, ErrFetchFailed)
}
