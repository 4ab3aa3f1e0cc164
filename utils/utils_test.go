package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Senior\n\tGo   Engineer ", "Senior Go Engineer"},
		{"{\"@type\": \"MonetaryAmount\"}", NotAvailable},
		{"{ leaked }", NotAvailable},
		{"", ""},
		{"   \n ", ""},
		{"pay {negotiable}", "pay {negotiable}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "We build things . Go Kubernetes",
		StripHTML("<p>We build <b>things</b>.</p><ul><li>Go</li><li>Kubernetes</li></ul>"))
	assert.Equal(t, "plain text", StripHTML("plain\n text"))
	assert.Equal(t, "Fish & Chips", StripHTML("Fish &amp; Chips"))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://careers.example.com/jobs/1"))
	assert.True(t, IsValidURL("http://localhost:8080/job"))
	assert.False(t, IsValidURL("careers.example.com/jobs/1"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("https://"))
	assert.False(t, IsValidURL(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	// "é" is two bytes; cutting inside it backs off to the rune start
	assert.Equal(t, "a", Truncate("aé", 2))
}

func TestLooksLikeResume(t *testing.T) {
	assert.True(t, LooksLikeResume("EDUCATION\nBSc Computer Science"))
	assert.True(t, LooksLikeResume("Relevant Experience: 5 years"))
	assert.False(t, LooksLikeResume("Invoice #42, total due"))
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("cv.pdf"))
	assert.True(t, IsSupportedFormat("CV.PDF"))
	assert.False(t, IsSupportedFormat("cv.docx"))
	assert.False(t, IsSupportedFormat("pdf"))
}

func TestExtractFileRejectsUnsupportedAndGarbage(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))

	_, err := NewDocumentExtractor().ExtractFile(txt)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	bad := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a pdf"), 0o644))

	_, err = NewDocumentExtractor().ExtractFile(bad)
	assert.Error(t, err)
}

func TestExtractTextFromPDFPageOrder(t *testing.T) {
	const want = "Education BSc Computer Science\nExperience Go Engineer at Acme\n"
	path := filepath.Join("testdata", "two_pages.pdf")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text, err := ExtractTextFromPDF(data)
	require.NoError(t, err)
	assert.Equal(t, want, text)

	text, err = NewDocumentExtractor().ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, text)
	assert.True(t, LooksLikeResume(text))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	text, err = NewDocumentExtractor().ExtractReader("two_pages.pdf", f)
	require.NoError(t, err)
	assert.Equal(t, want, text)
}

func TestHTTPClientSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(5 * time.Second).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, BrowserUserAgent, got)
}
