package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for files that cannot be indexed
var ErrUnsupportedFormat = errors.New("unsupported document format")

var resumeKeywords = []string{"education", "experience", "skills", "projects"}

// DocumentExtractor extracts text from resume documents
type DocumentExtractor struct{}

// NewDocumentExtractor creates a new document extractor
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractFile extracts the text of a document on disk
func (e *DocumentExtractor) ExtractFile(path string) (string, error) {
	if !IsSupportedFormat(path) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	text, err := ExtractTextFromPDF(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return text, nil
}

// ExtractReader reads a whole upload and extracts its text
func (e *DocumentExtractor) ExtractReader(name string, r io.Reader) (string, error) {
	if !IsSupportedFormat(name) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return ExtractTextFromPDF(buf.Bytes())
}

// ExtractTextFromPDF returns the plain text of every page, in page order
func ExtractTextFromPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sb.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// IsSupportedFormat checks if the file format can be indexed
func IsSupportedFormat(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// LooksLikeResume reports whether text mentions a typical resume section
func LooksLikeResume(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range resumeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
