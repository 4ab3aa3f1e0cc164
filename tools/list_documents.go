package tools

import (
	"context"
	"encoding/json"

	"github.com/jobfit/backend/storage"
)

// DocumentLister lists the resumes in the data folder
type DocumentLister interface {
	List() ([]storage.FileInfo, error)
}

// IndexedFiles reports which files the current index was built from
type IndexedFiles interface {
	Files() []string
}

// ListDocumentsTool lists resume documents and their index state
type ListDocumentsTool struct {
	docs    DocumentLister
	indexed IndexedFiles
}

// NewListDocumentsTool creates the document listing tool
func NewListDocumentsTool(docs DocumentLister, indexed IndexedFiles) *ListDocumentsTool {
	return &ListDocumentsTool{docs: docs, indexed: indexed}
}

func (t *ListDocumentsTool) Name() string {
	return "list_resume_documents"
}

func (t *ListDocumentsTool) Description() string {
	return `List the resume files in the data folder and whether each one is in the current index.`
}

// ListDocumentsInput takes no parameters
type ListDocumentsInput struct{}

func (t *ListDocumentsTool) InputSchema() map[string]interface{} {
	return schemaFor(&ListDocumentsInput{})
}

// DocumentEntry is one listed resume
type DocumentEntry struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Indexed bool   `json:"indexed"`
}

func (t *ListDocumentsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	files, err := t.docs.List()
	if err != nil {
		return NewErrorResult(err.Error())
	}

	indexed := make(map[string]bool)
	for _, name := range t.indexed.Files() {
		indexed[name] = true
	}

	entries := make([]DocumentEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, DocumentEntry{Name: f.Name, Size: f.Size, Indexed: indexed[f.Name]})
	}

	return NewSuccessResult(map[string]interface{}{
		"documents": entries,
		"count":     len(entries),
	})
}
