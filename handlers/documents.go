package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/rag"
	"github.com/jobfit/backend/storage"
	"github.com/jobfit/backend/utils"
)

// MaxUploadBytes caps resume uploads
const MaxUploadBytes = 20 << 20

// DocumentStore is the local resume folder
type DocumentStore interface {
	Save(name string, r io.Reader) (string, error)
	List() ([]storage.FileInfo, error)
	Delete(name string) error
}

// ResumeIndex is the rebuildable resume index
type ResumeIndex interface {
	Reindex(ctx context.Context) ([]string, error)
	Files() []string
	Ready() bool
}

// Archive mirrors resumes to remote storage
type Archive interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// DocumentHandler manages the resume corpus
type DocumentHandler struct {
	docs    DocumentStore
	index   ResumeIndex
	archive Archive

	extractText func(data []byte) (string, error)
}

// NewDocumentHandler creates a document handler. archive may be nil.
func NewDocumentHandler(docs DocumentStore, index ResumeIndex, archive Archive) *DocumentHandler {
	return &DocumentHandler{
		docs:        docs,
		index:       index,
		archive:     archive,
		extractText: utils.ExtractTextFromPDF,
	}
}

// ListDocuments lists resumes in the data folder
// @Summary List resumes
// @Description List the resume files and whether each is in the current index
// @Tags Documents
// @Produce json
// @Success 200 {object} models.DocumentsResponse "Resume documents"
// @Failure 500 {object} models.ErrorResponse "Failed to read data folder"
// @Router /api/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	files, err := h.docs.List()
	if err != nil {
		logger.Error().Err(err).Msg("failed to list documents")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to list documents",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	indexed := make(map[string]bool)
	for _, name := range h.index.Files() {
		indexed[name] = true
	}

	archived := make(map[string]bool)
	if h.archive != nil {
		names, err := h.archive.List(c.Request.Context())
		if err != nil {
			logger.Warn().Err(err).Msg("failed to list archived resumes")
		}
		for _, name := range names {
			archived[name] = true
		}
	}

	docs := make([]models.DocumentInfo, 0, len(files))
	for _, f := range files {
		docs = append(docs, models.DocumentInfo{
			Name:     f.Name,
			Size:     f.Size,
			Indexed:  indexed[f.Name],
			URL:      "/data/" + f.Name,
			Archived: archived[f.Name],
		})
	}

	c.JSON(http.StatusOK, models.DocumentsResponse{
		Documents: docs,
		RAGReady:  h.index.Ready(),
	})
}

// UploadDocument stores a resume PDF and rebuilds the index
// @Summary Upload a resume
// @Description Upload a PDF resume, archive it when a bucket is configured and rebuild the index
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Resume PDF"
// @Success 201 {object} models.DocumentUploadResponse "Uploaded"
// @Failure 400 {object} models.ErrorResponse "Missing file or unsupported format"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 409 {object} models.ErrorResponse "A file with this name already exists"
// @Failure 500 {object} models.ErrorResponse "Failed to store file"
// @Router /api/documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "File is required",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	if !utils.IsSupportedFormat(header.Filename) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Only PDF files are supported",
			Code:  http.StatusBadRequest,
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Failed to read file",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	text, err := h.extractText(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Could not read PDF",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	name, err := h.docs.Save(header.Filename, bytes.NewReader(data))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, storage.ErrInvalidFilename):
			status = http.StatusBadRequest
		case errors.Is(err, storage.ErrFileExists):
			status = http.StatusConflict
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "Failed to store file",
			Code:    status,
			Details: err.Error(),
		})
		return
	}

	log := logger.With("documents").With().Str("file", name).Logger()
	log.Info().Int64("size", int64(len(data))).Msg("resume uploaded")

	doc := models.DocumentInfo{Name: name, Size: int64(len(data)), URL: "/data/" + name}

	if h.archive != nil {
		if _, err := h.archive.Upload(c.Request.Context(), name, bytes.NewReader(data)); err != nil {
			log.Warn().Err(err).Msg("failed to archive resume")
		} else {
			doc.Archived = true
		}
	}

	resp := models.DocumentUploadResponse{
		LooksLikeCV: utils.LooksLikeResume(text),
		Message:     "Document uploaded successfully",
	}

	files, err := h.index.Reindex(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("reindex after upload failed")
		resp.Message = "Document uploaded, but the index could not be rebuilt"
	} else {
		resp.Reindexed = true
		resp.IndexedFiles = len(files)
		for _, f := range files {
			if f == name {
				doc.Indexed = true
			}
		}
	}
	resp.Document = doc

	c.JSON(http.StatusCreated, resp)
}

// DeleteDocument removes a resume and rebuilds the index
// @Summary Delete a resume
// @Description Delete a resume from the data folder and the archive, then rebuild the index
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param name path string true "File name"
// @Success 200 {object} models.ReindexResponse "Deleted"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Not found"
// @Router /api/documents/{name} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	name := c.Param("name")

	if err := h.docs.Delete(name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Document not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		logger.Error().Err(err).Str("file", name).Msg("failed to delete document")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to delete document",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	if h.archive != nil {
		if err := h.archive.Delete(c.Request.Context(), name); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("failed to delete archived resume")
		}
	}

	files, err := h.index.Reindex(c.Request.Context())
	msg := "Document deleted"
	if err != nil && !errors.Is(err, rag.ErrNoDocuments) {
		logger.Error().Err(err).Msg("reindex after delete failed")
		msg = "Document deleted, but the index could not be rebuilt"
	}

	c.JSON(http.StatusOK, models.ReindexResponse{Files: nonNil(files), Message: msg})
}

// Reindex rebuilds the resume index from the data folder
// @Summary Rebuild the index
// @Description Re-read every PDF in the data folder and rebuild the resume index
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ReindexResponse "Index rebuilt"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 409 {object} models.ErrorResponse "No documents"
// @Failure 500 {object} models.ErrorResponse "Rebuild failed"
// @Router /api/reindex [post]
func (h *DocumentHandler) Reindex(c *gin.Context) {
	files, err := h.index.Reindex(c.Request.Context())
	if err != nil {
		if errors.Is(err, rag.ErrNoDocuments) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: "No PDF documents found in the data folder",
				Code:  http.StatusConflict,
			})
			return
		}
		logger.Error().Err(err).Msg("reindex failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to rebuild index",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ReindexResponse{Files: files, Message: "Index rebuilt"})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
