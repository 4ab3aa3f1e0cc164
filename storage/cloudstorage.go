package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/jobfit/backend/config"
)

const resumePrefix = "resumes/"

// ResumeArchive mirrors the resume folder into a Cloud Storage bucket so
// a fresh instance can restore it
type ResumeArchive struct {
	client     *storage.Client
	bucketName string
}

// NewResumeArchive creates a new Cloud Storage archive
func NewResumeArchive(ctx context.Context, cfg *config.Config) (*ResumeArchive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Storage client: %w", err)
	}

	return &ResumeArchive{
		client:     client,
		bucketName: cfg.ResumeBucket,
	}, nil
}

// Close closes the Cloud Storage client
func (c *ResumeArchive) Close() error {
	return c.client.Close()
}

// Upload stores a resume under its file name and returns its public URL
func (c *ResumeArchive) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	objectName := resumePrefix + name

	wc := c.client.Bucket(c.bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = getContentType(filepath.Ext(name))

	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName), nil
}

// List returns the archived resume names
func (c *ResumeArchive) List(ctx context.Context) ([]string, error) {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: resumePrefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list resumes: %w", err)
		}
		if name := strings.TrimPrefix(attrs.Name, resumePrefix); name != "" && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes an archived resume
func (c *ResumeArchive) Delete(ctx context.Context, name string) error {
	err := c.client.Bucket(c.bucketName).Object(resumePrefix + name).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}

// SyncToDir downloads archived resumes missing from dir and returns how
// many were restored
func (c *ResumeArchive) SyncToDir(ctx context.Context, dir *DataDir) (int, error) {
	names, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, name := range names {
		if dir.Exists(name) {
			continue
		}
		if err := c.download(ctx, name, dir); err != nil {
			if errors.Is(err, ErrFileExists) {
				continue
			}
			return restored, err
		}
		restored++
	}
	return restored, nil
}

func (c *ResumeArchive) download(ctx context.Context, name string, dir *DataDir) error {
	rc, err := c.client.Bucket(c.bucketName).Object(resumePrefix + name).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer rc.Close()

	if _, err := dir.Save(path.Base(name), rc); err != nil {
		return fmt.Errorf("failed to restore %s: %w", name, err)
	}
	return nil
}

func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
