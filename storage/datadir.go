package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Data folder errors
var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFileExists      = errors.New("a file with this name already exists")
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileInfo describes a stored resume
type FileInfo struct {
	Name string
	Size int64
}

// DataDir manages the local resume folder the index is built from
type DataDir struct {
	dir string
}

// NewDataDir creates the folder when missing
func NewDataDir(dir string) (*DataDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}
	return &DataDir{dir: dir}, nil
}

// Dir returns the folder path
func (d *DataDir) Dir() string {
	return d.dir
}

// SanitizeFilename keeps a base name of ASCII letters, digits, dot, dash
// and underscore
func SanitizeFilename(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "", ErrInvalidFilename
	}
	return name, nil
}

// Save writes r under the sanitized name and returns that name. It never
// replaces an existing file, so two uploads that sanitize to the same name
// fail with ErrFileExists instead of overwriting each other.
func (d *DataDir) Save(name string, r io.Reader) (string, error) {
	safe, err := SanitizeFilename(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Link(tmp.Name(), filepath.Join(d.dir, safe)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, safe)
		}
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return safe, nil
}

// List returns the visible files in the folder, sorted by name
func (d *DataDir) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data folder: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Exists reports whether a file is present
func (d *DataDir) Exists(name string) bool {
	safe, err := SanitizeFilename(name)
	if err != nil || safe != name {
		return false
	}
	info, err := os.Stat(filepath.Join(d.dir, safe))
	return err == nil && !info.IsDir()
}

// Delete removes a file
func (d *DataDir) Delete(name string) error {
	safe, err := SanitizeFilename(name)
	if err != nil || safe != name {
		return ErrNotFound
	}
	if err := os.Remove(filepath.Join(d.dir, safe)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
