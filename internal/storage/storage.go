// Package storage abstracts blob storage for fetched artifact snapshots.
// The daemon archives the metadata snapshot each score was computed from, so
// an audit can be inspected or re-scored later without refetching.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Client stores and retrieves artifact snapshots, keyed by job and model.
type Client interface {
	PutSnapshot(ctx context.Context, jobID, model string, data []byte) error
	GetSnapshot(ctx context.Context, jobID, model string) ([]byte, error)
}

// LocalStorage implements Client on the local filesystem. Useful for
// development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

// snapshotKey flattens a model ID into a single path segment; model IDs
// contain slashes.
func snapshotKey(jobID, model string) string {
	return jobID + "/" + strings.ReplaceAll(model, "/", "_") + ".json"
}

func (s *LocalStorage) path(jobID, model string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(snapshotKey(jobID, model)))
}

// PutSnapshot stores a snapshot blob.
func (s *LocalStorage) PutSnapshot(ctx context.Context, jobID, model string, data []byte) error {
	path := s.path(jobID, model)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetSnapshot retrieves a snapshot blob.
func (s *LocalStorage) GetSnapshot(ctx context.Context, jobID, model string) ([]byte, error) {
	return os.ReadFile(s.path(jobID, model))
}
