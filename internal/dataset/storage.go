package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"goclean/domain/core"
)

// StorageConfig configures local upload storage
type StorageConfig struct {
	BasePath    string // Base directory for stored uploads
	MaxFileSize int64  // Maximum file size in bytes
	ChunkSize   int    // Copy buffer size
}

// DefaultStorageConfig returns defaults matching the server configuration
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:    "uploads",
		MaxFileSize: 50 * 1024 * 1024, // 50MB
		ChunkSize:   1024 * 1024,      // 1MB
	}
}

// LocalFileStorage keeps uploads on the local filesystem under
// "<upload id>_<original name>" so a later request can refer to them
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1024 * 1024
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

// Store saves an upload and returns its reference
func (s *LocalFileStorage) Store(ctx context.Context, src io.Reader, filename string) (core.UploadID, error) {
	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", core.NewInputError("upload has no filename")
	}

	id := core.NewUploadID()
	filePath := filepath.Join(s.config.BasePath, id.String()+"_"+base)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	reader := src
	if s.config.MaxFileSize > 0 {
		reader = io.LimitReader(src, s.config.MaxFileSize+1)
	}
	buf := make([]byte, s.config.ChunkSize)
	n, err := io.CopyBuffer(destFile, reader, buf)
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	if s.config.MaxFileSize > 0 && n > s.config.MaxFileSize {
		os.Remove(filePath)
		return "", core.NewInputError(fmt.Sprintf("file exceeds %d MB limit", s.config.MaxFileSize/(1024*1024)))
	}
	return id, nil
}

func (s *LocalFileStorage) locate(id core.UploadID) (string, error) {
	if _, err := core.ParseUploadID(id.String()); err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(s.config.BasePath, id.String()+"_*"))
	if err != nil {
		return "", fmt.Errorf("failed to look up upload: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", core.ErrUploadNotFound, id)
	}
	return matches[0], nil
}

// Open returns a reader for a stored upload and its original filename
func (s *LocalFileStorage) Open(ctx context.Context, id core.UploadID) (io.ReadCloser, string, error) {
	filePath, err := s.locate(id)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", core.ErrUploadNotFound, id)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	name := strings.TrimPrefix(filepath.Base(filePath), id.String()+"_")
	return file, name, nil
}

// Delete removes an upload; deleting an unknown upload is not an error
func (s *LocalFileStorage) Delete(ctx context.Context, id core.UploadID) error {
	filePath, err := s.locate(id)
	if core.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if an upload is present in storage
func (s *LocalFileStorage) Exists(ctx context.Context, id core.UploadID) (bool, error) {
	_, err := s.locate(id)
	if core.IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
