package ports

import (
	"context"
	"io"

	"goclean/domain/core"
	"goclean/domain/table"
)

// FileStorage keeps uploaded files between preview and process
type FileStorage interface {
	Store(ctx context.Context, r io.Reader, filename string) (core.UploadID, error)
	Open(ctx context.Context, id core.UploadID) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id core.UploadID) error
}

// DatasetReader parses a raw upload into a dataset
type DatasetReader interface {
	Read(ctx context.Context, r io.Reader, filename string) (*table.Dataset, error)
}
