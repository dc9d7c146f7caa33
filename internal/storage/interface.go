package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetFile when the object does not exist
var ErrNotFound = errors.New("file not found")

// StorageClient stores exported chart files
type StorageClient interface {
	// Close releases the underlying client
	Close() error

	// StoreFile writes data at objectPath, creating parent folders as needed
	StoreFile(ctx context.Context, objectPath string, data []byte) error

	// GetFile reads the object at objectPath
	GetFile(ctx context.Context, objectPath string) ([]byte, error)

	// ListExports returns export folders, newest first. limit <= 0 means all.
	ListExports(ctx context.Context, limit int) ([]string, error)
}
