package storage

import (
	"context"
	"fmt"

	"metricchart/internal/config"
)

// NewStorageClient creates the storage client selected by cfg.StorageMode
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch cfg.StorageMode {
	case config.StorageLocal, "":
		localClient, err := NewLocalStorageClient(cfg.ExportDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.StorageGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
}
