package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"metricchart/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{client: client, bucket: bucketName}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads data to gs://<bucket>/<objectPath>
func (g *GCSClient) StoreFile(ctx context.Context, objectPath string, data []byte) error {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	logger.Debug("Storing file to GCS", map[string]interface{}{"bucket": g.bucket, "object": p})

	writer := g.client.Bucket(g.bucket).Object(p).NewWriter(ctx)
	writer.ContentType = GetContentType(p)
	writer.CacheControl = "public, max-age=300"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
		"filename":     path.Base(p),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile downloads an object
func (g *GCSClient) GetFile(ctx context.Context, objectPath string) ([]byte, error) {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return nil, err
	}
	reader, err := g.client.Bucket(g.bucket).Object(p).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", p, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", p, err)
	}
	return data, nil
}

// ListExports lists export folders in the bucket, newest first
func (g *GCSClient) ListExports(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var folders []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if strings.HasSuffix(attrs.Name, "/"+ManifestFile) {
			folders = append(folders, path.Dir(attrs.Name))
		}
	}
	return newestFirst(folders, limit), nil
}
