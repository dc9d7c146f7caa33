package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricchart/internal/config"
)

func TestGenerateExportFolderPath(t *testing.T) {
	tests := []struct {
		name      string
		timestamp time.Time
		expected  string
	}{
		{"standard", time.Date(2025, 9, 17, 14, 30, 45, 0, time.UTC), "2025/09/17/ChartExport-2025-09-17-14-30-45"},
		{"new year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025/01/01/ChartExport-2025-01-01-00-00-00"},
		{"leap day", time.Date(2024, 2, 29, 12, 15, 30, 0, time.UTC), "2024/02/29/ChartExport-2024-02-29-12-15-30"},
		{"converted to utc", time.Date(2025, 3, 5, 1, 7, 6, 0, time.FixedZone("EST", -5*3600)), "2025/03/05/ChartExport-2025-03-05-06-07-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateExportFolderPath(tt.timestamp))
		})
	}
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/svg+xml", GetContentType("cpu.svg"))
	assert.Equal(t, "image/png", GetContentType("a/b/cpu.PNG"))
	assert.Equal(t, "application/json", GetContentType(ManifestFile))
	assert.Equal(t, "application/octet-stream", GetContentType("blob"))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.StoreFile(ctx, "2025/09/17/x/cpu.svg", []byte("<svg/>")))
	data, err := client.GetFile(ctx, "2025/09/17/x/cpu.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	_, err = client.GetFile(ctx, "2025/09/17/x/missing.svg")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"../outside.svg", "a/../../b", "", "/"} {
		assert.Error(t, client.StoreFile(ctx, p, []byte("x")), p)
		_, err := client.GetFile(ctx, p)
		assert.Error(t, err, p)
	}
}

func TestLocalStorageListExports(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	stamps := []time.Time{
		time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 18, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 17, 11, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		folder := GenerateExportFolderPath(ts)
		require.NoError(t, client.StoreFile(ctx, folder+"/cpu.svg", []byte("<svg/>")))
		require.NoError(t, client.StoreFile(ctx, folder+"/"+ManifestFile, []byte("{}")))
	}
	// folders without a manifest are incomplete
	require.NoError(t, client.StoreFile(ctx, "2030/01/01/ChartExport-partial/cpu.svg", []byte("<svg/>")))

	all, err := client.ListExports(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		GenerateExportFolderPath(stamps[1]),
		GenerateExportFolderPath(stamps[2]),
		GenerateExportFolderPath(stamps[0]),
	}, all)

	latest, err := client.ListExports(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, all[:1], latest)
}

func TestNewStorageClient(t *testing.T) {
	cfg := &config.Config{StorageMode: config.StorageLocal, ExportDir: filepath.Join(t.TempDir(), "out")}
	client, err := NewStorageClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()
	assert.IsType(t, &LocalStorageClient{}, client)

	_, err = NewStorageClient(context.Background(), &config.Config{StorageMode: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage mode")
}
