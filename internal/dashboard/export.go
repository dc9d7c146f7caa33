package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"metricchart/internal/storage"
)

// ExportResult describes one stored export
type ExportResult struct {
	Folder string    `json:"folder"`
	Files  []string  `json:"files"`
	At     time.Time `json:"at"`
}

type manifest struct {
	Title   string        `json:"title"`
	At      time.Time     `json:"at"`
	Version string        `json:"version"`
	Charts  []ChartStatus `json:"charts"`
}

// Export stores the SVG and PNG of every chart plus a manifest in a new
// timestamped folder. The manifest is written last.
func (d *Dashboard) Export(ctx context.Context, store storage.StorageClient, version string) (*ExportResult, error) {
	at := d.now().UTC()
	result := &ExportResult{Folder: storage.GenerateExportFolderPath(at), At: at}

	put := func(name string, data []byte) error {
		objectPath := path.Join(result.Folder, name)
		if err := store.StoreFile(ctx, objectPath, data); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
		result.Files = append(result.Files, objectPath)
		return nil
	}

	for _, c := range d.charts {
		svg, err := c.SVG()
		if err != nil {
			return nil, err
		}
		if err := put(c.Spec.ID+".svg", svg); err != nil {
			return nil, err
		}
		png, err := c.PNG()
		if err != nil {
			return nil, err
		}
		if err := put(c.Spec.ID+".png", png); err != nil {
			return nil, err
		}
	}

	m, err := json.MarshalIndent(manifest{Title: d.Title, At: at, Version: version, Charts: d.Statuses()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := put(storage.ManifestFile, m); err != nil {
		return nil, err
	}

	d.log.Info("Dashboard exported", map[string]interface{}{"folder": result.Folder, "files": len(result.Files)})
	return result, nil
}
