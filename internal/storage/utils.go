package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// ManifestFile marks a complete export folder
const ManifestFile = "manifest.json"

// GenerateExportFolderPath generates a consistent folder path for exports
// Format: YYYY/MM/DD/ChartExport-YYYY-MM-DD-HH-MM-SS
func GenerateExportFolderPath(timestamp time.Time) string {
	ts := timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/ChartExport-%s",
		ts.Year(), ts.Month(), ts.Day(), ts.Format("2006-01-02-15-04-05"))
}

var contentTypes = map[string]string{
	".json": "application/json",
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".md":   "text/markdown",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// newestFirst sorts export folders by their timestamped names and applies limit
func newestFirst(folders []string, limit int) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders
}

// cleanObjectPath normalises objectPath and rejects paths escaping the root
func cleanObjectPath(objectPath string) (string, error) {
	p := path.Clean("/" + strings.ReplaceAll(objectPath, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "", fmt.Errorf("invalid object path %q", objectPath)
	}
	if strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("object path %q escapes the storage root", objectPath)
	}
	return p, nil
}
