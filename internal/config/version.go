package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const defaultVersion = "0.1.0"

// GetVersion returns the version from APP_VERSION, the build info or the VERSION file
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return versionFromFile()
}

func versionFromFile() string {
	for _, p := range []string{"VERSION", filepath.Join("..", "VERSION"), filepath.Join("..", "..", "VERSION")} {
		if content, err := os.ReadFile(p); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return defaultVersion
}
