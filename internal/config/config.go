package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sethvargo/go-envconfig"
)

// Storage modes
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the chart service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Metrics backend
	MetricsURL    string `env:"METRICS_URL"`
	MetricsTenant string `env:"METRICS_TENANT"`
	ForecastURL   string `env:"FORECAST_URL"`
	MockupMode    bool   `env:"MOCKUP_MODE,default=false"`
	FixturesDir   string `env:"MOCK_FIXTURES_DIR"`

	// Dashboard
	DashboardFile   string `env:"DASHBOARD_FILE,default=./dashboard.yaml"`
	RefreshSchedule string `env:"REFRESH_SCHEDULE,default=@every 1m"`
	ChartWidth      int    `env:"CHART_WIDTH,default=750"`
	ChartHeight     int    `env:"CHART_HEIGHT,default=250"`

	// Export storage
	StorageMode string `env:"STORAGE_MODE,default=local"`
	ExportDir   string `env:"EXPORT_DIR,default=./exports"`
	GCSBucket   string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`

	// Upper bound for one scheduled refresh of all charts
	RefreshTimeout time.Duration `env:"REFRESH_TIMEOUT,default=30s"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageMode {
	case StorageLocal:
		if c.ExportDir == "" {
			errs = append(errs, errors.New("EXPORT_DIR is required for local storage"))
		}
	case StorageGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required for gcs storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_MODE %q", c.StorageMode))
	}
	if !c.MockupMode && c.MetricsURL == "" {
		errs = append(errs, errors.New("METRICS_URL is required unless MOCKUP_MODE is set"))
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid chart size %dx%d", c.ChartWidth, c.ChartHeight))
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
