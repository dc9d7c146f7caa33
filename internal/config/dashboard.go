package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"metricchart/internal/charts"
	"metricchart/internal/shape"
)

// Dashboard defaults
const (
	DefaultChartType = "histogram"
	DefaultBuckets   = 60
	DefaultTimeRange = 8 * time.Hour
)

// Duration is a time.Duration read from strings such as "90m", "8h" or "7d"
type Duration time.Duration

// UnmarshalYAML parses the duration with day and week units allowed
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := str2duration.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ForecastSpec enables the forecast overlay for a chart
type ForecastSpec struct {
	Ahead  Duration `yaml:"ahead"`
	Points int      `yaml:"points"`
}

// ChartSpec is one chart of the dashboard file
type ChartSpec struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Metric        string        `yaml:"metric"`
	Type          string        `yaml:"type"`
	Stacked       bool          `yaml:"stacked"`
	HideHighLow   bool          `yaml:"hideHighLow"`
	Interpolation string        `yaml:"interpolation"`
	Buckets       int           `yaml:"buckets"`
	TimeRange     Duration      `yaml:"timeRange"`
	Forecast      *ForecastSpec `yaml:"forecast"`
	Description   string        `yaml:"description"`
}

// DashboardFile is the parsed dashboard definition
type DashboardFile struct {
	Title  string      `yaml:"title"`
	Charts []ChartSpec `yaml:"charts"`
}

// LoadDashboard reads and validates a dashboard definition
func LoadDashboard(path string) (*DashboardFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard file: %w", err)
	}
	return ParseDashboard(content)
}

// ParseDashboard decodes a dashboard definition and fills in defaults
func ParseDashboard(content []byte) (*DashboardFile, error) {
	var d DashboardFile
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard file: %w", err)
	}

	seen := map[string]bool{}
	var errs []error
	for i := range d.Charts {
		c := &d.Charts[i]
		c.applyDefaults()
		if err := c.validate(); err != nil {
			errs = append(errs, fmt.Errorf("chart %d: %w", i, err))
			continue
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("chart %d: duplicate id %q", i, c.ID))
		}
		seen[c.ID] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &d, nil
}

func (c *ChartSpec) applyDefaults() {
	if c.Type == "" {
		c.Type = DefaultChartType
	}
	if c.Buckets <= 0 {
		c.Buckets = DefaultBuckets
	}
	if c.TimeRange <= 0 {
		c.TimeRange = Duration(DefaultTimeRange)
	}
	if c.Title == "" {
		c.Title = c.ID
	}
	if c.Forecast != nil && c.Forecast.Points <= 0 {
		c.Forecast.Points = 10
	}
}

func (c *ChartSpec) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Metric == "" {
		return fmt.Errorf("%s: metric is required", c.ID)
	}
	if _, err := charts.Lookup(c.Type); err != nil {
		return fmt.Errorf("%s: %w", c.ID, err)
	}
	if c.Interpolation != "" && !shape.Known(c.Interpolation) {
		return fmt.Errorf("%s: unknown interpolation %q", c.ID, c.Interpolation)
	}
	if c.Forecast != nil && c.Forecast.Ahead <= 0 {
		return fmt.Errorf("%s: forecast.ahead must be positive", c.ID)
	}
	return nil
}

// BucketWidth is the duration covered by each bucket
func (c ChartSpec) BucketWidth() time.Duration {
	return c.TimeRange.Std() / time.Duration(c.Buckets)
}
