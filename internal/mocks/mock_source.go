package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"metricchart/internal/fetchers"
	"metricchart/internal/models"
)

// emptyEvery marks every n-th generated bucket as having no samples
const emptyEvery = 7

// MockSource serves chart data from fixture files, falling back to
// deterministic synthetic series seeded by the metric name
type MockSource struct {
	fixturesDir string
}

// NewMockSource creates a mock source. fixturesDir may be empty.
func NewMockSource(fixturesDir string) *MockSource {
	return &MockSource{fixturesDir: fixturesDir}
}

// FetchBuckets returns <fixturesDir>/<metric>.json or a generated series
func (m *MockSource) FetchBuckets(ctx context.Context, q fetchers.Query) ([]models.BucketPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.fixturesDir != "" {
		path := filepath.Join(m.fixturesDir, q.Metric+".json")
		data, err := LoadBucketsFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return GenerateBuckets(q), nil
}

// FetchForecast returns <fixturesDir>/<metric>.forecast.json or a generated forecast
func (m *MockSource) FetchForecast(ctx context.Context, q fetchers.ForecastQuery) ([]models.PredictivePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.fixturesDir != "" {
		path := filepath.Join(m.fixturesDir, q.Metric+".forecast.json")
		data, err := LoadForecastFile(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return GenerateForecast(q, baseLevel(q.Metric)), nil
}

// GenerateBuckets builds a noisy daily-cycle series with periodic empty buckets
func GenerateBuckets(q fetchers.Query) []models.BucketPoint {
	if q.Buckets <= 0 || !q.End.After(q.Start) {
		return nil
	}
	rng := rand.New(rand.NewSource(seed(q.Metric)))
	width := q.End.Sub(q.Start) / time.Duration(q.Buckets)
	base := 20 + rng.Float64()*60

	out := make([]models.BucketPoint, q.Buckets)
	for i := range out {
		start := q.Start.Add(time.Duration(i) * width)
		b := models.BucketPoint{Start: start, End: start.Add(width)}
		if i%emptyEvery == emptyEvery-1 {
			b.Empty = true
			b.Avg, b.Min, b.Max, b.Median = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			out[i] = b
			continue
		}
		phase := float64(start.Unix()%86400) / 86400 * 2 * math.Pi
		avg := base + 15*math.Sin(phase) + rng.NormFloat64()*3
		spread := 2 + rng.Float64()*8
		b.Avg = round2(avg)
		b.Median = round2(avg + rng.NormFloat64())
		b.Min = round2(avg - spread*rng.Float64())
		b.Max = round2(avg + spread*rng.Float64())
		b.Samples = 1 + rng.Intn(30)
		out[i] = b
	}
	return out
}

// GenerateForecast continues from last with a widening confidence cone
func GenerateForecast(q fetchers.ForecastQuery, last float64) []models.PredictivePoint {
	if q.Points <= 0 || q.Ahead <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed(q.Metric) + 1))
	step := q.Ahead / time.Duration(q.Points)
	trend := rng.NormFloat64()

	out := make([]models.PredictivePoint, q.Points)
	for i := range out {
		v := last + trend*float64(i+1)
		width := 1 + float64(i)*0.8
		out[i] = models.PredictivePoint{
			Timestamp: q.From.Add(time.Duration(i+1) * step),
			Value:     round2(v),
			Min:       models.Float(round2(v - width)),
			Max:       models.Float(round2(v + width)),
		}
	}
	return out
}

// LoadBucketsFile reads a JSON array of buckets
func LoadBucketsFile(path string) ([]models.BucketPoint, error) {
	var data []models.BucketPoint
	if err := loadJSON(path, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadForecastFile reads a JSON array of predicted points
func LoadForecastFile(path string) ([]models.PredictivePoint, error) {
	var data []models.PredictivePoint
	if err := loadJSON(path, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadJSON(path string, out interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

func seed(metric string) int64 {
	h := fnv.New64a()
	h.Write([]byte(metric))
	return int64(h.Sum64() >> 1)
}

// baseLevel is the centre line GenerateBuckets uses for metric
func baseLevel(metric string) float64 {
	return 20 + rand.New(rand.NewSource(seed(metric))).Float64()*60
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
