package fetchers

import (
	"context"
	"errors"
	"time"

	"metricchart/internal/models"
)

// ErrUpstreamStatus is returned when the metrics backend answers with a non-2xx status
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// Query selects the bucketed statistics of one metric
type Query struct {
	Metric  string
	Start   time.Time
	End     time.Time
	Buckets int
}

// ForecastQuery selects predicted points after From
type ForecastQuery struct {
	Metric string
	From   time.Time
	Ahead  time.Duration
	Points int
}

// Source provides chart data
type Source interface {
	FetchBuckets(ctx context.Context, q Query) ([]models.BucketPoint, error)
	FetchForecast(ctx context.Context, q ForecastQuery) ([]models.PredictivePoint, error)
}

// ChartData is everything one chart redraw needs
type ChartData struct {
	Buckets  []models.BucketPoint
	Forecast []models.PredictivePoint
	Fetched  time.Time
}
