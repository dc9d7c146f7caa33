package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"metricchart/internal/models"
)

// TenantHeader carries the metrics tenant on every request
const TenantHeader = "Hawkular-Tenant"

// MetricsFetcher reads bucketed gauge statistics and forecasts over HTTP
type MetricsFetcher struct {
	client      *resty.Client
	baseURL     string
	forecastURL string
}

// FetcherOptions tune the HTTP client
type FetcherOptions struct {
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// DefaultFetcherOptions are used by NewMetricsFetcher
var DefaultFetcherOptions = FetcherOptions{
	Timeout:    30 * time.Second,
	RetryCount: 3,
	RetryWait:  2 * time.Second,
}

// NewMetricsFetcher creates a fetcher for the given backend
func NewMetricsFetcher(baseURL, tenant, forecastURL string) *MetricsFetcher {
	return NewMetricsFetcherWithOptions(baseURL, tenant, forecastURL, DefaultFetcherOptions)
}

// NewMetricsFetcherWithOptions creates a fetcher with explicit client settings
func NewMetricsFetcherWithOptions(baseURL, tenant, forecastURL string, opts FetcherOptions) *MetricsFetcher {
	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(opts.RetryWait)
	client.SetHeader("Accept", "application/json")
	if tenant != "" {
		client.SetHeader(TenantHeader, tenant)
	}

	return &MetricsFetcher{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		forecastURL: strings.TrimRight(forecastURL, "/"),
	}
}

// FetchBuckets fetches q.Buckets statistics buckets between q.Start and q.End
func (f *MetricsFetcher) FetchBuckets(ctx context.Context, q Query) ([]models.BucketPoint, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"buckets": strconv.Itoa(q.Buckets),
			"start":   strconv.FormatInt(q.Start.UnixMilli(), 10),
			"end":     strconv.FormatInt(q.End.UnixMilli(), 10),
		}).
		Get(fmt.Sprintf("%s/gauges/%s/stats", f.baseURL, url.PathEscape(q.Metric)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch buckets for %s: %w", q.Metric, err)
	}

	var data []models.BucketPoint
	if err := decode(resp, &data); err != nil {
		return nil, fmt.Errorf("metric %s: %w", q.Metric, err)
	}
	return data, nil
}

// FetchForecast fetches q.Points predicted points covering q.Ahead after q.From
func (f *MetricsFetcher) FetchForecast(ctx context.Context, q ForecastQuery) ([]models.PredictivePoint, error) {
	if f.forecastURL == "" {
		return nil, nil
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from":   strconv.FormatInt(q.From.UnixMilli(), 10),
			"ahead":  strconv.FormatInt(q.Ahead.Milliseconds(), 10),
			"points": strconv.Itoa(q.Points),
		}).
		Get(fmt.Sprintf("%s/%s", f.forecastURL, url.PathEscape(q.Metric)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast for %s: %w", q.Metric, err)
	}

	var data []models.PredictivePoint
	if err := decode(resp, &data); err != nil {
		return nil, fmt.Errorf("forecast %s: %w", q.Metric, err)
	}
	return data, nil
}

// decode unmarshals a 2xx JSON body; 204 leaves out untouched
func decode(resp *resty.Response, out interface{}) error {
	status := resp.StatusCode()
	if status == http.StatusNoContent {
		return nil
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %d", ErrUpstreamStatus, status)
	}
	if len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
