package fetchers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricchart/internal/models"
)

var testOptions = FetcherOptions{Timeout: 5 * time.Second}

func TestFetchBuckets(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	end := start.Add(time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hawkular/metrics/gauges/cpu%20usage/stats", r.URL.EscapedPath())
		assert.Equal(t, "60", r.URL.Query().Get("buckets"))
		assert.Equal(t, "1700000000000", r.URL.Query().Get("start"))
		assert.Equal(t, "1700003600000", r.URL.Query().Get("end"))
		assert.Equal(t, "ops", r.Header.Get(TenantHeader))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"start":1700000000000,"end":1700000060000,"min":1,"avg":2,"median":2,"max":4,"samples":3,"empty":false},
			{"start":1700000060000,"end":1700000120000,"empty":true}
		]`))
	}))
	defer server.Close()

	f := NewMetricsFetcherWithOptions(server.URL+"/hawkular/metrics/", "ops", "", testOptions)
	data, err := f.FetchBuckets(context.Background(), Query{Metric: "cpu usage", Start: start, End: end, Buckets: 60})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, 4.0, data[0].Max)
	assert.Equal(t, 3, data[0].Samples)
	assert.True(t, data[1].IsEmpty())
}

func TestFetchBucketsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	f := NewMetricsFetcherWithOptions(server.URL, "", "", testOptions)
	data, err := f.FetchBuckets(context.Background(), Query{Metric: "m", Buckets: 10})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFetchBucketsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		want    string
	}{
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrUpstreamStatus, want: "500"},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrUpstreamStatus, want: "404"},
		{name: "bad json", status: http.StatusOK, body: `{"not":"a list"`, want: "failed to parse response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			f := NewMetricsFetcherWithOptions(server.URL, "", "", testOptions)
			_, err := f.FetchBuckets(context.Background(), Query{Metric: "m", Buckets: 10})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFetchForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast/cpu", r.URL.Path)
		assert.Equal(t, "3600000", r.URL.Query().Get("ahead"))
		assert.Equal(t, "5", r.URL.Query().Get("points"))
		w.Write([]byte(`[{"timestamp":1700000000000,"value":3,"min":2,"max":5},{"timestamp":1700000060000,"value":4}]`))
	}))
	defer server.Close()

	f := NewMetricsFetcherWithOptions(server.URL, "", server.URL+"/forecast", testOptions)
	data, err := f.FetchForecast(context.Background(), ForecastQuery{Metric: "cpu", From: time.Now(), Ahead: time.Hour, Points: 5})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.True(t, data[0].HasBounds())
	assert.False(t, data[1].HasBounds())

	// no forecast endpoint configured
	f = NewMetricsFetcherWithOptions(server.URL, "", "", testOptions)
	data, err = f.FetchForecast(context.Background(), ForecastQuery{Metric: "cpu"})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewMetricsFetcherWithOptions(server.URL, "", "", testOptions)
	_, err := f.FetchBuckets(ctx, Query{Metric: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

type stubSource struct {
	buckets     []models.BucketPoint
	bucketErr   error
	forecast    []models.PredictivePoint
	forecastErr error
	forecasts   int
}

func (s *stubSource) FetchBuckets(context.Context, Query) ([]models.BucketPoint, error) {
	return s.buckets, s.bucketErr
}

func (s *stubSource) FetchForecast(context.Context, ForecastQuery) ([]models.PredictivePoint, error) {
	s.forecasts++
	return s.forecast, s.forecastErr
}

func TestFetchChartData(t *testing.T) {
	buckets := []models.BucketPoint{{Avg: 1, Min: 1, Max: 1}}
	forecast := []models.PredictivePoint{{Value: 2}}

	src := &stubSource{buckets: buckets, forecast: forecast}
	data, err := FetchChartData(context.Background(), src, Query{Metric: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, buckets, data.Buckets)
	assert.Nil(t, data.Forecast)
	assert.Equal(t, 0, src.forecasts)
	assert.False(t, data.Fetched.IsZero())

	data, err = FetchChartData(context.Background(), src, Query{Metric: "m"}, &ForecastQuery{Metric: "m"})
	require.NoError(t, err)
	assert.Equal(t, forecast, data.Forecast)

	// a broken forecast does not fail the chart
	src.forecastErr = errors.New("boom")
	data, err = FetchChartData(context.Background(), src, Query{Metric: "m"}, &ForecastQuery{Metric: "m"})
	require.NoError(t, err)
	assert.Equal(t, buckets, data.Buckets)
	assert.Nil(t, data.Forecast)

	src.bucketErr = ErrUpstreamStatus
	_, err = FetchChartData(context.Background(), src, Query{Metric: "m"}, nil)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
}
