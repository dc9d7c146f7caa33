package fetchers

import (
	"context"
	"fmt"
	"time"

	"metricchart/internal/logger"
	"metricchart/internal/models"
)

type bucketResult struct {
	data []models.BucketPoint
	err  error
}

type forecastResult struct {
	data []models.PredictivePoint
	err  error
}

// FetchChartData fetches buckets and, when fq is set, the forecast concurrently.
// A failed forecast is logged and dropped; a failed bucket fetch fails the call.
func FetchChartData(ctx context.Context, src Source, q Query, fq *ForecastQuery) (*ChartData, error) {
	log := logger.GetGlobalLogger().WithComponent("fetcher")
	log.Debug("Fetching chart data", map[string]interface{}{"metric": q.Metric, "buckets": q.Buckets})

	bucketChan := make(chan bucketResult, 1)
	forecastChan := make(chan forecastResult, 1)

	go func() {
		data, err := src.FetchBuckets(ctx, q)
		bucketChan <- bucketResult{data: data, err: err}
	}()

	pending := 1
	if fq != nil {
		pending++
		go func() {
			data, err := src.FetchForecast(ctx, *fq)
			forecastChan <- forecastResult{data: data, err: err}
		}()
	}

	result := &ChartData{}
	for pending > 0 {
		select {
		case r := <-bucketChan:
			if r.err != nil {
				return nil, fmt.Errorf("bucket fetch for %s failed: %w", q.Metric, r.err)
			}
			result.Buckets = r.data
			pending--
		case r := <-forecastChan:
			if r.err != nil {
				log.Warn("Forecast fetch failed, drawing without forecast", map[string]interface{}{
					"metric": q.Metric,
					"error":  r.err.Error(),
				})
			} else {
				result.Forecast = r.data
			}
			pending--
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	result.Fetched = time.Now()
	return result, nil
}
