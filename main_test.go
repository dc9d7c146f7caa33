package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricchart/internal/config"
	"metricchart/internal/fetchers"
	"metricchart/internal/logger"
	"metricchart/internal/mocks"
)

const dashboardYAML = `
title: Smoke
charts:
  - id: cpu
    metric: node.cpu
    buckets: 8
    timeRange: 30m
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(file, []byte(dashboardYAML), 0644))
	return &config.Config{
		Port:            "0",
		MockupMode:      true,
		DashboardFile:   file,
		RefreshSchedule: "@every 1m",
		ChartWidth:      300,
		ChartHeight:     120,
		StorageMode:     config.StorageLocal,
		ExportDir:       filepath.Join(dir, "exports"),
		Environment:     "test",
	}
}

func TestNewSource(t *testing.T) {
	cfg := &config.Config{MockupMode: true}
	_, ok := newSource(cfg).(*mocks.MockSource)
	assert.True(t, ok)

	cfg = &config.Config{MetricsURL: "http://metrics"}
	_, ok = newSource(cfg).(*fetchers.MetricsFetcher)
	assert.True(t, ok)
}

func TestSetupServesCharts(t *testing.T) {
	cfg := testConfig(t)
	srv, err := setup(context.Background(), cfg)
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, srv.Dashboard.RefreshAll(context.Background()))

	rr := httptest.NewRecorder()
	srv.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/cpu.svg", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.SetupRoutes().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestSetupMissingDashboard(t *testing.T) {
	cfg := testConfig(t)
	cfg.DashboardFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := setup(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSampleDashboardLoads(t *testing.T) {
	def, err := config.LoadDashboard("dashboard.yaml")
	require.NoError(t, err)
	require.Len(t, def.Charts, 3)
	assert.Equal(t, "rhqbar", def.Charts[1].Type)
	assert.NotNil(t, def.Charts[0].Forecast)
}

func TestLogFormat(t *testing.T) {
	tests := []struct {
		format, env string
		want        logger.LogFormat
	}{
		{"json", "development", logger.JSONFormat},
		{"text", "production", logger.TextFormat},
		{"auto", "production", logger.JSONFormat},
		{"auto", "development", logger.TextFormat},
	}
	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, logFormat(&config.Config{LogFormat: tt.format, Environment: tt.env}))
		})
	}
}
