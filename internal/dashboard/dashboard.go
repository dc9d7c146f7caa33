package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"metricchart/internal/config"
	"metricchart/internal/fetchers"
	"metricchart/internal/logger"
)

// ErrChartNotFound is returned when no chart has the requested id
var ErrChartNotFound = errors.New("chart not found")

// Dashboard is the ordered set of charts served by the service
type Dashboard struct {
	Title string

	charts []*Chart
	byID   map[string]*Chart
	source fetchers.Source
	now    func() time.Time
	log    *logger.Logger
}

// New creates a dashboard for every chart of def
func New(def *config.DashboardFile, src fetchers.Source, width, height int) (*Dashboard, error) {
	d := &Dashboard{
		Title:  def.Title,
		byID:   make(map[string]*Chart, len(def.Charts)),
		source: src,
		now:    time.Now,
		log:    logger.GetGlobalLogger().WithComponent("dashboard"),
	}
	if d.Title == "" {
		d.Title = "Metrics"
	}
	for _, spec := range def.Charts {
		c, err := NewChart(spec, width, height)
		if err != nil {
			return nil, err
		}
		d.charts = append(d.charts, c)
		d.byID[spec.ID] = c
	}
	return d, nil
}

// SetClock replaces the time source used for fetch windows
func (d *Dashboard) SetClock(now func() time.Time) {
	d.now = now
}

// Charts returns the charts in definition order
func (d *Dashboard) Charts() []*Chart {
	return append([]*Chart(nil), d.charts...)
}

// Chart returns the chart with the given id
func (d *Dashboard) Chart(id string) (*Chart, error) {
	c, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return c, nil
}

// Statuses returns the status of every chart
func (d *Dashboard) Statuses() []ChartStatus {
	return lo.Map(d.charts, func(c *Chart, _ int) ChartStatus { return c.Status() })
}

// Refresh refreshes a single chart
func (d *Dashboard) Refresh(ctx context.Context, id string) error {
	c, err := d.Chart(id)
	if err != nil {
		return err
	}
	return c.Refresh(ctx, d.source, d.now())
}

// RefreshAll refreshes every chart concurrently. Failed charts keep their
// previous scene; the joined error lists them.
func (d *Dashboard) RefreshAll(ctx context.Context) error {
	start := time.Now()
	now := d.now()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, c := range d.charts {
		wg.Add(1)
		go func(c *Chart) {
			defer wg.Done()
			if err := c.Refresh(ctx, d.source, now); err != nil {
				d.log.Error("Chart refresh failed", err, map[string]interface{}{"chart": c.Spec.ID})
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", c.Spec.ID, err))
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()

	d.log.Info("Dashboard refreshed", map[string]interface{}{
		"charts":   len(d.charts),
		"failed":   len(errs),
		"duration": time.Since(start).String(),
	})
	return errors.Join(errs...)
}
