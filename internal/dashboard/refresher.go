package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"metricchart/internal/logger"
)

// Refresher runs Dashboard.RefreshAll on a cron schedule
type Refresher struct {
	cron      *cron.Cron
	dashboard *Dashboard
	timeout   time.Duration
}

// NewRefresher schedules refreshes; spec accepts cron expressions and
// descriptors such as "@every 1m"
func NewRefresher(d *Dashboard, spec string, timeout time.Duration) (*Refresher, error) {
	r := &Refresher{
		cron:      cron.New(),
		dashboard: d,
		timeout:   timeout,
	}
	if _, err := r.cron.AddFunc(spec, r.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.dashboard.RefreshAll(ctx); err != nil {
		logger.Error("Scheduled refresh incomplete", err)
	}
}

// Start begins the schedule in its own goroutine
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish or ctx to expire
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
