/*
scheduler.go - Automated payroll scheduler

PURPOSE:
  Periodically pays every employee (company.PayAll) so a long-running
  server can act as a payroll clock without an external cron.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Does NOT run on start; the first run happens one interval later
  - Keeps the last run result for GET /api/payroll/schedule
  - A failed run is logged and retried on the next tick

CONFIGURATION:
  - Interval: How often to run (cmd/server -pay-interval, 0 disables)

USAGE:
  scheduler := NewPayrollScheduler(company, logger, 24*time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RunPayroll endpoint (manual run)
  - company/company.go: PayAll
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/payroll-engine/company"
)

// PayrollScheduler runs payroll on a fixed interval.
type PayrollScheduler struct {
	Company  *company.Company
	Interval time.Duration

	logger  *slog.Logger
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun time.Time
	nextRun time.Time
	last    *PayrollRunResponse
}

// NewPayrollScheduler creates a new scheduler. It does nothing until Start.
func NewPayrollScheduler(c *company.Company, logger *slog.Logger, interval time.Duration) *PayrollScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollScheduler{
		Company:  c,
		Interval: interval,
		logger:   logger,
	}
}

// Start begins the scheduler. A non-positive interval leaves it disabled.
func (ps *PayrollScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.Interval <= 0 {
		ps.logger.Info("payroll scheduler disabled")
		return
	}
	if ps.ticker != nil {
		return
	}

	ps.ticker = time.NewTicker(ps.Interval)
	ps.stop = make(chan struct{})
	ps.nextRun = time.Now().Add(ps.Interval)
	ps.wg.Add(1)

	go ps.run(ps.ticker, ps.stop)

	ps.logger.Info("payroll scheduler started", "interval", ps.Interval.String())
}

// Stop stops the scheduler and waits for an in-flight run to finish.
func (ps *PayrollScheduler) Stop() {
	ps.mu.Lock()
	if ps.ticker == nil {
		ps.mu.Unlock()
		return
	}
	ps.ticker.Stop()
	close(ps.stop)
	ps.ticker = nil
	ps.mu.Unlock()

	ps.wg.Wait()
	ps.logger.Info("payroll scheduler stopped")
}

func (ps *PayrollScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer ps.wg.Done()

	for {
		select {
		case <-ticker.C:
			ps.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow pays every employee immediately and records the result.
func (ps *PayrollScheduler) RunNow(ctx context.Context) PayrollRunResponse {
	summaries, err := ps.Company.PayAll(ctx)
	resp := toPayrollRunResponse(summaries, err)

	if err != nil {
		ps.logger.Error("scheduled payroll run failed",
			"paid", len(summaries),
			"error", err,
		)
	}

	ps.mu.Lock()
	ps.lastRun = time.Now()
	if ps.ticker != nil {
		ps.nextRun = ps.lastRun.Add(ps.Interval)
	}
	ps.last = &resp
	ps.mu.Unlock()

	return resp
}

// Status reports the scheduler state.
func (ps *PayrollScheduler) Status() ScheduleDTO {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	dto := ScheduleDTO{
		Enabled: ps.ticker != nil,
		LastRun: ps.last,
	}
	if ps.Interval > 0 {
		dto.Interval = ps.Interval.String()
	}
	if !ps.lastRun.IsZero() {
		dto.LastRunAt = ps.lastRun.Format(time.RFC3339)
	}
	if dto.Enabled {
		dto.NextRunAt = ps.nextRun.Format(time.RFC3339)
	}
	return dto
}
