// Package batch contains scheduled background jobs operating on greetings.
package batch

import (
	"context"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Counter is the subset of the greeting service consumed by batch jobs.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// GreetingReporter periodically logs how many greetings the store holds.
// A prometheus counter tracks how often the job has run.
type GreetingReporter struct {
	greetings Counter
	interval  time.Duration
	logger    logging.Logger
	runs      prometheus.Counter
}

// NewGreetingReporter constructs the reporter and registers its run counter
// with the given registerer.
func NewGreetingReporter(g Counter, interval time.Duration, l logging.Logger, reg prometheus.Registerer) *GreetingReporter {
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greetingws_batch_greeting_report_runs_total",
		Help: "Number of times the greeting report batch job has run.",
	})
	reg.MustRegister(runs)

	return &GreetingReporter{
		greetings: g,
		interval:  interval,
		logger:    l.With("module", "greeting_batch"),
		runs:      runs,
	}
}

// Run executes the job on a fixed interval until ctx is cancelled. It
// blocks, so callers start it on its own goroutine.
func (r *GreetingReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info(ctx, "greeting report job started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "greeting report job stopped")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

func (r *GreetingReporter) report(ctx context.Context) {
	r.runs.Inc()

	n, err := r.greetings.Count(ctx)
	if err != nil {
		r.logger.Error(ctx, "greeting report failed", "error", err.Error())
		return
	}
	r.logger.Info(ctx, "greeting report", "count", n)
}
