package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"sjsage522/jobworker/logger"
	"sjsage522/jobworker/services/pipeline"
)

// Run pairs a pipeline with the seed query it crawls
type Run struct {
	Pipeline *pipeline.Pipeline
	Seed     pipeline.Seed
}

// Worker schedules crawl runs on a fixed interval. Sources run in
// parallel, each with its own pipeline, fetch session and pagination
// state; within one source everything is strictly sequential.
type Worker struct {
	ctx      context.Context
	runs     []Run
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, runs []Run, interval time.Duration) *Worker {
	return &Worker{
		ctx:      ctx,
		runs:     runs,
		interval: interval,
		log:      logger.ForWorker(),
	}
}

// Start runs crawl cycles until the context is cancelled
func (w *Worker) Start() error {
	for {
		start := time.Now()
		w.runAll()
		w.log.Info().Dur("elapsed", time.Since(start)).Msg("crawl cycle finished")

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// runAll runs every configured seed query in parallel
func (w *Worker) runAll() {
	var wg sync.WaitGroup
	for _, r := range w.runs {
		wg.Add(1)
		go func(r Run) {
			defer wg.Done()
			w.runOne(r)
		}(r)
	}
	wg.Wait()
}

// runOne runs a single seed query and logs its stats
func (w *Worker) runOne(r Run) {
	stats, err := r.Pipeline.Run(w.ctx, r.Seed)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Error().Err(err).Str("source", string(r.Seed.Source)).Msg("crawl run aborted")
		}
		return
	}

	w.log.Info().
		Str("source", string(r.Seed.Source)).
		Int("pages", stats.Pages).
		Int("seen", stats.Seen).
		Int("skipped", stats.Skipped).
		Int("persisted", stats.Persisted).
		Int("published", stats.Published).
		Int("notified", stats.Notified).
		Msg("seed query finished")
}
