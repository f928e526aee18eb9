package main

import (
	"context"

	"github.com/ecosdelseo/prospector/internal/mailer"
	"github.com/ecosdelseo/prospector/internal/pipeline"
	"github.com/ecosdelseo/prospector/internal/scheduler"
	"github.com/ecosdelseo/prospector/internal/store"
	"github.com/ecosdelseo/prospector/pkg/extractor"
)

// env bundles the wired application components.
type env struct {
	Jobs        *store.JobStore
	Checkpoints store.Checkpointer
	Runner      *pipeline.Runner
	Scheduler   *scheduler.Scheduler
}

// initEnv wires stores, the extractor client, the runner, and the
// scheduler from configuration.
func initEnv(ctx context.Context) (*env, error) {
	checkpoints, err := store.NewCheckpointer(ctx, cfg.Checkpoint)
	if err != nil {
		return nil, err
	}

	jobs := store.NewJobStore()

	ext := extractor.NewClient(cfg.Extractor.BaseURL, cfg.Extractor.Key,
		extractor.WithRateLimit(cfg.Extractor.RequestsPerSec),
	)

	runner := pipeline.NewRunner(cfg.Search, jobs, checkpoints, ext)
	sched := scheduler.New(runner, mailer.New(cfg.SMTP), jobs)

	return &env{
		Jobs:        jobs,
		Checkpoints: checkpoints,
		Runner:      runner,
		Scheduler:   sched,
	}, nil
}

// Close releases held resources.
func (e *env) Close() {
	e.Scheduler.Stop()
	_ = e.Checkpoints.Close()
}
