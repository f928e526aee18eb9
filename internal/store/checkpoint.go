package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/ecosdelseo/prospector/internal/config"
	"github.com/ecosdelseo/prospector/internal/model"
)

// Checkpointer persists full job snapshots. One snapshot exists per job
// identifier; Save replaces any prior snapshot for that id.
type Checkpointer interface {
	// Save upserts the snapshot for job.ID.
	Save(ctx context.Context, job *model.Job) error
	// Load returns the snapshot for a job id, or nil if none exists.
	Load(ctx context.Context, jobID string) (*model.Checkpoint, error)
	// LoadMostRecent returns the snapshot with the latest modification
	// time across all jobs, or nil if the store is empty.
	LoadMostRecent(ctx context.Context) (*model.Checkpoint, error)

	Migrate(ctx context.Context) error
	Close() error
}

// NewCheckpointer opens the configured checkpoint backend and runs
// migrations.
func NewCheckpointer(ctx context.Context, cfg config.CheckpointConfig) (Checkpointer, error) {
	var (
		cp  Checkpointer
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		cp, err = NewSQLite(cfg.Path)
	case "postgres":
		cp, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown checkpoint driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := cp.Migrate(ctx); err != nil {
		cp.Close()
		return nil, err
	}
	return cp, nil
}
