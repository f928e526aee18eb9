package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ecosdelseo/prospector/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the checkpointer. pgxmock
// satisfies it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresCheckpointer implements Checkpointer using pgxpool.
type PostgresCheckpointer struct {
	pool Pool
}

// preparedStatements lists queries to prepare on each new connection.
// Checkpoint saves run on every 20-record threshold, so the upsert is the
// hot path.
var preparedStatements = map[string]string{
	"save_checkpoint": `INSERT INTO checkpoints (job_id, city, snapshot, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_id) DO UPDATE SET city = EXCLUDED.city, snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`,
	"load_checkpoint": `SELECT snapshot, updated_at FROM checkpoints WHERE job_id = $1`,
	"load_latest":     `SELECT snapshot, updated_at FROM checkpoints ORDER BY updated_at DESC LIMIT 1`,
}

// NewPostgres creates a PostgresCheckpointer with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresCheckpointer, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresCheckpointer{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS checkpoints (
	job_id     TEXT PRIMARY KEY,
	city       TEXT NOT NULL,
	snapshot   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkpoints_updated_at ON checkpoints(updated_at);
`

func (s *PostgresCheckpointer) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresCheckpointer) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresCheckpointer) Save(ctx context.Context, job *model.Job) error {
	snapshot, err := json.Marshal(job)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal snapshot")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO checkpoints (job_id, city, snapshot, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id) DO UPDATE SET city = EXCLUDED.city, snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`,
		job.ID, job.City, snapshot, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save checkpoint %s", job.ID)
}

func (s *PostgresCheckpointer) Load(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT snapshot, updated_at FROM checkpoints WHERE job_id = $1`,
		jobID,
	)
	return scanPgCheckpoint(row)
}

func (s *PostgresCheckpointer) LoadMostRecent(ctx context.Context) (*model.Checkpoint, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT snapshot, updated_at FROM checkpoints ORDER BY updated_at DESC LIMIT 1`,
	)
	return scanPgCheckpoint(row)
}

func scanPgCheckpoint(row pgx.Row) (*model.Checkpoint, error) {
	var (
		snapshot  []byte
		updatedAt time.Time
	)
	err := row.Scan(&snapshot, &updatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan checkpoint")
	}

	cp := &model.Checkpoint{UpdatedAt: updatedAt}
	if err := json.Unmarshal(snapshot, &cp.Job); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal snapshot")
	}
	return cp, nil
}
