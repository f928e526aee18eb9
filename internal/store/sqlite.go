package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ecosdelseo/prospector/internal/model"
)

// SQLiteCheckpointer implements Checkpointer using modernc.org/sqlite.
type SQLiteCheckpointer struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteCheckpointer, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteCheckpointer{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS checkpoints (
	job_id     TEXT PRIMARY KEY,
	city       TEXT NOT NULL,
	snapshot   TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkpoints_updated_at ON checkpoints(updated_at);
`

func (s *SQLiteCheckpointer) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteCheckpointer) Close() error {
	return s.db.Close()
}

func (s *SQLiteCheckpointer) Save(ctx context.Context, job *model.Job) error {
	snapshot, err := json.Marshal(job)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal snapshot")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (job_id, city, snapshot, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET city = excluded.city, snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		job.ID, job.City, string(snapshot), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save checkpoint %s", job.ID)
}

func (s *SQLiteCheckpointer) Load(ctx context.Context, jobID string) (*model.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT snapshot, updated_at FROM checkpoints WHERE job_id = ?`,
		jobID,
	)
	return scanCheckpoint(row)
}

func (s *SQLiteCheckpointer) LoadMostRecent(ctx context.Context) (*model.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT snapshot, updated_at FROM checkpoints ORDER BY updated_at DESC LIMIT 1`,
	)
	return scanCheckpoint(row)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row scannable) (*model.Checkpoint, error) {
	var (
		snapshot  string
		updatedAt time.Time
	)
	err := row.Scan(&snapshot, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan checkpoint")
	}

	cp := &model.Checkpoint{UpdatedAt: updatedAt}
	if err := json.Unmarshal([]byte(snapshot), &cp.Job); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal snapshot")
	}
	return cp, nil
}
