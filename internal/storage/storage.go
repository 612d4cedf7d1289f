package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

// Storage persists the board's job sequence as a single key-value blob.
type Storage interface {
	// Load returns the saved jobs. found is false when nothing was saved yet.
	Load(ctx context.Context) (jobs []job.Job, found bool, err error)
	// Save replaces the saved jobs with the full sequence.
	Save(ctx context.Context, jobs []job.Job) error
	Ping(ctx context.Context) error
	Close() error
}

type SQLiteStorage struct {
	db  *sql.DB
	key string
}

func NewSQLiteStorage(key string) *SQLiteStorage { return &SQLiteStorage{key: key} }

func (s *SQLiteStorage) Init(path string) error {
	if path == "" {
		path = "jobboard.db"
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return err
	}
	s.db = db
	if err := s.migrate(); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) migrate() error {
	q := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME
	);
	`
	_, err := s.db.Exec(q)
	return err
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]job.Job, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	jobs, err := Decode(blob)
	if err != nil {
		return nil, false, err
	}
	return jobs, true, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, jobs []job.Job) error {
	blob, err := Encode(jobs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO kv(key,value,updated_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		s.key, blob, time.Now().UTC())
	return err
}
