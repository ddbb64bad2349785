// Package gamelog records bootstrap runs and monitor frames in SQLite.
package gamelog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/naosoccer/internal/monitor"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	params TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	recorded_at INTEGER NOT NULL,
	items TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS frames_run_seq ON frames (run_id, seq);
`

// Run is a recorded bootstrap.
type Run struct {
	ID        string
	StartedAt time.Time
	Params    map[string]map[string]any
}

// Store provides SQLite-backed run and frame persistence. A Store records
// frames for one run at a time; see SetRun.
type Store struct {
	sqlDB *sql.DB
	runID string
}

// Open opens a game log and creates its tables.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := MemoryPath
	if path != MemoryPath {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == MemoryPath {
		// every connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// StartRun records a bootstrap run and makes it the target of Record.
func (s *Store) StartRun(ctx context.Context, runID string, at time.Time, snapshot map[string]map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, params) VALUES (?, ?, ?)`,
		runID, at.UTC().UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	s.runID = runID
	return nil
}

// Record persists one monitor frame. It implements monitor.FrameSink.
func (s *Store) Record(ctx context.Context, f *monitor.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.runID == "" {
		return fmt.Errorf("no run started")
	}
	raw, err := json.Marshal(f.Items)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Seq, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO frames (run_id, seq, recorded_at, items) VALUES (?, ?, ?, ?)`,
		s.runID, int64(f.Seq), f.At.UTC().UnixMilli(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("record frame %d: %w", f.Seq, err)
	}
	return nil
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT run_id, started_at, params FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			started int64
			raw     string
		)
		if err := rows.Scan(&r.ID, &started, &raw); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		if err := json.Unmarshal([]byte(raw), &r.Params); err != nil {
			return nil, fmt.Errorf("decode params of run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Frames returns up to limit frames of runID, oldest first.
func (s *Store) Frames(ctx context.Context, runID string, limit int) ([]monitor.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, recorded_at, items FROM frames WHERE run_id = ? ORDER BY seq ASC LIMIT ?`,
		runID, limit)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var out []monitor.Frame
	for rows.Next() {
		var (
			f   monitor.Frame
			seq int64
			at  int64
			raw string
		)
		if err := rows.Scan(&seq, &at, &raw); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		f.Seq = uint64(seq)
		f.At = time.UnixMilli(at).UTC()
		if err := json.Unmarshal([]byte(raw), &f.Items); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", f.Seq, err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
