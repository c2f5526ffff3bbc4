package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
  log_id      TEXT    NOT NULL,
  stable_id   TEXT    NOT NULL,
  name        TEXT    NOT NULL,
  team        TEXT    NOT NULL,
  batching    INTEGER NOT NULL,
  scale       REAL    NOT NULL,
  total_score REAL    NOT NULL,
  peak_score  REAL    NOT NULL,
  groups_n    INTEGER NOT NULL,
  noteworthy  TEXT    NOT NULL,
  created_at  INTEGER NOT NULL,
  PRIMARY KEY (log_id, stable_id)
);
CREATE INDEX IF NOT EXISTS summaries_rank ON summaries (log_id, total_score DESC, stable_id ASC);
`

const columns = `log_id, stable_id, name, team, batching, scale, total_score, peak_score, groups_n, noteworthy, created_at`

// SQLiteStore persists summaries in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens path, creating the schema when missing.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrInvalid)
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sum Summary) error {
	start := time.Now()
	defer observe("put", start)

	if err := sum.validate(); err != nil {
		return err
	}
	moments, err := json.Marshal(sum.Noteworthy)
	if err != nil {
		return fmt.Errorf("encode moments: %w", err)
	}
	if sum.CreatedAt.IsZero() {
		sum.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO summaries (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (log_id, stable_id) DO UPDATE SET
		   name = excluded.name,
		   team = excluded.team,
		   batching = excluded.batching,
		   scale = excluded.scale,
		   total_score = excluded.total_score,
		   peak_score = excluded.peak_score,
		   groups_n = excluded.groups_n,
		   noteworthy = excluded.noteworthy,
		   created_at = excluded.created_at`,
		sum.LogID, sum.StableID, sum.Name, sum.Team, sum.Batching, sum.Scale,
		sum.TotalScore, sum.PeakScore, sum.Groups, string(moments), sum.CreatedAt.UnixMilli(),
	)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "sqlite_write")
		return fmt.Errorf("put summary: %w", err)
	}
	metrics.RecordRepositoryWrite()
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, logID, stableID string) (Summary, error) {
	start := time.Now()
	defer observe("get", start)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM summaries WHERE log_id = ? AND stable_id = ?`, logID, stableID)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Summary{}, ErrNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("get summary: %w", err)
	}
	return sum, nil
}

func (s *SQLiteStore) TopN(ctx context.Context, logID string, n int) ([]Entry, error) {
	start := time.Now()
	defer observe("top_n", start)

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM summaries WHERE log_id = ?
		 ORDER BY total_score DESC, stable_id ASC LIMIT ?`, logID, n)
	if err != nil {
		return nil, fmt.Errorf("top summaries: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, Entry{Summary: sum})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top summaries: %w", err)
	}
	assignRanks(out)
	return out, nil
}

func (s *SQLiteStore) Count(ctx context.Context, logID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM summaries WHERE log_id = ?`, logID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries: %w", err)
	}
	return n, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (Summary, error) {
	var (
		sum     Summary
		moments string
		created int64
	)
	if err := sc.Scan(&sum.LogID, &sum.StableID, &sum.Name, &sum.Team, &sum.Batching, &sum.Scale,
		&sum.TotalScore, &sum.PeakScore, &sum.Groups, &moments, &created); err != nil {
		return Summary{}, err
	}
	if err := json.Unmarshal([]byte(moments), &sum.Noteworthy); err != nil {
		return Summary{}, fmt.Errorf("decode moments: %w", err)
	}
	if sum.Noteworthy == nil {
		sum.Noteworthy = []timeline.Moment{}
	}
	sum.CreatedAt = time.UnixMilli(created).UTC()
	return sum, nil
}
