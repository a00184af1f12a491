// Package store keeps a history of checks in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/causelist/internal/model"
)

// timeLayout sorts lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Check is one recorded check
type Check struct {
	ID          string
	QueryKind   model.QueryKind
	QueryKey    string
	CheckedDate string
	Method      model.Method
	Found       bool
	Serial      string
	Court       string
	Outcome     *model.CheckOutcome
	RecordedAt  time.Time
}

// ListOptions filters List
type ListOptions struct {
	Limit int
	Query string // Only checks for this CNR or case key
}

// SQLiteStore records checks in a SQLite database
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens the database at path, creating its directory, in WAL mode
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "sqlite: create directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS checks (
	id           TEXT PRIMARY KEY,
	query_kind   TEXT NOT NULL,
	query_key    TEXT NOT NULL,
	checked_date TEXT NOT NULL,
	method       TEXT NOT NULL DEFAULT '',
	found        INTEGER NOT NULL DEFAULT 0,
	serial       TEXT NOT NULL DEFAULT '',
	court        TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL,
	recorded_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checks_query_key ON checks(query_key);
CREATE INDEX IF NOT EXISTS idx_checks_recorded_at ON checks(recorded_at);
`

// Migrate creates the schema
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record stores the outcome and returns the new check
func (s *SQLiteStore) Record(ctx context.Context, outcome *model.CheckOutcome) (*Check, error) {
	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal outcome")
	}

	check := &Check{
		ID:          uuid.New().String(),
		QueryKind:   outcome.Query.Kind,
		QueryKey:    outcome.Query.Key(),
		CheckedDate: outcome.CheckedDate,
		Method:      outcome.Method,
		Found:       outcome.Found,
		Outcome:     outcome,
		RecordedAt:  s.now().UTC(),
	}
	if m, ok := outcome.First(); ok {
		check.Serial = m.Serial
		check.Court = m.Court
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checks (id, query_kind, query_key, checked_date, method, found, serial, court, outcome, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		check.ID, string(check.QueryKind), check.QueryKey, check.CheckedDate, string(check.Method),
		check.Found, check.Serial, check.Court, string(outcomeJSON), check.RecordedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert check")
	}
	return check, nil
}

// List returns recorded checks, newest first
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Check, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, query_kind, query_key, checked_date, method, found, serial, court, outcome, recorded_at FROM checks`
	var args []any
	if opts.Query != "" {
		query += ` WHERE query_key = ?`
		args = append(args, opts.Query)
	}
	query += ` ORDER BY recorded_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list checks")
	}
	defer func() { _ = rows.Close() }()

	var checks []Check
	for rows.Next() {
		var (
			c           Check
			kind        string
			method      string
			outcomeJSON string
			recordedAt  string
		)
		if err := rows.Scan(&c.ID, &kind, &c.QueryKey, &c.CheckedDate, &method, &c.Found, &c.Serial, &c.Court, &outcomeJSON, &recordedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan check")
		}
		c.QueryKind = model.QueryKind(kind)
		c.Method = model.Method(method)

		var outcome model.CheckOutcome
		if err := json.Unmarshal([]byte(outcomeJSON), &outcome); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode outcome %s", c.ID)
		}
		c.Outcome = &outcome

		c.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse recorded_at %s", c.ID)
		}
		checks = append(checks, c)
	}
	return checks, eris.Wrap(rows.Err(), "sqlite: iterate checks")
}
