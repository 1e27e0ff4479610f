// Package storage is the local audit store: per-cycle history and
// data-quality events. It is write-only telemetry; aggregates are always
// recomputed from the live snapshot and never read back from here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS poll_cycles (
  id           INTEGER PRIMARY KEY,
  source       TEXT NOT NULL,
  fetched_at   DATETIME NOT NULL,
  duration_ms  INTEGER NOT NULL DEFAULT 0,
  raw_rows     INTEGER NOT NULL DEFAULT 0,
  day_rows     INTEGER NOT NULL DEFAULT 0,
  reported     INTEGER NOT NULL DEFAULT 0,
  completed    INTEGER NOT NULL DEFAULT 0,
  pending      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cycles_source_time ON poll_cycles(source, fetched_at);
CREATE TABLE IF NOT EXISTS quality_events (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL,
  source       TEXT NOT NULL,
  kind         TEXT NOT NULL CHECK (kind IN ('universe_mismatch','order_tiebreak','unparsable_timestamp')),
  ward         TEXT,
  detail       TEXT
);
CREATE INDEX IF NOT EXISTS idx_quality_time ON quality_events(occurred_at);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Timestamps are stored as UTC text in sqlite's own layout so reads do
// not depend on the driver's time binding.
const timeLayout = "2006-01-02 15:04:05"

// RecordCycle appends one poll cycle's summary.
func (d *DB) RecordCycle(ctx context.Context, c CycleStat) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO poll_cycles(source, fetched_at, duration_ms, raw_rows, day_rows, reported, completed, pending) VALUES(?,?,?,?,?,?,?,?)`,
		c.Source, c.FetchedAt.UTC().Format(timeLayout), c.Duration.Milliseconds(), c.RawRows, c.DayRows, c.Reported, c.Completed, c.Pending)
	return err
}

// RecordQualityEvents appends data-quality signals in one transaction.
func (d *DB) RecordQualityEvents(ctx context.Context, events []QualityEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range events {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO quality_events(occurred_at, source, kind, ward, detail) VALUES(?,?,?,?,?)`,
			e.OccurredAt.UTC().Format(timeLayout), e.Source, e.Kind, nullIfEmpty(e.Ward), nullIfEmpty(e.Detail)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListCycles returns the most recent cycles, newest first.
func (d *DB) ListCycles(ctx context.Context, limit int) ([]CycleStat, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT source, fetched_at, duration_ms, raw_rows, day_rows, reported, completed, pending FROM poll_cycles ORDER BY fetched_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleStat
	for rows.Next() {
		var c CycleStat
		var fetchedAt string
		var durationMS int64
		if err := rows.Scan(&c.Source, &fetchedAt, &durationMS, &c.RawRows, &c.DayRows, &c.Reported, &c.Completed, &c.Pending); err != nil {
			return nil, err
		}
		if c.FetchedAt, err = parseSQLiteTime(fetchedAt); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListQualityEvents returns the most recent quality events, newest first.
func (d *DB) ListQualityEvents(ctx context.Context, limit int) ([]QualityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT occurred_at, source, kind, ward, detail FROM quality_events ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QualityEvent
	for rows.Next() {
		var e QualityEvent
		var occurredAt string
		var ward, detail sql.NullString
		if err := rows.Scan(&occurredAt, &e.Source, &e.Kind, &ward, &detail); err != nil {
			return nil, err
		}
		if e.OccurredAt, err = parseSQLiteTime(occurredAt); err != nil {
			return nil, err
		}
		e.Ward = ward.String
		e.Detail = detail.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// parseSQLiteTime handles the storage formats the driver may hand back.
// An unrecognized format is an error so a driver change cannot silently
// zero every listed timestamp.
func parseSQLiteTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05.999999999-07:00", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized sqlite time %q", s)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
