// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
  pref_key   TEXT PRIMARY KEY,
  pref_value TEXT NOT NULL,
  updated_at DATETIME NOT NULL
);`

	postgresSchema = `
CREATE TABLE IF NOT EXISTS preferences (
  pref_key   TEXT PRIMARY KEY,
  pref_value TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`

	// ON CONFLICT upserts are understood by both SQLite (3.24+) and PostgreSQL.
	upsertPreference = `
INSERT INTO preferences (pref_key, pref_value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (pref_key) DO UPDATE SET
 pref_value=EXCLUDED.pref_value,
 updated_at=EXCLUDED.updated_at`

	selectPreference = `SELECT pref_value FROM preferences WHERE pref_key = ?`
	deletePreference = `DELETE FROM preferences WHERE pref_key = ?`
)

// SQLBackend stores values in a single preferences table through sqlx.
// Queries are written with ? placeholders and rebound per driver.
type SQLBackend struct {
	db  *sqlx.DB
	now func() time.Time
}

// OpenSQLite opens a modernc SQLite database at path and creates the table.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLBackend, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer, and every :memory: connection is a
	// separate database.
	db.SetMaxOpenConns(1)
	return newSQLBackend(ctx, db, sqliteSchema)
}

// OpenPostgres connects to PostgreSQL with dsn and creates the table.
func OpenPostgres(ctx context.Context, dsn string) (*SQLBackend, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return newSQLBackend(ctx, db, postgresSchema)
}

func newSQLBackend(ctx context.Context, db *sqlx.DB, schema string) (*SQLBackend, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", db.DriverName(), err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &SQLBackend{db: db, now: time.Now}, nil
}

func (s *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(selectPreference), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(upsertPreference), key, string(value), s.now().UTC())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(deletePreference), key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Close() error {
	return s.db.Close()
}
