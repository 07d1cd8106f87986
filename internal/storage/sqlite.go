package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/jwebster45206/badge-adventure/pkg/storage"
)

// SQLiteStore emulates the badge's flash preferences with a single-file
// database, so a desktop badge survives restarts.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
);`

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:" for
// a throwaway store.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("Opened SQLite preferences", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", mapSQLClosed(err))
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE namespace = ? AND key = ?`, namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("SQLite read failed", "namespace", namespace, "key", key, "error", err)
		return "", false, fmt.Errorf("sqlite get failed: %w", mapSQLClosed(err))
	}
	return v, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, namespace, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value
	`, namespace, key, value)
	if err != nil {
		s.logger.Error("SQLite write failed", "namespace", namespace, "key", key, "error", err)
		return fmt.Errorf("sqlite put failed: %w", mapSQLClosed(err))
	}
	return nil
}

func (s *SQLiteStore) HasKey(ctx context.Context, namespace, key string) (bool, error) {
	_, ok, err := s.Get(ctx, namespace, key)
	return ok, err
}

func (s *SQLiteStore) Clear(ctx context.Context, namespace string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("sqlite clear failed: %w", mapSQLClosed(err))
	}
	return nil
}

func mapSQLClosed(err error) error {
	if err != nil && err.Error() == "sql: database is closed" {
		return storage.ErrClosed
	}
	return err
}
