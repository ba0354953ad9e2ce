package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "postgres" driver.
	_ "github.com/lib/pq"
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS alarm_kv (
	namespace TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
)`

	selectValueQuery = `SELECT value FROM alarm_kv WHERE namespace = $1 AND key = $2`

	upsertValueQuery = `INSERT INTO alarm_kv (namespace, key, value) VALUES ($1, $2, $3)
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value`
)

// PostgresStore keeps values in the alarm_kv table keyed by (namespace, key).
type PostgresStore struct {
	db        *sql.DB
	namespace string
}

// OpenPostgresStore opens the database, verifies the connection and creates the table if needed.
func OpenPostgresStore(ctx context.Context, dsn, namespace string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := NewPostgresStore(db, namespace)
	if err = store.EnsureSchema(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	return store, nil
}

// NewPostgresStore wraps an already opened database.
func NewPostgresStore(db *sql.DB, namespace string) *PostgresStore {
	return &PostgresStore{
		db:        db,
		namespace: namespace,
	}
}

// EnsureSchema creates the alarm_kv table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("create alarm_kv table: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, selectValueQuery, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("select %s: %w", key, err)
	}

	return value, true, nil
}

// Set upserts value under key.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertValueQuery, s.namespace, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	return nil
}

// Close closes the database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
