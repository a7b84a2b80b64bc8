package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"heraldo/internal/state"
)

func init() {
	state.RegisterFactory("sqlite", New)
}

// schema is applied directly when no migrations directory ships with the
// deployment.
const schema = `
CREATE TABLE IF NOT EXISTS announce_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type SQLiteStore struct {
	conn *sql.DB
}

func New(opts state.Options) (state.Store, error) {
	slog.Info("Initializing SQLite state store", "path", opts.Path)

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", opts.Path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("State store initialized successfully")

	return &SQLiteStore{conn: conn}, nil
}

func runMigrations(conn *sql.DB) error {
	slog.Debug("Running database migrations")

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	migrationsDir := filepath.Join("db", "migrations")
	if _, err := os.Stat(migrationsDir); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Migrations directory not found, applying schema directly", "path", migrationsDir)
			if _, execErr := conn.Exec(schema); execErr != nil {
				return fmt.Errorf("failed to apply schema: %w", execErr)
			}
			return nil
		}
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	if err := goose.Up(conn, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Migrations completed successfully")
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (state.State, error) {
	var document string
	err := s.conn.QueryRowContext(ctx, `SELECT document FROM announce_state WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return state.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var st state.State
	if err := json.Unmarshal([]byte(document), &st); err != nil {
		return nil, fmt.Errorf("failed to decode state document: %w", err)
	}

	return st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st state.State) error {
	document, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state document: %w", err)
	}

	query := `
		INSERT INTO announce_state (id, document, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.conn.ExecContext(ctx, query, string(document)); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM announce_state WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
