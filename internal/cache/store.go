package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"reposcout/internal/domain"
	"reposcout/internal/eventbus"
)

// Store persists the most recent search result set. The orchestrator is its
// sole writer; after every ReplaceAll it publishes a ResultsCachedEvent with
// the full new snapshot so readers never have to poll.
type Store struct {
	db  *sql.DB
	bus eventbus.EventBus
}

// NewStore opens (creating if needed) the sqlite database at path and applies
// the schema. Pass ":memory:" for an ephemeral store.
func NewStore(path string, bus eventbus.EventBus) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache: sqlite path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: creating db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, bus: bus}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS repos (
        id INTEGER PRIMARY KEY,
        name TEXT NOT NULL,
        url TEXT NOT NULL,
        owner_login TEXT NOT NULL,
        pos INTEGER NOT NULL
    );`)
	if err != nil {
		return fmt.Errorf("cache: applying schema: %w", err)
	}
	return nil
}

// ReplaceAll atomically clears all prior rows and inserts the given set,
// preserving slice order. A reader can never observe the empty-then-partial
// intermediate state.
func (s *Store) ReplaceAll(ctx context.Context, repos []domain.Repo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM repos`); err != nil {
		return fmt.Errorf("cache: clearing repos: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO repos(id, name, url, owner_login, pos) VALUES(?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("cache: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range repos {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.URL, r.OwnerLogin, i); err != nil {
			return fmt.Errorf("cache: inserting repo %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit: %w", err)
	}

	if s.bus != nil {
		snapshot := make([]domain.Repo, len(repos))
		copy(snapshot, repos)
		s.bus.Publish(eventbus.ResultsCachedEvent{Repos: snapshot})
	}
	return nil
}

// All returns the current contents in insertion order.
func (s *Store) All(ctx context.Context) ([]domain.Repo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, owner_login FROM repos ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("cache: querying repos: %w", err)
	}
	defer rows.Close()

	var repos []domain.Repo
	for rows.Next() {
		var r domain.Repo
		if err := rows.Scan(&r.ID, &r.Name, &r.URL, &r.OwnerLogin); err != nil {
			return nil, fmt.Errorf("cache: scanning repo: %w", err)
		}
		repos = append(repos, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache: iterating repos: %w", err)
	}
	return repos, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
