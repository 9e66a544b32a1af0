package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"vantage/internal/domain"
	"vantage/internal/repository"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("database path is required")
	}

	dsn := MemoryPath
	if dbPath != MemoryPath {
		dsn = filepath.Clean(dbPath) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS view_seeds (
		session TEXT NOT NULL,
		domain_id TEXT NOT NULL,
		tool_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (session, domain_id, tool_id)
	);

	CREATE INDEX IF NOT EXISTS idx_view_seeds_created ON view_seeds(created_at);

	CREATE TABLE IF NOT EXISTS action_events (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		domain_id TEXT NOT NULL,
		tool_id TEXT NOT NULL,
		session TEXT,
		format TEXT,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_action_events_occurred ON action_events(occurred_at);
	CREATE INDEX IF NOT EXISTS idx_action_events_view ON action_events(domain_id, tool_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// GetSeed returns the memoized seed of a session's view
func (r *Repository) GetSeed(ctx context.Context, session string, key domain.ViewKey) (uint64, bool, error) {
	var seed int64
	err := r.db.QueryRowContext(ctx, `
		SELECT seed FROM view_seeds
		WHERE session = ? AND domain_id = ? AND tool_id = ?
	`, session, key.DomainID, key.ToolID).Scan(&seed)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query seed: %w", err)
	}
	return uint64(seed), true, nil
}

// PutSeed stores a session's seed for a view and returns the seed that is
// stored afterwards. An existing seed is kept, so concurrent writers agree on
// the first one stored.
func (r *Repository) PutSeed(ctx context.Context, session string, key domain.ViewKey, seed uint64) (uint64, error) {
	var stored int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO view_seeds (session, domain_id, tool_id, seed, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session, domain_id, tool_id) DO UPDATE SET seed = view_seeds.seed
		RETURNING seed
	`, session, key.DomainID, key.ToolID, int64(seed), nowMillis()).Scan(&stored)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed: %w", err)
	}
	return uint64(stored), nil
}

// DeleteSeeds forgets every seed of a session and returns how many there were
func (r *Repository) DeleteSeeds(ctx context.Context, session string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM view_seeds WHERE session = ?`, session)
	if err != nil {
		return 0, fmt.Errorf("failed to delete seeds: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted seeds: %w", err)
	}
	return n, nil
}

// PruneSeeds forgets every seed stored before the given time
func (r *Repository) PruneSeeds(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM view_seeds WHERE created_at < ?`, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune seeds: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned seeds: %w", err)
	}
	return n, nil
}

// CountSeeds returns the number of memoized seeds
func (r *Repository) CountSeeds(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM view_seeds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count seeds: %w", err)
	}
	return n, nil
}

// RecordAction appends an action event
func (r *Repository) RecordAction(ctx context.Context, ev *domain.ActionEvent) error {
	if ev == nil || ev.ID == "" {
		return errors.New("action event requires an id")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO action_events (id, kind, domain_id, tool_id, session, format, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, actionInsertArgs(ev)...)
	if err != nil {
		return fmt.Errorf("failed to insert action event: %w", err)
	}
	return nil
}

// GetAction returns a single action event by ID
func (r *Repository) GetAction(ctx context.Context, id string) (*domain.ActionEvent, error) {
	var row actionRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, domain_id, tool_id, session, format, occurred_at
		FROM action_events WHERE id = ?
	`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("action %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query action event: %w", err)
	}
	ev := row.toDomain()
	return &ev, nil
}

// ListActions returns matching action events, newest first
func (r *Repository) ListActions(ctx context.Context, filter repository.ActionFilter) ([]domain.ActionEvent, error) {
	query, args := buildActionQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query action events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.ActionEvent, 0)
	for rows.Next() {
		var row actionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan action event: %w", err)
		}
		events = append(events, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action events: %w", err)
	}

	return events, nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
