package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Index is an in-memory SQLite table of catalog entries keyed by their
// position in the upstream listing. It is never persisted.
type Index struct {
	db *sql.DB
}

// NewIndex opens an empty index.
func NewIndex() (*Index, error) {
	db, err := openDB("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("catalog: open index: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE problems (
			position    INTEGER PRIMARY KEY,
			frontend_id TEXT    NOT NULL UNIQUE,
			title       TEXT    NOT NULL,
			slug        TEXT    NOT NULL,
			difficulty  TEXT    NOT NULL DEFAULT ''
		);
		CREATE INDEX idx_problems_slug ON problems(slug);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Load inserts entries in order. An entry whose frontend id is already
// present is skipped, so the first occurrence wins.
func (x *Index) Load(ctx context.Context, entries []leetcode.CatalogEntry) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO problems (position, frontend_id, title, slug, difficulty)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(frontend_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("catalog: prepare load: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, i, e.QuestionFrontendID, e.Title, e.TitleSlug, string(e.Difficulty)); err != nil {
			return fmt.Errorf("catalog: insert %s: %w", e.TitleSlug, err)
		}
	}
	return tx.Commit()
}

// Slug returns the slug for a frontend id.
func (x *Index) Slug(ctx context.Context, frontendID string) (string, bool, error) {
	var slug string
	err := x.db.QueryRowContext(ctx,
		"SELECT slug FROM problems WHERE frontend_id = ?", frontendID).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("catalog: lookup id %s: %w", frontendID, err)
	}
	return slug, true, nil
}

// Search returns up to limit entries whose title or slug contains query,
// ignoring case, in catalog order.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]leetcode.CatalogEntry, error) {
	q := strings.ToLower(query)
	rows, err := x.db.QueryContext(ctx, `
		SELECT frontend_id, title, slug, difficulty
		FROM problems
		WHERE instr(lower(title), ?) > 0 OR instr(lower(slug), ?) > 0
		ORDER BY position
		LIMIT ?`, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches := []leetcode.CatalogEntry{}
	for rows.Next() {
		var e leetcode.CatalogEntry
		var difficulty string
		if err := rows.Scan(&e.QuestionFrontendID, &e.Title, &e.TitleSlug, &difficulty); err != nil {
			return nil, err
		}
		e.Difficulty = leetcode.Difficulty(difficulty)
		matches = append(matches, e)
	}
	return matches, rows.Err()
}

// Len returns the number of indexed entries.
func (x *Index) Len(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM problems").Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (x *Index) Close() error {
	return x.db.Close()
}
