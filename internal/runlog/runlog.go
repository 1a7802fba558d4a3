// Package runlog persists a history of landscape renders in SQLite so
// repeated runs over the same loss matrices can be compared later.
package runlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the render history database.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the render history database at path. Use
// ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return &DB{db}, nil
}

// EnsureSchema creates the renders table when it does not exist. Versioned
// deployments should prefer MigrateUp; this covers ad hoc local use.
func (db *DB) EnsureSchema() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS renders (
			render_id      TEXT PRIMARY KEY,
			source_path    TEXT NOT NULL,
			rows           INTEGER NOT NULL,
			cols           INTEGER NOT NULL,
			min_non_zero   DOUBLE NOT NULL,
			non_finite     INTEGER NOT NULL,
			duration_ms    BIGINT NOT NULL,
			output_html    TEXT,
			output_png     TEXT,
			created_at     BIGINT NOT NULL
		);
	`)
	return err
}

// Render is one recorded invocation of the landscape renderer.
type Render struct {
	RenderID   string  `json:"render_id"`
	SourcePath string  `json:"source_path"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	MinNonZero float64 `json:"min_non_zero"`
	NonFinite  int     `json:"non_finite"`
	DurationMs int64   `json:"duration_ms"`
	OutputHTML string  `json:"output_html,omitempty"`
	OutputPNG  string  `json:"output_png,omitempty"`
	CreatedAt  int64   `json:"created_at"`
}

// InsertRender persists a render record. If RenderID is empty, a UUID is
// generated. If CreatedAt is zero, the current time is used.
func (db *DB) InsertRender(r *Render) error {
	if r.RenderID == "" {
		r.RenderID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixNano()
	}

	_, err := db.Exec(`
		INSERT INTO renders (
			render_id, source_path, rows, cols, min_non_zero,
			non_finite, duration_ms, output_html, output_png, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RenderID, r.SourcePath, r.Rows, r.Cols, r.MinNonZero,
		r.NonFinite, r.DurationMs, r.OutputHTML, r.OutputPNG, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert render %s: %w", r.RenderID, err)
	}
	return nil
}

// ListRenders returns the most recent render records, newest first.
func (db *DB) ListRenders(limit int) ([]Render, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT render_id, source_path, rows, cols, min_non_zero,
		       non_finite, duration_ms, output_html, output_png, created_at
		FROM renders
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list renders: %w", err)
	}
	defer rows.Close()

	var out []Render
	for rows.Next() {
		var r Render
		if err := rows.Scan(
			&r.RenderID, &r.SourcePath, &r.Rows, &r.Cols, &r.MinNonZero,
			&r.NonFinite, &r.DurationMs, &r.OutputHTML, &r.OutputPNG, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
