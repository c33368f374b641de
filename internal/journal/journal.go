// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps an optional SQLite history of bundle requests.
// Nothing in the request path reads it back; it exists for operators.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/file-compressor/pkg/types"
)

// Journal records request outcomes. It is safe for concurrent use.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			time TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			archive_name TEXT,
			sources TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			upload_id INTEGER NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source_name TEXT NOT NULL,
			output_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			pages INTEGER,
			PRIMARY KEY (upload_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_status ON uploads(status)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one outcome with its outputs in a single transaction.
func (j *Journal) Record(ctx context.Context, o types.Outcome) error {
	if o.Time.IsZero() {
		o.Time = time.Now()
	}
	sourcesJSON, err := json.Marshal(o.Sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO uploads (time, status, error, archive_name, sources) VALUES (?, ?, ?, ?, ?)`,
		o.Time.UTC().Format(time.RFC3339Nano), string(o.Status), o.Error, o.ArchiveName, string(sourcesJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting upload: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading upload id: %w", err)
	}

	if len(o.Outputs) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO files (upload_id, position, source_name, output_name, kind, pages) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, out := range o.Outputs {
			if _, err := stmt.ExecContext(ctx, id, i, out.SourceName, out.OutputName, out.Kind, out.Pages); err != nil {
				return fmt.Errorf("inserting file %s: %w", out.OutputName, err)
			}
		}
	}

	return tx.Commit()
}

// List returns up to limit outcomes, newest first. limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]types.Outcome, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, time, status, error, archive_name, sources FROM uploads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	var outcomes []types.Outcome
	for rows.Next() {
		var (
			o                      types.Outcome
			ts, status             string
			errText, name, sources sql.NullString
		)
		if err := rows.Scan(&o.ID, &ts, &status, &errText, &name, &sources); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		if o.Time, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing time of upload %d: %w", o.ID, err)
		}
		o.Status = types.OutcomeStatus(status)
		o.Error = errText.String
		o.ArchiveName = name.String
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &o.Sources); err != nil {
				return nil, fmt.Errorf("decoding sources of upload %d: %w", o.ID, err)
			}
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range outcomes {
		if outcomes[i].Outputs, err = j.outputs(ctx, outcomes[i].ID); err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}

func (j *Journal) outputs(ctx context.Context, uploadID int64) ([]types.Output, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT source_name, output_name, kind, pages FROM files WHERE upload_id = ? ORDER BY position`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("querying files of upload %d: %w", uploadID, err)
	}
	defer rows.Close()

	var outputs []types.Output
	for rows.Next() {
		var out types.Output
		var pages sql.NullInt64
		if err := rows.Scan(&out.SourceName, &out.OutputName, &out.Kind, &pages); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		out.Pages = int(pages.Int64)
		outputs = append(outputs, out)
	}
	return outputs, rows.Err()
}
