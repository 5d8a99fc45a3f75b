// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records completed conversions in a SQLite database so
// batch runs can skip inputs that have not changed, and so past runs can be
// listed and exported.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/org2opml/pkg/types"
)

// DefaultFile is the database file name used under the data directory.
const DefaultFile = "manifest.db"

const defaultListLimit = 50

// Store manages the conversion manifest database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the manifest database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			input_sha256 TEXT NOT NULL,
			settings_sha256 TEXT NOT NULL DEFAULT '',
			title TEXT,
			node_count INTEGER NOT NULL,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_input ON conversions(input_path)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_time ON conversions(converted_at)`,
		`CREATE TABLE IF NOT EXISTS latest (
			input_path TEXT PRIMARY KEY,
			conversion_id TEXT NOT NULL REFERENCES conversions(id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return s.ensureColumn("conversions", "settings_sha256", `TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn adds a column missing from a table created by an older
// version of the schema.
func (s *Store) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("reading %s columns: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scanning %s columns: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	if _, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return nil
}

// Record stores a conversion and marks it as the latest for its input.
// An empty ID is replaced with a new UUID; a zero ConvertedAt with now.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversions (id, input_path, output_path, input_sha256, settings_sha256, title, node_count, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.OutputPath, rec.InputSHA256, rec.SettingsSHA256, rec.Title, rec.NodeCount,
		rec.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO latest (input_path, conversion_id) VALUES (?, ?)
		 ON CONFLICT(input_path) DO UPDATE SET conversion_id=excluded.conversion_id`,
		rec.InputPath, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating latest conversion: %w", err)
	}

	return tx.Commit()
}

// Latest returns the most recent record for inputPath, or nil when the
// input has never been converted.
func (s *Store) Latest(ctx context.Context, inputPath string) (*types.ConversionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT c.id, c.input_path, c.output_path, c.input_sha256, c.settings_sha256, c.title, c.node_count, c.converted_at
		 FROM latest l JOIN conversions c ON c.id = l.conversion_id
		 WHERE l.input_path = ?`, inputPath)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", inputPath, err)
	}
	return rec, nil
}

// Unchanged reports whether the latest conversion of key.InputPath had the
// same input and settings digests and wrote to key.OutputPath.
func (s *Store) Unchanged(ctx context.Context, key types.ConversionRecord) (bool, error) {
	rec, err := s.Latest(ctx, key.InputPath)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	return rec.InputSHA256 == key.InputSHA256 &&
		rec.SettingsSHA256 == key.SettingsSHA256 &&
		rec.OutputPath == key.OutputPath, nil
}

// List returns up to limit records, newest first. A limit of 0 or less
// uses the default of 50.
func (s *Store) List(ctx context.Context, limit int) ([]types.ConversionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, output_path, input_sha256, settings_sha256, title, node_count, converted_at
		 FROM conversions ORDER BY converted_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	records := []types.ConversionRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*types.ConversionRecord, error) {
	var (
		rec   types.ConversionRecord
		title sql.NullString
		ts    string
	)
	if err := row.Scan(&rec.ID, &rec.InputPath, &rec.OutputPath, &rec.InputSHA256,
		&rec.SettingsSHA256, &title, &rec.NodeCount, &ts); err != nil {
		return nil, err
	}
	rec.Title = title.String

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parsing converted_at %q: %w", ts, err)
	}
	rec.ConvertedAt = t
	return &rec, nil
}
