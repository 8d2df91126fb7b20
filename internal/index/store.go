// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps extracted vacancies in a SQLite database so they can
// be searched and exported across many gazette issues.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gazette-vacancies/internal/vacancy"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

const dbFile = "vacancies.db"

// Extractor produces the vacancy records of one gazette.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (vacancy.Result, error)
}

// Store manages the vacancy index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// fts is false when the SQLite build lacks FTS5; text queries then fall
	// back to substring matching.
	fts bool
}

// NewStore opens or creates the index database at cfg.Dir/vacancies.db.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			grammar TEXT,
			vacancies INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			indexed_at TEXT,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS vacancies (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			client TEXT,
			job_title TEXT,
			classification TEXT,
			location TEXT,
			body TEXT NOT NULL,
			fields TEXT NOT NULL,
			UNIQUE(document_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vacancies_code ON vacancies(code)`,
		`CREATE INDEX IF NOT EXISTS idx_vacancies_classification ON vacancies(classification)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='vacancies_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	_, err := s.db.Exec(`CREATE VIRTUAL TABLE vacancies_fts USING fts5(body, content=vacancies, content_rowid=rowid)`)
	if err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}
	triggers := []string{
		`CREATE TRIGGER vacancies_ai AFTER INSERT ON vacancies BEGIN
			INSERT INTO vacancies_fts(rowid, body) VALUES (new.rowid, new.body);
		END`,
		`CREATE TRIGGER vacancies_ad AFTER DELETE ON vacancies BEGIN
			INSERT INTO vacancies_fts(vacancies_fts, rowid, body) VALUES('delete', old.rowid, old.body);
		END`,
		`CREATE TRIGGER vacancies_au AFTER UPDATE ON vacancies BEGIN
			INSERT INTO vacancies_fts(vacancies_fts, rowid, body) VALUES('delete', old.rowid, old.body);
			INSERT INTO vacancies_fts(rowid, body) VALUES (new.rowid, new.body);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS triggers: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Summary holds counts from an indexing run.
type Summary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of gazettes processed.
func (s Summary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// DocumentID derives the document key from a gazette path: its base name
// without extension.
func DocumentID(pdfPath string) string {
	return strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
}

// Index extracts each gazette and stores its vacancies. Gazettes whose
// modification time matches the last indexing run are skipped; changed
// ones replace their earlier records. On success with any changes, the
// index is exported to export.yaml.
func (s *Store) Index(ctx context.Context, pdfPaths []string, ex Extractor, w io.Writer) (Summary, error) {
	var summary Summary

	for _, p := range pdfPaths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		id := DocumentID(p)

		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", id, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM documents WHERE id = ?`, id,
		).Scan(&stored)
		if err == nil && stored == modTime {
			fmt.Fprintf(w, "skipped  %s\n", id)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		res, err := ex.Extract(ctx, p)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		if err := s.storeDocument(ctx, id, p, res, modTime); err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated  %s (%d vacancies)\n", id, len(res.Vacancies))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed  %s (%d vacancies)\n", id, len(res.Vacancies))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) storeDocument(ctx context.Context, id, pdfPath string, res vacancy.Result, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vacancies WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("deleting old vacancies: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, path, grammar, vacancies, dropped, indexed_at, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path=excluded.path, grammar=excluded.grammar, vacancies=excluded.vacancies,
			dropped=excluded.dropped, indexed_at=excluded.indexed_at,
			file_mod_time=excluded.file_mod_time`,
		id, pdfPath, res.Grammar, len(res.Vacancies), res.Dropped,
		time.Now().UTC().Format(time.RFC3339), modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vacancies (code, document_id, position, client, job_title, classification, location, body, fields)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range res.Vacancies {
		fields, err := v.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding vacancy %s: %w", v.Value(types.FieldVacancy), err)
		}
		_, err = stmt.ExecContext(ctx,
			v.Value(types.FieldVacancy), id, i,
			v.Value(types.FieldClient), v.Value(types.FieldJobTitle),
			v.Value(types.FieldClassification), v.Value(types.FieldLocation),
			searchBody(v), string(fields),
		)
		if err != nil {
			return fmt.Errorf("inserting vacancy %s: %w", v.Value(types.FieldVacancy), err)
		}
	}

	return tx.Commit()
}

// searchBody is the text indexed for full-text search: every field value,
// one per line.
func searchBody(v types.Vacancy) string {
	var b strings.Builder
	for _, k := range v.Keys() {
		b.WriteString(v.Value(k))
		b.WriteByte('\n')
	}
	return b.String()
}
