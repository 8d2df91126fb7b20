// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is a full-text search string over all field values.
	Query string

	// Client filters by a case-insensitive substring of the client.
	Client string

	// Classification filters by exact classification.
	Classification string

	// Document filters by document ID.
	Document string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Client == "" && q.Classification == "" && q.Document == ""
}

// QueryResult is a stored vacancy with the document it came from.
type QueryResult struct {
	Document string        `json:"document" yaml:"document"`
	Vacancy  types.Vacancy `json:"vacancy" yaml:"vacancy"`
}

// Query searches the index. Full-text queries are ranked by relevance;
// filter-only queries are ordered by document and position.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(
			`SELECT v.document_id, v.fields
			FROM vacancies_fts
			JOIN vacancies v ON v.rowid = vacancies_fts.rowid
			WHERE vacancies_fts MATCH ?`)
		args = append(args, ftsQuery(opts.Query))
	case opts.Query != "":
		qb.WriteString(`SELECT v.document_id, v.fields FROM vacancies v WHERE v.body LIKE ?`)
		args = append(args, "%"+opts.Query+"%")
	default:
		qb.WriteString(`SELECT v.document_id, v.fields FROM vacancies v WHERE 1=1`)
	}

	if opts.Client != "" {
		qb.WriteString(` AND v.client LIKE ?`)
		args = append(args, "%"+opts.Client+"%")
	}
	if opts.Classification != "" {
		qb.WriteString(` AND v.classification = ?`)
		args = append(args, opts.Classification)
	}
	if opts.Document != "" {
		qb.WriteString(` AND v.document_id = ?`)
		args = append(args, opts.Document)
	}

	if useFTS {
		qb.WriteString(` ORDER BY vacancies_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY v.document_id, v.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr     QueryResult
			fields string
		)
		if err := rows.Scan(&qr.Document, &fields); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := qr.Vacancy.UnmarshalJSON([]byte(fields)); err != nil {
			return nil, fmt.Errorf("decoding stored vacancy: %w", err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

// ftsQuery quotes each whitespace-separated term as an FTS5 phrase so
// punctuation such as the hyphen in "VN-12345" is matched as text rather
// than parsed as query syntax. Terms are ANDed.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Document is the indexing record of one gazette.
type Document struct {
	ID        string `json:"id" yaml:"id"`
	Path      string `json:"path" yaml:"path"`
	Grammar   string `json:"grammar" yaml:"grammar"`
	Vacancies int    `json:"vacancies" yaml:"vacancies"`
	Dropped   int    `json:"dropped" yaml:"dropped"`
	IndexedAt string `json:"indexed_at" yaml:"indexed_at"`
}

// Documents lists indexed gazettes ordered by ID.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, COALESCE(grammar, ''), vacancies, dropped, COALESCE(indexed_at, '')
		 FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Path, &d.Grammar, &d.Vacancies, &d.Dropped, &d.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
