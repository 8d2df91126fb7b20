// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gazette runs the extraction pipeline: a block source reads a
// gazette PDF, the vacancy parser turns its blocks into records, and an
// output encoder writes them.
package gazette

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/gazette-vacancies/internal/blocks"
	"github.com/pdiddy/gazette-vacancies/internal/logging"
	"github.com/pdiddy/gazette-vacancies/internal/output"
	"github.com/pdiddy/gazette-vacancies/internal/storage"
	"github.com/pdiddy/gazette-vacancies/internal/vacancy"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// Status is the outcome of processing one gazette in a batch.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Extractor connects a block source to a vacancy parser.
type Extractor struct {
	source blocks.Source
	parser *vacancy.Parser
	log    logging.Logger
}

// New creates an Extractor. A nil logger discards log output.
func New(source blocks.Source, parser *vacancy.Parser, log logging.Logger) *Extractor {
	if log == nil {
		log = logging.Noop()
	}
	return &Extractor{source: source, parser: parser, log: log}
}

// Extract reads the gazette at pdfPath and returns its vacancy records.
// Records dropped by the parser are logged as warnings.
func (e *Extractor) Extract(ctx context.Context, pdfPath string) (vacancy.Result, error) {
	log := e.log.With("document", pdfPath, "backend", e.source.Name())

	bs, err := e.source.Blocks(ctx, pdfPath)
	if err != nil {
		return vacancy.Result{}, err
	}
	log.Debug("blocks extracted", "blocks", len(bs))

	res, err := e.parser.Parse(bs)
	if err != nil {
		return vacancy.Result{}, fmt.Errorf("parsing %s: %w", pdfPath, err)
	}
	if res.Dropped > 0 {
		log.Warn("incomplete vacancy records dropped",
			"dropped", res.Dropped, "codes", strings.Join(res.DroppedCodes, ","))
	}
	log.Info("vacancies extracted",
		"vacancies", len(res.Vacancies), "ignored_blocks", res.Ignored, "grammar", res.Grammar)
	return res, nil
}

// ExtractTo extracts pdfPath and encodes the records to w.
func (e *Extractor) ExtractTo(ctx context.Context, pdfPath string, w io.Writer, format types.OutputFormat) (vacancy.Result, error) {
	res, err := e.Extract(ctx, pdfPath)
	if err != nil {
		return res, err
	}
	if err := output.Write(w, format, res.Vacancies); err != nil {
		return res, err
	}
	return res, nil
}

// ExtractToStore extracts pdfPath and stores the encoded records at key.
// Nothing is stored when extraction fails.
func (e *Extractor) ExtractToStore(ctx context.Context, pdfPath string, store storage.Adapter, key string, format types.OutputFormat) (vacancy.Result, error) {
	var buf bytes.Buffer
	res, err := e.ExtractTo(ctx, pdfPath, &buf, format)
	if err != nil {
		return res, err
	}
	if err := store.Put(ctx, key, &buf); err != nil {
		return res, fmt.Errorf("writing %s: %w", key, err)
	}
	return res, nil
}

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted int
	Skipped   int
	Failed    int

	// Vacancies counts records written across all extracted gazettes.
	Vacancies int
}

// Total returns the number of gazettes processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Skipped + r.Failed
}

// HasFailures reports whether any gazette failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputKey returns the key a gazette's records are written to: the PDF's
// base name with the format's extension, under prefix.
func OutputKey(prefix, pdfPath string, format types.OutputFormat) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return path.Join(prefix, base+"."+output.Extension(format))
}

// ExtractFile extracts one gazette into store under prefix and reports the
// outcome on w. An existing output is left alone and the gazette is
// skipped unless force is set.
func (e *Extractor) ExtractFile(ctx context.Context, pdfPath string, store storage.Adapter, prefix string, format types.OutputFormat, force bool, w io.Writer) (Status, int) {
	key := OutputKey(prefix, pdfPath, format)
	base := filepath.Base(pdfPath)

	if !force {
		exists, err := store.Exists(ctx, key)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
			return StatusFailed, 0
		}
		if exists {
			fmt.Fprintf(w, "skipped:   %s (%s already exists)\n", base, key)
			return StatusSkipped, 0
		}
	}

	res, err := e.ExtractToStore(ctx, pdfPath, store, key, format)
	if err != nil {
		e.log.Error("extraction failed", "document", pdfPath, "error", err)
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, 0
	}

	n := len(res.Vacancies)
	if res.Dropped > 0 {
		fmt.Fprintf(w, "extracted: %s -> %s (%d vacancies, %d dropped)\n", base, key, n, res.Dropped)
	} else {
		fmt.Fprintf(w, "extracted: %s -> %s (%d vacancies)\n", base, key, n)
	}
	return StatusExtracted, n
}

// ExtractBatch processes gazettes in order, printing per-file status to w
// and returning a summary. It stops early only when ctx is cancelled.
func (e *Extractor) ExtractBatch(ctx context.Context, pdfPaths []string, store storage.Adapter, prefix string, format types.OutputFormat, force bool, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, p := range pdfPaths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		status, n := e.ExtractFile(ctx, p, store, prefix, format, force, w)
		switch status {
		case StatusExtracted:
			result.Extracted++
			result.Vacancies += n
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d, vacancies: %d)\n",
		result.Extracted, result.Skipped, result.Failed, result.Total(), result.Vacancies)
	return result, nil
}
