// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gazette

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gazette-vacancies/internal/storage"
	"github.com/pdiddy/gazette-vacancies/internal/vacancy"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// fakeSource returns canned blocks per document, or an error.
type fakeSource struct {
	docs map[string][]types.Block
	err  error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Blocks(_ context.Context, path string) ([]types.Block, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[filepath.Base(path)], nil
}

func gazetteBlocks(codes ...string) []types.Block {
	var texts []string
	for _, c := range codes {
		texts = append(texts,
			"Vacancy "+c,
			"Department of Water",
			"Job Title\nAnalyst",
			"Agency Recruitment Site\nwww.example.gov",
		)
	}
	return types.TextBlocks(texts...)
}

func newExtractor(t *testing.T, src *fakeSource) *Extractor {
	t.Helper()
	p, err := vacancy.New(types.ParserConfig{})
	require.NoError(t, err)
	return New(src, p, nil)
}

func TestExtract(t *testing.T) {
	src := &fakeSource{docs: map[string][]types.Block{"g.pdf": gazetteBlocks("VN-1", "VN-2")}}
	res, err := newExtractor(t, src).Extract(context.Background(), "g.pdf")
	require.NoError(t, err)
	require.Len(t, res.Vacancies, 2)
	assert.Equal(t, "VN-2", res.Vacancies[1].Value(types.FieldVacancy))
	assert.Equal(t, "Analyst", res.Vacancies[0].Value(types.FieldJobTitle))
}

func TestExtract_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	_, err := newExtractor(t, src).Extract(context.Background(), "g.pdf")
	assert.EqualError(t, err, "boom")
}

func TestExtract_ParseErrorIsWrapped(t *testing.T) {
	src := &fakeSource{docs: map[string][]types.Block{"g.pdf": types.TextBlocks("Vacancy VN-1")}}
	_, err := newExtractor(t, src).Extract(context.Background(), "g.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, vacancy.ErrLookaheadOutOfRange))
	assert.Contains(t, err.Error(), "g.pdf")
}

func TestExtractTo_JSON(t *testing.T) {
	src := &fakeSource{docs: map[string][]types.Block{"g.pdf": gazetteBlocks("VN-7")}}
	var buf bytes.Buffer
	_, err := newExtractor(t, src).ExtractTo(context.Background(), "g.pdf", &buf, types.FormatJSON)
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "VN-7", got[0]["vacancy"])
	assert.Equal(t, "Department of Water", got[0]["client"])
}

func TestOutputKey(t *testing.T) {
	assert.Equal(t, "out/gazette-2024.csv", OutputKey("out", "/tmp/in/gazette-2024.pdf", types.FormatCSV))
	assert.Equal(t, "g.json", OutputKey("", "g.PDF", types.FormatJSON))
}

func TestExtractFile(t *testing.T) {
	tests := []struct {
		name       string
		src        *fakeSource
		preCreate  bool
		force      bool
		wantStatus Status
		wantLog    string
	}{
		{
			name:       "successful extraction",
			src:        &fakeSource{docs: map[string][]types.Block{"g.pdf": gazetteBlocks("VN-1")}},
			wantStatus: StatusExtracted,
			wantLog:    "extracted: g.pdf -> out/g.json (1 vacancies)",
		},
		{
			name:       "skip existing output",
			src:        &fakeSource{err: errors.New("should not be called")},
			preCreate:  true,
			wantStatus: StatusSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "force overwrites existing output",
			src:        &fakeSource{docs: map[string][]types.Block{"g.pdf": gazetteBlocks("VN-1")}},
			preCreate:  true,
			force:      true,
			wantStatus: StatusExtracted,
			wantLog:    "extracted:",
		},
		{
			name:       "source failure",
			src:        &fakeSource{err: errors.New("pdftotext crashed")},
			wantStatus: StatusFailed,
			wantLog:    "failed:    g.pdf (pdftotext crashed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := storage.NewLocalAdapter(dir)
			if tt.preCreate {
				require.NoError(t, store.Put(context.Background(), "out/g.json", strings.NewReader("old")))
			}

			var log bytes.Buffer
			status, _ := newExtractor(t, tt.src).ExtractFile(
				context.Background(), "g.pdf", store, "out", types.FormatJSON, tt.force, &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, log.String(), tt.wantLog)
		})
	}
}

func TestExtractFile_DroppedReported(t *testing.T) {
	bs := append(types.TextBlocks("Vacancy VN-9", "ACME"), gazetteBlocks("VN-10")...)
	for i := range bs {
		bs[i].Index = i
	}
	src := &fakeSource{docs: map[string][]types.Block{"g.pdf": bs}}

	var log bytes.Buffer
	status, n := newExtractor(t, src).ExtractFile(
		context.Background(), "g.pdf", storage.NewLocalAdapter(t.TempDir()), "", types.FormatCSV, false, &log)

	assert.Equal(t, StatusExtracted, status)
	assert.Equal(t, 1, n)
	assert.Contains(t, log.String(), "1 dropped")
}

func TestExtractBatch(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewLocalAdapter(dir)
	require.NoError(t, store.Put(context.Background(), "c.csv", strings.NewReader("existing")))

	src := &fakeSource{docs: map[string][]types.Block{
		"a.pdf": gazetteBlocks("VN-1", "VN-2"),
		"b.pdf": types.TextBlocks("Vacancy VN-3", "Job Title"),
		"c.pdf": gazetteBlocks("VN-4"),
		"d.pdf": gazetteBlocks("VN-5"),
	}}

	var log bytes.Buffer
	res, err := newExtractor(t, src).ExtractBatch(context.Background(),
		[]string{"in/a.pdf", "in/b.pdf", "in/c.pdf", "in/d.pdf"}, store, "", types.FormatCSV, false, &log)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Extracted: 2, Skipped: 1, Failed: 1, Vacancies: 3}, res)
	assert.Equal(t, 4, res.Total())
	assert.True(t, res.HasFailures())
	assert.Contains(t, log.String(), "Batch summary: 2 extracted, 1 skipped, 1 failed (total: 4, vacancies: 3)")

	data, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "vacancy,client,job_title,agency_recruitment_site\n"), string(data))

	_, err = os.Stat(filepath.Join(dir, "b.csv"))
	assert.True(t, os.IsNotExist(err), "failed gazettes leave no output")
}

func TestExtractBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{docs: map[string][]types.Block{"a.pdf": gazetteBlocks("VN-1")}}
	res, err := newExtractor(t, src).ExtractBatch(ctx, []string{"a.pdf"},
		storage.NewLocalAdapter(t.TempDir()), "", types.FormatJSON, false, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Total())
}
