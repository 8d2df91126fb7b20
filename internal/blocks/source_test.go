// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// fakeExecutor stands in for os/exec. Binaries in bins resolve on PATH,
// commands in silent succeed, and piped runs are answered by pipe.
type fakeExecutor struct {
	bins   map[string]bool
	silent map[string]bool
	pipe   func(name string, args []string, stdin io.Reader, stdout io.Writer) error

	calls [][]string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeExecutor) RunSilent(name string, args ...string) error {
	if f.silent[name+" "+strings.Join(args, " ")] {
		return nil
	}
	return errors.New("command failed")
}

func (f *fakeExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.pipe == nil {
		return nil
	}
	return f.pipe(name, args, stdin, stdout)
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gazette.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7 fake"), 0o644))
	return path
}

func TestPdftotextSource_Blocks(t *testing.T) {
	path := writePDF(t)
	exec := &fakeExecutor{pipe: func(_ string, _ []string, _ io.Reader, stdout io.Writer) error {
		_, err := io.WriteString(stdout, bboxSample)
		return err
	}}

	src := NewPdftotextSource(exec, "/usr/bin/pdftotext")
	blocks, err := src.Blocks(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "Vacancy VN-12345", blocks[0].Text)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"/usr/bin/pdftotext", "-bbox-layout", path, "-"}, exec.calls[0])
}

func TestPdftotextSource_Failure(t *testing.T) {
	path := writePDF(t)
	exec := &fakeExecutor{pipe: func(string, []string, io.Reader, io.Writer) error {
		return errors.New("exit status 1: Syntax Error: Couldn't find trailer dictionary")
	}}

	_, err := NewPdftotextSource(exec, "pdftotext").Blocks(context.Background(), path)
	require.Error(t, err)

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "pdftotext", ee.Backend)
	assert.Equal(t, path, ee.Path)
	assert.Contains(t, err.Error(), "trailer dictionary")
}

func TestSources_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.pdf")
	sources := []Source{
		NewPdftotextSource(&fakeExecutor{}, "pdftotext"),
		NewContainerSource(nil, DefaultImage),
		NewNativeSource(),
	}
	for _, src := range sources {
		t.Run(src.Name(), func(t *testing.T) {
			_, err := src.Blocks(context.Background(), missing)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestContainerSource_StreamsPDF(t *testing.T) {
	path := writePDF(t)
	rt := &fakeRuntime{out: bboxSample}

	blocks, err := NewContainerSource(rt, "poppler:test").Blocks(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, blocks, 3)
	assert.Equal(t, "poppler:test", rt.image)
	assert.Equal(t, []string{"pdftotext", "-bbox-layout", "-", "-"}, rt.args)
	assert.Equal(t, "%PDF-1.7 fake", rt.stdin)
}

type fakeRuntime struct {
	out   string
	image string
	args  []string
	stdin string
}

func (r *fakeRuntime) Name() string             { return "docker" }
func (r *fakeRuntime) Available() bool          { return true }
func (r *fakeRuntime) ImageExists(string) error { return nil }
func (r *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	r.image, r.args = image, args
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	r.stdin = string(data)
	_, err = io.WriteString(stdout, r.out)
	return err
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.SourceConfig
		exec    *fakeExecutor
		want    string
		wantErr string
	}{
		{
			name: "auto prefers host pdftotext",
			cfg:  types.SourceConfig{Backend: types.BackendAuto},
			exec: &fakeExecutor{bins: map[string]bool{"pdftotext": true, "docker": true}},
			want: "pdftotext",
		},
		{
			name: "auto falls back to container",
			cfg:  types.SourceConfig{},
			exec: &fakeExecutor{
				bins:   map[string]bool{"docker": true},
				silent: map[string]bool{"docker info": true, "docker image inspect " + DefaultImage: true},
			},
			want: "container",
		},
		{
			name: "auto falls back to native when image missing",
			cfg:  types.SourceConfig{},
			exec: &fakeExecutor{
				bins:   map[string]bool{"docker": true},
				silent: map[string]bool{"docker info": true},
			},
			want: "native",
		},
		{
			name: "explicit native",
			cfg:  types.SourceConfig{Backend: types.BackendNative},
			exec: &fakeExecutor{},
			want: "native",
		},
		{
			name: "pdftotext path override",
			cfg:  types.SourceConfig{Backend: types.BackendPdftotext, PdftotextPath: "pdftotext-24"},
			exec: &fakeExecutor{bins: map[string]bool{"pdftotext-24": true}},
			want: "pdftotext",
		},
		{
			name:    "explicit pdftotext missing",
			cfg:     types.SourceConfig{Backend: types.BackendPdftotext},
			exec:    &fakeExecutor{},
			wantErr: "pdftotext not found",
		},
		{
			name:    "explicit container without runtime",
			cfg:     types.SourceConfig{Backend: types.BackendContainer},
			exec:    &fakeExecutor{},
			wantErr: "no container runtime available",
		},
		{
			name:    "unknown backend",
			cfg:     types.SourceConfig{Backend: "ocr"},
			exec:    &fakeExecutor{},
			wantErr: "unknown source backend",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.cfg, tt.exec, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}
