// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalAdapter stores objects as files under a base directory. An empty
// base resolves keys against the working directory.
type LocalAdapter struct {
	base string
}

// NewLocalAdapter creates an adapter rooted at base.
func NewLocalAdapter(base string) *LocalAdapter {
	return &LocalAdapter{base: base}
}

// Put writes data to a temporary file next to the target and renames it
// into place, so readers never see a partial file.
func (l *LocalAdapter) Put(_ context.Context, key string, data io.Reader) error {
	full := l.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", full, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", full, err)
	}
	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", full, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", full, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", full, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", full, err)
	}
	return nil
}

// Get opens the file at key.
func (l *LocalAdapter) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return f, nil
}

// Exists reports whether a file exists at key.
func (l *LocalAdapter) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return true, nil
}

func (l *LocalAdapter) path(key string) string {
	if l.base == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(l.base, key)
}
