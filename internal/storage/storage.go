// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage writes output files to the local filesystem or to
// S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// ErrNotFound is returned by Get when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Adapter stores and retrieves objects by key.
type Adapter interface {
	// Put stores data at key, replacing any existing object.
	Put(ctx context.Context, key string, data io.Reader) error

	// Get opens the object at key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// Destination is a parsed output location. Local destinations have an
// empty Bucket; Key is then a filesystem path.
type Destination struct {
	Bucket string
	Key    string
}

// IsS3 reports whether the destination names an S3 object.
func (d Destination) IsS3() bool { return d.Bucket != "" }

func (d Destination) String() string {
	if d.IsS3() {
		return "s3://" + d.Bucket + "/" + d.Key
	}
	return d.Key
}

// ParseDestination parses an --out value. "s3://bucket/key" selects
// object storage; anything else is a local path.
func ParseDestination(s string) (Destination, error) {
	if s == "" {
		return Destination{}, errors.New("empty destination")
	}
	d, err := ParsePrefix(s)
	if err != nil {
		return Destination{}, err
	}
	if d.IsS3() && (d.Key == "" || strings.HasSuffix(s, "/")) {
		return Destination{}, fmt.Errorf("destination %q must be s3://bucket/key", s)
	}
	return d, nil
}

// ParsePrefix parses an output directory. For "s3://bucket/prefix" the
// key is the prefix without surrounding slashes and may be empty.
func ParsePrefix(s string) (Destination, error) {
	if !strings.HasPrefix(s, "s3://") {
		return Destination{Key: s}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return Destination{}, fmt.Errorf("parsing destination %q: %w", s, err)
	}
	if u.Host == "" {
		return Destination{}, fmt.Errorf("destination %q has no bucket", s)
	}
	key := strings.Trim(u.Path, "/")
	if key != "" {
		key = path.Clean(key)
	}
	return Destination{Bucket: u.Host, Key: key}, nil
}

// Open returns the adapter that serves dest together with the key to use
// on it. Local paths are written relative to the working directory.
func Open(ctx context.Context, dest Destination, cfg types.S3Config) (Adapter, string, error) {
	if !dest.IsS3() {
		return NewLocalAdapter(""), dest.Key, nil
	}
	a, err := NewS3Adapter(ctx, S3Options{
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		Bucket:          dest.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		return nil, "", err
	}
	return a, dest.Key, nil
}

// Fetch copies the object at key into a new temporary file in dir (the
// system temp directory when empty) and returns its path. The caller
// removes the file.
func Fetch(ctx context.Context, a Adapter, key, dir string) (string, error) {
	rc, err := a.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(dir, "gazette-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("copying %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
