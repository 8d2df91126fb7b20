// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blocks turns a gazette PDF into the ordered sequence of text
// blocks consumed by the vacancy parser.
//
// Two backends are provided. PdftotextSource runs poppler's
// "pdftotext -bbox-layout" either on the host or inside a container and
// reads the block structure poppler reports. NativeSource uses the pure-Go
// ledongthuc/pdf reader and stacks positioned text runs into blocks itself.
package blocks

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/gazette-vacancies/internal/container"
	"github.com/pdiddy/gazette-vacancies/internal/logging"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// DefaultImage is the container image used when no pdftotext binary is installed.
const DefaultImage = "minidocks/poppler:latest"

// ErrNotFound is returned when the document path does not exist.
var ErrNotFound = errors.New("file not found")

// Source produces the block sequence of a document.
type Source interface {
	// Name identifies the backend in logs ("pdftotext", "container", "native").
	Name() string

	// Blocks returns the document's blocks in reading order.
	Blocks(ctx context.Context, path string) ([]types.Block, error)
}

// ExtractionError reports a backend failure for a specific document.
type ExtractionError struct {
	Backend string
	Path    string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: extracting %s: %v", e.Backend, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// checkPath maps a missing document to ErrNotFound.
func checkPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w at %s", ErrNotFound, path)
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// NewSource builds the backend selected by cfg. With BackendAuto it prefers
// a host pdftotext, then a container runtime, then the native reader.
func NewSource(cfg types.SourceConfig, exec container.Executor, log logging.Logger) (Source, error) {
	if exec == nil {
		exec = container.OSExecutor{}
	}
	if log == nil {
		log = logging.Noop()
	}
	image := cfg.Image
	if image == "" {
		image = DefaultImage
	}

	switch cfg.Backend {
	case types.BackendPdftotext:
		bin, err := lookPdftotext(exec, cfg.PdftotextPath)
		if err != nil {
			return nil, err
		}
		return NewPdftotextSource(exec, bin), nil

	case types.BackendContainer:
		rt, err := container.Detect(exec)
		if err != nil {
			return nil, err
		}
		if err := rt.ImageExists(image); err != nil {
			return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
		}
		return NewContainerSource(rt, image), nil

	case types.BackendNative:
		return NewNativeSource(), nil

	case types.BackendAuto, "":
		if bin, err := lookPdftotext(exec, cfg.PdftotextPath); err == nil {
			log.Debug("using host pdftotext", "path", bin)
			return NewPdftotextSource(exec, bin), nil
		}
		if rt, err := container.Detect(exec); err == nil && rt.ImageExists(image) == nil {
			log.Debug("using containerised pdftotext", "runtime", rt.Name(), "image", image)
			return NewContainerSource(rt, image), nil
		}
		log.Debug("pdftotext unavailable, using native reader")
		return NewNativeSource(), nil

	default:
		return nil, fmt.Errorf("unknown source backend %q: use auto, pdftotext, container, or native", cfg.Backend)
	}
}

func lookPdftotext(exec container.Executor, override string) (string, error) {
	name := override
	if name == "" {
		name = binPdftotext
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("pdftotext not found: %w", err)
	}
	return path, nil
}
