// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/gazette-vacancies/internal/container"
	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

const binPdftotext = "pdftotext"

// PdftotextSource extracts blocks with a host pdftotext binary.
type PdftotextSource struct {
	exec container.Executor
	bin  string
}

// NewPdftotextSource returns a source that runs bin through exec.
func NewPdftotextSource(exec container.Executor, bin string) *PdftotextSource {
	return &PdftotextSource{exec: exec, bin: bin}
}

func (s *PdftotextSource) Name() string { return binPdftotext }

// Blocks runs "pdftotext -bbox-layout <path> -" and parses its XHTML output.
func (s *PdftotextSource) Blocks(ctx context.Context, path string) ([]types.Block, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	args := []string{"-bbox-layout", path, "-"}
	if err := s.exec.RunPiped(ctx, s.bin, args, nil, &out); err != nil {
		return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: err}
	}

	blocks, err := ParseBBoxLayout(&out)
	if err != nil {
		return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: err}
	}
	return blocks, nil
}

// ContainerSource extracts blocks with pdftotext running in a container.
// The PDF is streamed to the container on stdin.
type ContainerSource struct {
	runtime container.Runtime
	image   string
}

// NewContainerSource returns a source that runs image on rt.
func NewContainerSource(rt container.Runtime, image string) *ContainerSource {
	return &ContainerSource{runtime: rt, image: image}
}

func (s *ContainerSource) Name() string { return "container" }

func (s *ContainerSource) Blocks(ctx context.Context, path string) ([]types.Block, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	args := []string{binPdftotext, "-bbox-layout", "-", "-"}
	if err := s.runtime.Run(ctx, s.image, args, f, &out); err != nil {
		return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: err}
	}

	blocks, err := ParseBBoxLayout(&out)
	if err != nil {
		return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: err}
	}
	return blocks, nil
}
