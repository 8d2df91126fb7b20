// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// defaultPageHeight is A4 in points, used when a page has no MediaBox.
const defaultPageHeight = 841.89

// NativeSource extracts blocks in-process with github.com/ledongthuc/pdf.
// It needs no external tools but only sees the positioned text runs, so
// block boundaries come from the layout heuristic in layout.go.
type NativeSource struct{}

// NewNativeSource returns a pure-Go source.
func NewNativeSource() *NativeSource { return &NativeSource{} }

func (s *NativeSource) Name() string { return "native" }

func (s *NativeSource) Blocks(ctx context.Context, path string) ([]types.Block, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: err}
	}
	defer f.Close()

	var blocks []types.Block
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		texts, err := pageText(p)
		if err != nil {
			return nil, &ExtractionError{Backend: s.Name(), Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}

		for _, b := range groupBlocks(i, pageHeight(p), texts) {
			b.Index = len(blocks)
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

// pageText reads the positioned text of p. The reader panics on some
// malformed content streams; that is reported as an error.
func pageText(p pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

func pageHeight(p pdf.Page) float64 {
	box := p.V.Key("MediaBox")
	if box.Len() == 4 {
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}
