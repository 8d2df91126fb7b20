// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// ParseBBoxLayout reads the XHTML written by "pdftotext -bbox-layout":
//
//	<page><flow><block xMin.. yMin..><line><word>Vacancy</word>...</line></block></flow></page>
//
// Words of a line are joined with spaces and lines of a block with "\n".
// Blocks keep poppler's reading order; empty blocks are skipped.
func ParseBBoxLayout(r io.Reader) ([]types.Block, error) {
	var (
		z       = html.NewTokenizer(r)
		blocks  []types.Block
		page    int
		cur     *types.Block
		lines   []string
		words   []string
		inWord  bool
		word    strings.Builder
		sawPage bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if !sawPage {
					return nil, fmt.Errorf("no pages in pdftotext output")
				}
				return blocks, nil
			}
			return nil, fmt.Errorf("reading pdftotext output: %w", z.Err())

		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "page":
				page++
				sawPage = true
			case "block":
				cur = &types.Block{Page: page}
				cur.X0, cur.Y0, cur.X1, cur.Y1 = bbox(tok.Attr)
				lines = lines[:0]
			case "line":
				words = words[:0]
			case "word":
				inWord = true
				word.Reset()
			}

		case html.TextToken:
			if inWord {
				word.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "word":
				inWord = false
				if w := strings.TrimSpace(word.String()); w != "" {
					words = append(words, w)
				}
			case "line":
				if len(words) > 0 {
					lines = append(lines, strings.Join(words, " "))
				}
			case "block":
				if cur != nil && len(lines) > 0 {
					cur.Text = strings.Join(lines, "\n")
					cur.Index = len(blocks)
					blocks = append(blocks, *cur)
				}
				cur = nil
			}
		}
	}
}

func bbox(attrs []html.Attribute) (x0, y0, x1, y1 float64) {
	for _, a := range attrs {
		v, err := strconv.ParseFloat(a.Val, 64)
		if err != nil {
			continue
		}
		switch a.Key {
		case "xmin":
			x0 = v
		case "ymin":
			y0 = v
		case "xmax":
			x1 = v
		case "ymax":
			y1 = v
		}
	}
	return x0, y0, x1, y1
}
