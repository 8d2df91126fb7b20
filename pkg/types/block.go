// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Block is one contiguous unit of extracted document text. Blocks arrive in
// document order (page by page, top to bottom, left to right) and are never
// modified after extraction.
type Block struct {
	// Text is the raw block text. Visually stacked lines are joined with "\n".
	Text string `json:"text" yaml:"text"`

	// Index is the zero-based position of the block in the document sequence.
	Index int `json:"index" yaml:"index"`

	// Page is the 1-based page number the block was found on.
	Page int `json:"page" yaml:"page"`

	// Bounding box in points, origin at the top-left corner of the page.
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// TextBlocks builds a block sequence from plain strings, assigning indexes
// in order. Positional fields are left zero.
func TextBlocks(texts ...string) []Block {
	blocks := make([]Block, len(texts))
	for i, t := range texts {
		blocks[i] = Block{Text: t, Index: i, Page: 1}
	}
	return blocks
}
