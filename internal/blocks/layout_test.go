// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(x, y, w float64, s string) pdf.Text {
	return pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: y, W: w, S: s}
}

func blockTexts(t *testing.T, texts []pdf.Text) []string {
	t.Helper()
	blocks := groupBlocks(1, 800, texts)
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text
	}
	return out
}

func TestGroupBlocks_LabelAndValueColumns(t *testing.T) {
	texts := []pdf.Text{
		run(50, 700, 90, "Vacancy VN-12345"),
		run(50, 670, 60, "ACME"),
		run(112, 670, 30, "Water"),
		run(50, 650, 40, "Job Title"),
		run(300, 650, 80, "Senior"),
		run(300, 638, 80, "Engineer"),
	}

	assert.Equal(t, []string{
		"Vacancy VN-12345",
		"ACME Water",
		"Job Title",
		"Senior\nEngineer",
	}, blockTexts(t, texts))
}

func TestGroupBlocks_OrderIndependentOfInput(t *testing.T) {
	texts := []pdf.Text{
		run(300, 638, 80, "Engineer"),
		run(50, 650, 40, "Job Title"),
		run(112, 670, 30, "Water"),
		run(300, 650, 80, "Senior"),
		run(50, 700, 90, "Vacancy VN-12345"),
		run(50, 670, 60, "ACME"),
	}

	assert.Equal(t, []string{
		"Vacancy VN-12345",
		"ACME Water",
		"Job Title",
		"Senior\nEngineer",
	}, blockTexts(t, texts))
}

func TestGroupBlocks_StackedLabel(t *testing.T) {
	texts := []pdf.Text{
		run(50, 500, 70, "Job Type"),
		run(50, 488, 70, "Full-Time"),
		run(50, 476, 70, "Permanent"),
	}
	assert.Equal(t, []string{"Job Type\nFull-Time\nPermanent"}, blockTexts(t, texts))
}

func TestGroupBlocks_GlyphRuns(t *testing.T) {
	// The reader often reports one run per glyph; adjacent glyphs join
	// without spaces.
	texts := []pdf.Text{
		run(50, 500, 5, "V"),
		run(55, 500, 5, "N"),
		run(60, 500, 5, "-"),
		run(65, 500, 5, "1"),
	}
	assert.Equal(t, []string{"VN-1"}, blockTexts(t, texts))
}

func TestGroupBlocks_Coordinates(t *testing.T) {
	blocks := groupBlocks(3, 800, []pdf.Text{
		run(50, 700, 90, "Salary"),
		run(50, 688, 120, "$90,000"),
	})
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, 3, b.Page)
	assert.InDelta(t, 50, b.X0, 0.001)
	assert.InDelta(t, 90, b.Y0, 0.001)
	assert.InDelta(t, 170, b.X1, 0.001)
	assert.InDelta(t, 112, b.Y1, 0.001)
}

func TestGroupBlocks_SkipsEmptyRuns(t *testing.T) {
	assert.Empty(t, groupBlocks(1, 800, []pdf.Text{run(50, 700, 5, ""), run(60, 700, 5, " ")}))
}
