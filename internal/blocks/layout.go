// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blocks

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// Layout thresholds, in multiples of the font size.
const (
	baselineTolerance = 0.5  // runs this close vertically share a baseline
	wordGap           = 0.15 // horizontal gap that becomes a space
	columnGap         = 2.0  // horizontal gap that starts a new segment
	alignTolerance    = 1.0  // left edges this close belong to one block
	lineSpacing       = 0.8  // max gap between a block's bottom and the next line
	defaultFontSize   = 10.0
)

// segment is a run of text on one baseline, bounded by wide gaps.
type segment struct {
	x0, x1   float64
	top, bot float64
	size     float64
	text     strings.Builder
	lastX1   float64
}

// groupBlocks stacks the positioned text of one page into blocks. Runs on
// a baseline are joined into segments, and a segment extends the open block
// whose left edge it shares when it sits directly under that block's last
// line. Coordinates are flipped to a top-left origin.
func groupBlocks(page int, height float64, texts []pdf.Text) []types.Block {
	var segs []*segment
	for _, line := range baselines(texts) {
		var cur *segment
		for _, t := range line {
			size := fontSize(t)
			if cur == nil || t.X-cur.lastX1 > columnGap*size {
				cur = &segment{
					x0:   t.X,
					top:  height - t.Y - size,
					bot:  height - t.Y,
					size: size,
				}
				segs = append(segs, cur)
			} else if t.X-cur.lastX1 > wordGap*size && !endsWithSpace(&cur.text) && !strings.HasPrefix(t.S, " ") {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(t.S)
			cur.lastX1 = t.X + t.W
			cur.x1 = math.Max(cur.x1, cur.lastX1)
		}
	}

	var out []types.Block
	var open []int // indexes into out, blocks still accepting lines
	for _, s := range segs {
		text := strings.TrimSpace(s.text.String())
		if text == "" {
			continue
		}

		target := -1
		for _, idx := range open {
			b := &out[idx]
			gap := s.top - b.Y1
			if math.Abs(b.X0-s.x0) <= alignTolerance*s.size && gap >= -baselineTolerance*s.size && gap <= lineSpacing*s.size {
				target = idx
				break
			}
		}

		if target < 0 {
			out = append(out, types.Block{
				Text: text, Page: page,
				X0: s.x0, Y0: s.top, X1: s.x1, Y1: s.bot,
			})
			open = append(open, len(out)-1)
			continue
		}

		b := &out[target]
		b.Text += "\n" + text
		b.X1 = math.Max(b.X1, s.x1)
		b.Y1 = s.bot
	}
	return out
}

// baselines groups text runs into lines, top line first, each line ordered
// left to right.
func baselines(texts []pdf.Text) [][]pdf.Text {
	runs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			runs = append(runs, t)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Y > runs[j].Y })

	var lines [][]pdf.Text
	var baseline float64
	for _, t := range runs {
		n := len(lines)
		if n > 0 && baseline-t.Y <= baselineTolerance*fontSize(t) {
			lines[n-1] = append(lines[n-1], t)
			continue
		}
		lines = append(lines, []pdf.Text{t})
		baseline = t.Y
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return defaultFontSize
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, " ")
}
