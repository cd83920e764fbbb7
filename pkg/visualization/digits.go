package visualization

import (
	"strconv"

	"github.com/brianbland/mlviz/pkg/api"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// digitStroke is one pen stroke of a glyph in a 14x14 cell
type digitStroke []point

// digitGlyphs holds hand-drawn outlines for 0-9 on a 14-unit grid
var digitGlyphs = [10][]digitStroke{
	{{{2, 1}, {12, 1}, {12, 13}, {2, 13}, {2, 1}}},
	{{{7, 1}, {7, 13}}},
	{{{2, 2}, {12, 2}, {12, 7}, {2, 7}, {2, 12}, {12, 12}}},
	{{{2, 2}, {12, 2}, {12, 7}, {2, 7}}, {{12, 7}, {12, 13.5}, {2, 13.5}}},
	{{{2, 2}, {2, 9}}, {{2, 7}, {12, 7}}, {{12, 2}, {12, 12}}},
	{{{12, 2}, {2, 2}, {2, 7}, {12, 7}, {12, 12}, {2, 12}}},
	{{{12, 2}, {2, 2}, {2, 12}, {12, 12}, {12, 7}, {2, 7}}},
	{{{2, 2}, {12, 2}, {12, 12}}},
	{{{2, 2}, {12, 2}, {12, 12}, {2, 12}, {2, 2}}, {{2, 7}, {12, 7}}},
	{{{4, 2}, {10, 2}, {12, 4}, {12, 6}, {10, 7}, {4, 7}, {2, 6}, {2, 4}, {4, 2}}, {{11, 7}, {11, 12}}},
}

// renderDigits draws the ten placeholder digit glyphs in a 2x5 grid
func renderDigits(s *Surface, dataset *api.Dataset) {
	const (
		digitSize = 50.0
		padding   = 50.0
		cols      = 5
	)
	w, h := float64(s.Width), float64(s.Height)

	s.text("MNIST digit samples", w/2, padding, 16, colorText, AlignCenter)

	count := len(dataset.Samples)
	if count > 10 {
		count = 10
	}
	if count == 0 {
		s.middleText("No samples", w/2, h/2, 14, colorText)
		return
	}

	gridW := cols*digitSize + (cols-1)*padding
	left := (w - gridW) / 2
	top := 2 * padding

	for i := 0; i < count; i++ {
		col, row := i%cols, i/cols
		x := left + float64(col)*(digitSize+padding)
		y := top + float64(row)*(digitSize+padding)

		s.strokeRect(x, y, digitSize, digitSize, colorFrame, 1)
		s.text(strconv.Itoa(i), x+digitSize/2, y+digitSize+20, 12, colorText, AlignCenter)
		drawGlyph(s, i, x+15, y+15, digitSize/2)
	}
}

// drawGlyph strokes the outline of digit inside a size x size cell at (x, y)
func drawGlyph(s *Surface, digit int, x, y, size float64) {
	unit := size / 14
	width := unit
	if width < 2 {
		width = 2
	}

	for _, stroke := range digitGlyphs[digit%10] {
		pts := make([]point, len(stroke))
		for i, p := range stroke {
			pts[i] = point{x + p.X*unit, y + p.Y*unit}
		}
		s.polyline(pts, drawing.ColorBlack, width)
	}
}
