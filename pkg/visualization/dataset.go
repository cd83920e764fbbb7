package visualization

import (
	"fmt"
	"strconv"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const datasetMargin = 50

// classPalette colours iris classes by label index
var classPalette = []drawing.Color{colorRed, colorGreen, colorBlue}

// Normalize maps value from [min, max] onto [margin, margin+extent].
// A zero-width range maps everything onto the margin.
func Normalize(value, min, max, margin, extent float64) float64 {
	span := max - min
	if span == 0 {
		span = 1
	}
	return margin + (value-min)/span*extent
}

// RenderDataset clears the surface and draws a sample of the given dataset
func RenderDataset(key algorithms.Dataset, s *Surface, dataset *api.Dataset) error {
	if err := s.Validate(); err != nil {
		return err
	}
	info, ok := algorithms.LookupDataset(key)
	if !ok {
		return fmt.Errorf("%w: %s", algorithms.ErrUnknownDataset, key)
	}
	if dataset == nil {
		return ErrNoData
	}
	if err := api.ValidateDataset(dataset); err != nil {
		return fmt.Errorf("invalid dataset %s: %w", key, err)
	}

	log.Debug().Str("dataset", string(key)).Int("samples", len(dataset.Samples)).Msg("drawing dataset")
	s.Clear()

	if key == algorithms.MNIST {
		renderDigits(s, dataset)
		return nil
	}
	renderScatter(s, info, dataset)
	return nil
}

// projection extracts the plotted x/y pairs, skipping rows too short for the columns
func projection(info algorithms.DatasetInfo, dataset *api.Dataset) (xs, ys []float64, labels []int) {
	for i, sample := range dataset.Samples {
		if info.XColumn >= len(sample) {
			continue
		}
		y := dataset.Labels[i]
		if info.YColumn >= 0 {
			if info.YColumn >= len(sample) {
				continue
			}
			y = sample[info.YColumn]
		}
		xs = append(xs, sample[info.XColumn])
		ys = append(ys, y)
		labels = append(labels, int(dataset.Labels[i]))
	}
	return xs, ys, labels
}

func renderScatter(s *Surface, info algorithms.DatasetInfo, dataset *api.Dataset) {
	w, h := float64(s.Width), float64(s.Height)
	plotW, plotH := w-2*datasetMargin, h-2*datasetMargin

	s.Canvas.SetStrokeColor(drawing.ColorBlack)
	s.Canvas.SetStrokeWidth(1)
	s.Canvas.MoveTo(datasetMargin, datasetMargin)
	s.Canvas.LineTo(datasetMargin, px(h-datasetMargin))
	s.Canvas.LineTo(px(w-datasetMargin), px(h-datasetMargin))
	s.Canvas.Stroke()

	s.text(info.XLabel, w/2, h-datasetMargin/2, 14, colorText, AlignCenter)
	s.verticalText(info.YLabel, datasetMargin/2, h/2, 14, colorText)

	xs, ys, labels := projection(info, dataset)
	if len(xs) == 0 {
		s.middleText("No samples", w/2, h/2, 14, colorText)
		return
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	drawTicks(s, minX, maxX, minY, maxY)

	for i := range xs {
		x := Normalize(xs[i], minX, maxX, datasetMargin, plotW)
		y := h - Normalize(ys[i], minY, maxY, datasetMargin, plotH)
		color := colorBlue
		if len(info.ClassNames) > 0 {
			color = classPalette[abs(labels[i])%len(classPalette)]
		}
		s.dot(x, y, 4, color)
	}

	if len(info.ClassNames) == 0 {
		s.text("Blue points: samples", datasetMargin, datasetMargin-10, 14, colorText, AlignLeft)
		return
	}
	for i, name := range info.ClassNames {
		y := float64(datasetMargin + 30 + i*30)
		s.dot(w-datasetMargin-150, y, 5, classPalette[i%len(classPalette)])
		s.text(name, w-datasetMargin-140, y+4, 12, colorText, AlignLeft)
	}
}

// drawTicks labels five evenly spaced values on each axis
func drawTicks(s *Surface, minX, maxX, minY, maxY float64) {
	const ticks = 5
	w, h := float64(s.Width), float64(s.Height)
	plotW, plotH := w-2*datasetMargin, h-2*datasetMargin
	bottom := h - datasetMargin

	for i := 0; i < ticks; i++ {
		frac := float64(i) / (ticks - 1)

		x := datasetMargin + frac*plotW
		s.line(x, bottom, x, bottom+5, drawing.ColorBlack, 1)
		s.text(formatTick(minX+frac*(maxX-minX)), x, bottom+17, 10, colorText, AlignCenter)

		y := bottom - frac*plotH
		s.line(datasetMargin-5, y, datasetMargin, y, drawing.ColorBlack, 1)
		s.text(formatTick(minY+frac*(maxY-minY)), datasetMargin-7, y+4, 10, colorText, AlignRight)
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
