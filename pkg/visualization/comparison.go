package visualization

import (
	"fmt"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// NotApplicableMessage is shown when no algorithm produced a value
const NotApplicableMessage = "The selected metric does not apply to any algorithm on this dataset"

// Bar is one drawn bar of the comparison chart, in pixels
type Bar struct {
	Algorithm algorithms.Key
	Value     float64
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Color     drawing.Color
}

// Tick is one labelled value on the Y axis
type Tick struct {
	Value float64
	Y     float64
}

// ComparisonLayout is the geometry of a comparison chart
type ComparisonLayout struct {
	Bars          []Bar
	Ticks         []Tick
	Baseline      float64
	MaxValue      float64
	NotApplicable bool
}

// ValidEntries keeps the entries with a usable metric value, in order
func ValidEntries(entries []api.ComparisonEntry) []api.ComparisonEntry {
	valid := make([]api.ComparisonEntry, 0, len(entries))
	for _, e := range entries {
		if e.Valid() {
			valid = append(valid, e)
		}
	}
	return valid
}

// ComparisonGeometry lays out bars for the given entries on a width x height surface.
// Entries without a usable value are dropped; with none left the layout is NotApplicable.
func ComparisonGeometry(width, height int, entries []api.ComparisonEntry) ComparisonLayout {
	valid := ValidEntries(entries)
	w, h := float64(width), float64(height)
	layout := ComparisonLayout{Baseline: 0.85 * h}

	if len(valid) == 0 {
		layout.NotApplicable = true
		return layout
	}

	values := make([]float64, len(valid))
	for i, e := range valid {
		values[i] = *e.Value
	}

	n := float64(len(valid))
	barWidth := w * 0.6 / n
	spacing := w * 0.3 / (n + 1)
	startX := w*0.15 + spacing

	maxValue := floats.Max(values) * 1.1
	if maxValue <= 0 {
		maxValue = 1
	}
	scale := h * 0.7 / maxValue
	layout.MaxValue = maxValue

	for i := 0; i <= 5; i++ {
		v := float64(i) * maxValue / 5
		layout.Ticks = append(layout.Ticks, Tick{Value: v, Y: layout.Baseline - v*scale})
	}

	for i, e := range valid {
		barHeight := values[i] * scale
		if barHeight < 0 {
			barHeight = 0
		}
		layout.Bars = append(layout.Bars, Bar{
			Algorithm: e.Algorithm,
			Value:     values[i],
			X:         startX + float64(i)*(barWidth+spacing),
			Y:         layout.Baseline - barHeight,
			Width:     barWidth,
			Height:    barHeight,
			Color:     hslColor(360*float64(i)/n, 0.7, 0.6),
		})
	}

	return layout
}

// ComparisonTitle is the heading of a comparison chart
func ComparisonTitle(metric algorithms.Metric, dataset algorithms.Dataset) string {
	return fmt.Sprintf("%s comparison (%s)", metric.Label(), dataset.Label())
}

// truncateTitle keeps the first six runes of a title and always marks the cut
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > 6 {
		runes = runes[:6]
	}
	return string(runes) + "..."
}

// RenderComparison clears the surface and draws a bar chart of the entries
func RenderComparison(s *Surface, catalogue algorithms.Catalogue, entries []api.ComparisonEntry, title string) (ComparisonLayout, error) {
	if err := s.Validate(); err != nil {
		return ComparisonLayout{}, err
	}

	layout := ComparisonGeometry(s.Width, s.Height, entries)
	w, h := float64(s.Width), float64(s.Height)

	s.Clear()

	if layout.NotApplicable {
		log.Info().Int("entries", len(entries)).Msg("no comparable metric values")
		s.middleText(NotApplicableMessage, w/2, h/2, 16, colorText)
		return layout, nil
	}

	s.arrowedAxes(layout.Baseline)

	left := w * 0.1
	for _, tick := range layout.Ticks {
		s.line(left-5, tick.Y, left, tick.Y, drawing.ColorBlack, 1)
		s.text(fmt.Sprintf("%.2f", tick.Value), w*0.08, tick.Y+4, 12, colorText, AlignRight)
	}

	for _, bar := range layout.Bars {
		s.rect(bar.X, bar.Y, bar.Width, bar.Height, bar.Color, &colorText)
		centre := bar.X + bar.Width/2
		s.text(fmt.Sprintf("%.4f", bar.Value), centre, bar.Y-10, 12, colorText, AlignCenter)
		s.text(truncateTitle(catalogue.Title(bar.Algorithm)), centre, layout.Baseline+20, 12, colorText, AlignCenter)
	}

	s.text(title, w/2, h*0.1, 16, colorText, AlignCenter)
	return layout, nil
}
