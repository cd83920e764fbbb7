package visualization

import (
	"fmt"
	"math"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// FormatMetric renders a metric value with four decimals, or N/A when absent
func FormatMetric(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *v)
}

// MetricCards returns the lines of the performance panel in fixed order
func MetricCards(metrics map[string]*float64) []string {
	lines := make([]string, 0, len(algorithms.Metrics()))
	for _, m := range algorithms.Metrics() {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Label(), FormatMetric(metrics[string(m)])))
	}
	return lines
}

// RenderMetrics overlays the performance panel on an already drawn surface
func RenderMetrics(s *Surface, metrics map[string]*float64) error {
	if err := s.Validate(); err != nil {
		return err
	}
	w := float64(s.Width)

	s.text("Performance", w/2, 30, 14, colorText, AlignCenter)

	card := drawing.ColorWhite.WithAlpha(204)
	for i, line := range MetricCards(metrics) {
		y := float64(50 + i*30)
		s.rect(w-200, y, 180, 25, card, nil)
		s.text(line, w-190, y+18, 12, colorText, AlignLeft)
	}
	return nil
}
