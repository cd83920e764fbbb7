package visualization

import (
	"fmt"
	"math"
	"testing"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v float64) *float64 { return &v }

func TestComparisonDropsNullValues(t *testing.T) {
	entries := []api.ComparisonEntry{
		{Algorithm: algorithms.SVM, Value: value(0.95)},
		{Algorithm: algorithms.KNN, Value: value(0.88)},
		{Algorithm: algorithms.DecisionTree, Value: nil, Error: "failed"},
	}

	s, canvas := newRecordingSurface(800, 500)
	layout, err := RenderComparison(s, algorithms.Default(), entries, "Accuracy comparison (Iris)")
	require.NoError(t, err)

	require.Len(t, layout.Bars, 2)
	assert.Equal(t, algorithms.SVM, layout.Bars[0].Algorithm)
	assert.Equal(t, algorithms.KNN, layout.Bars[1].Algorithm)
	assert.False(t, layout.NotApplicable)

	assert.True(t, canvas.hasText("0.9500"))
	assert.True(t, canvas.hasText("0.8800"))
	assert.True(t, canvas.hasText("Suppor..."))
	assert.True(t, canvas.hasText("Accuracy comparison (Iris)"))

	outlined := 0
	for _, op := range canvas.ops {
		if op == "fill-stroke" {
			outlined++
		}
	}
	assert.Equal(t, len(layout.Bars), outlined, "every bar should be outlined")
	assert.Contains(t, canvas.ops, fmt.Sprintf("stroke-color %v", colorText))
}

func TestComparisonNotApplicable(t *testing.T) {
	tests := []struct {
		name    string
		entries []api.ComparisonEntry
	}{
		{"empty", nil},
		{"all null", []api.ComparisonEntry{{Algorithm: algorithms.KMeans}, {Algorithm: algorithms.EM}}},
		{"nan", []api.ComparisonEntry{{Algorithm: algorithms.SVM, Value: value(math.NaN())}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, canvas := newRecordingSurface(800, 500)
			layout, err := RenderComparison(s, algorithms.Default(), tt.entries, "title")
			require.NoError(t, err)

			assert.True(t, layout.NotApplicable)
			assert.Empty(t, layout.Bars)
			assert.True(t, canvas.hasText(NotApplicableMessage))
			assert.False(t, canvas.hasText("title"))
		})
	}
}

func TestComparisonGeometry(t *testing.T) {
	entries := []api.ComparisonEntry{
		{Algorithm: algorithms.SVM, Value: value(0.5)},
		{Algorithm: algorithms.KNN, Value: value(1.0)},
	}

	layout := ComparisonGeometry(1000, 500, entries)
	require.Len(t, layout.Bars, 2)

	spacing := 1000 * 0.3 / 3
	barWidth := 1000 * 0.6 / 2
	assert.InDelta(t, 150+spacing, layout.Bars[0].X, 1e-9)
	assert.InDelta(t, 150+spacing+barWidth+spacing, layout.Bars[1].X, 1e-9)
	assert.InDelta(t, barWidth, layout.Bars[0].Width, 1e-9)

	assert.InDelta(t, 425, layout.Baseline, 1e-9)
	assert.InDelta(t, 1.1, layout.MaxValue, 1e-9)
	assert.InDelta(t, 350/1.1, layout.Bars[1].Height, 1e-9)
	assert.InDelta(t, layout.Baseline-layout.Bars[1].Height, layout.Bars[1].Y, 1e-9)

	require.Len(t, layout.Ticks, 6)
	assert.InDelta(t, 0, layout.Ticks[0].Value, 1e-9)
	assert.InDelta(t, 1.1, layout.Ticks[5].Value, 1e-9)

	again := ComparisonGeometry(1000, 500, entries)
	assert.Equal(t, layout, again)
}

func TestComparisonAllZero(t *testing.T) {
	entries := []api.ComparisonEntry{
		{Algorithm: algorithms.LinearRegression, Value: value(0)},
		{Algorithm: algorithms.KNN, Value: value(0)},
	}

	layout := ComparisonGeometry(800, 500, entries)
	require.Len(t, layout.Bars, 2)
	assert.Equal(t, 1.0, layout.MaxValue)
	for _, bar := range layout.Bars {
		assert.Zero(t, bar.Height)
		assert.False(t, math.IsNaN(bar.Y))
	}
}

func TestComparisonColoursDiffer(t *testing.T) {
	entries := []api.ComparisonEntry{
		{Algorithm: algorithms.SVM, Value: value(0.9)},
		{Algorithm: algorithms.KNN, Value: value(0.8)},
		{Algorithm: algorithms.AdaBoost, Value: value(0.7)},
	}

	layout := ComparisonGeometry(800, 500, entries)
	assert.NotEqual(t, layout.Bars[0].Color, layout.Bars[1].Color)
	assert.NotEqual(t, layout.Bars[1].Color, layout.Bars[2].Color)
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"knn", "knn..."},
		{"AdaBoo", "AdaBoo..."},
		{"AdaBoost", "AdaBoo..."},
		{"决策树分类器算法", "决策树分类器..."},
	}

	for _, tt := range tests {
		if got := truncateTitle(tt.input); got != tt.expected {
			t.Errorf("Expected %q for %q, got %q", tt.expected, tt.input, got)
		}
	}
}

func TestComparisonTitle(t *testing.T) {
	assert.Equal(t, "Mean Squared Error comparison (Regression sample)", ComparisonTitle(algorithms.MSE, algorithms.Regression))
}
