package visualization

import (
	"math"
	"testing"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name                            string
		value, min, max, margin, extent float64
		expected                        float64
	}{
		{"lower bound", 1, 1, 3, 50, 100, 50},
		{"upper bound", 3, 1, 3, 50, 100, 150},
		{"midpoint", 2, 1, 3, 50, 100, 100},
		{"zero range", 4, 4, 4, 50, 100, 50},
	}

	for _, tt := range tests {
		got := Normalize(tt.value, tt.min, tt.max, tt.margin, tt.extent)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s: expected finite value, got %v", tt.name, got)
		}
		if got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func irisSample() *api.Dataset {
	return &api.Dataset{
		Samples: [][]float64{
			{5.1, 3.5, 1.4, 0.2},
			{7.0, 3.2, 4.7, 1.4},
			{6.3, 3.3, 6.0, 2.5},
		},
		Labels: []float64{0, 1, 2},
	}
}

func TestRenderIris(t *testing.T) {
	s, canvas := newRecordingSurface(600, 400)
	require.NoError(t, RenderDataset(algorithms.Iris, s, irisSample()))

	for _, name := range []string{"Setosa", "Versicolor", "Virginica", "Petal length (cm)", "Petal width (cm)"} {
		assert.True(t, canvas.hasText(name), "missing %q", name)
	}
	// three samples and three legend markers
	assert.Equal(t, 6, canvas.arcs)
	assert.Contains(t, canvas.fills, colorGreen)
}

func TestRenderRegressionPlotsLabels(t *testing.T) {
	dataset := &api.Dataset{
		Samples: [][]float64{{0}, {1}, {2}},
		Labels:  []float64{5, 5, 5},
	}

	s, canvas := newRecordingSurface(300, 300)
	require.NoError(t, RenderDataset(algorithms.Regression, s, dataset))

	assert.Equal(t, 3, canvas.arcs)
	assert.True(t, canvas.hasText("Blue points: samples"))
	// constant targets sit on the bottom margin
	assert.Contains(t, canvas.ops, "arc 50 250 4 4")
}

func TestRenderDatasetEmpty(t *testing.T) {
	empty := &api.Dataset{Samples: [][]float64{}, Labels: []float64{}}

	for _, key := range []algorithms.Dataset{algorithms.Iris, algorithms.MNIST, algorithms.Regression} {
		s, canvas := newRecordingSurface(600, 400)
		require.NoError(t, RenderDataset(key, s, empty))
		assert.True(t, canvas.hasText("No samples"), "%s should show the empty fallback", key)
	}
}

func TestRenderDatasetErrors(t *testing.T) {
	s, _ := newRecordingSurface(600, 400)

	err := RenderDataset(algorithms.Dataset("cifar"), s, irisSample())
	assert.ErrorIs(t, err, algorithms.ErrUnknownDataset)

	err = RenderDataset(algorithms.Iris, s, nil)
	assert.ErrorIs(t, err, ErrNoData)

	err = RenderDataset(algorithms.Iris, s, &api.Dataset{Samples: [][]float64{{1}}, Labels: []float64{}})
	assert.Error(t, err)
}

func TestRenderMNISTGrid(t *testing.T) {
	samples := make([][]float64, 25)
	labels := make([]float64, 25)
	for i := range samples {
		samples[i] = []float64{0}
	}

	s, canvas := newRecordingSurface(800, 400)
	require.NoError(t, RenderDataset(algorithms.MNIST, s, &api.Dataset{Samples: samples, Labels: labels}))

	for _, digit := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		assert.True(t, canvas.hasText(digit), "missing digit label %s", digit)
	}
	assert.True(t, canvas.hasText("MNIST digit samples"))
}

func TestDigitGlyphsInsideCell(t *testing.T) {
	for digit, strokes := range digitGlyphs {
		if len(strokes) == 0 {
			t.Errorf("digit %d has no strokes", digit)
		}
		for _, stroke := range strokes {
			for _, p := range stroke {
				if p.X < 0 || p.X > 14 || p.Y < 0 || p.Y > 14 {
					t.Errorf("digit %d point %v outside the 14-unit cell", digit, p)
				}
			}
		}
	}
}
