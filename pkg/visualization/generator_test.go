package visualization

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	generator := NewGenerator(DefaultChartOptions(), algorithms.Default())
	if generator == nil {
		t.Fatal("NewGenerator() returned nil")
	}

	// Verify it implements the interface
	var _ ChartGenerator = generator
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		hasError bool
	}{
		{"png", PNG, false},
		{"SVG", SVG, false},
		{"html", HTML, false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.hasError != (err != nil) {
			t.Errorf("Expected error=%v for %s, got %v", tt.hasError, tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Expected %s for %s, got %s", tt.expected, tt.input, got)
		}
	}
}

func TestGeneratorDiagramPNG(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 500, Height: 400, Format: PNG, Seed: 1}, algorithms.Default())

	for _, key := range algorithms.All() {
		var buf bytes.Buffer
		require.NoError(t, generator.Diagram(&buf, key), "diagram %s", key)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "%s should encode as PNG", key)
	}
}

func TestGeneratorDiagramDeterministic(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 320, Height: 240, Format: PNG, Seed: 9}, algorithms.Default())

	var first, second bytes.Buffer
	require.NoError(t, generator.Diagram(&first, algorithms.KMeans))
	require.NoError(t, generator.Diagram(&second, algorithms.KMeans))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestGeneratorDiagramSVG(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 500, Height: 400, Format: SVG, Seed: 1}, algorithms.Default())

	var buf bytes.Buffer
	require.NoError(t, generator.Diagram(&buf, algorithms.EM))
	assert.Contains(t, buf.String(), "<svg")
}

func TestGeneratorComparison(t *testing.T) {
	result := &api.ComparisonResult{
		Dataset: algorithms.Iris,
		Metric:  algorithms.Accuracy,
		Entries: []api.ComparisonEntry{
			{Algorithm: algorithms.SVM, Value: value(0.95)},
			{Algorithm: algorithms.KNN, Value: value(0.88)},
			{Algorithm: algorithms.DecisionTree},
		},
	}

	for _, format := range []Format{PNG, SVG, HTML} {
		generator := NewGenerator(ChartOptions{Width: 800, Height: 500, Format: format}, algorithms.Default())

		var buf bytes.Buffer
		layout, err := generator.Comparison(&buf, result)
		require.NoError(t, err, "format %s", format)
		assert.Len(t, layout.Bars, 2)
		assert.NotZero(t, buf.Len())
	}
}

func TestGeneratorComparisonHTML(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 800, Height: 500, Format: HTML}, algorithms.Default())
	result := &api.ComparisonResult{
		Dataset: algorithms.Regression,
		Metric:  algorithms.MSE,
		Entries: []api.ComparisonEntry{{Algorithm: algorithms.LinearRegression, Value: value(12.5)}},
	}

	var buf bytes.Buffer
	_, err := generator.Comparison(&buf, result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "echarts")
	assert.Contains(t, buf.String(), "Linear Regression")
}

func TestGeneratorDatasetHTML(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 800, Height: 500, Format: HTML}, algorithms.Default())

	for _, key := range []algorithms.Dataset{algorithms.Iris, algorithms.MNIST} {
		var buf bytes.Buffer
		require.NoError(t, generator.Dataset(&buf, key, irisSample()))
		assert.Contains(t, buf.String(), "echarts")
	}
}

func TestGeneratorTrainResultCluster(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 600, Height: 400, Format: PNG, Seed: 1}, algorithms.Default())
	dataset := &api.Dataset{
		Samples: [][]float64{{1, 1}, {2, 2}, {8, 8}},
		Labels:  []float64{0, 0, 1},
	}
	resp := &api.TrainResponse{
		Algorithm:     algorithms.KMeans,
		Dataset:       algorithms.Iris,
		Metrics:       map[string]*float64{"accuracy": value(0.9)},
		Visualization: json.RawMessage(`{"k":2,"centroids":[[1.5,1.5],[8,8]],"labels":[0,0,1]}`),
	}

	var buf bytes.Buffer
	require.NoError(t, generator.TrainResult(&buf, algorithms.KMeans, resp, dataset))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestGeneratorTrainResultBadPayload(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 600, Height: 400, Format: PNG}, algorithms.Default())
	resp := &api.TrainResponse{
		Algorithm:         algorithms.KMeans,
		VisualizationData: json.RawMessage(`{"centroids":[[1,2]]}`),
	}

	var buf bytes.Buffer
	err := generator.TrainResult(&buf, algorithms.KMeans, resp, nil)
	var payloadErr *PayloadError
	require.True(t, errors.As(err, &payloadErr))
	assert.Equal(t, "labels", payloadErr.Field)
	assert.Zero(t, buf.Len())
}

func TestGeneratorTrainResultUsesRequestedKey(t *testing.T) {
	generator := NewGenerator(ChartOptions{Width: 500, Height: 400, Format: PNG, Seed: 1}, algorithms.Default())
	resp := &api.TrainResponse{Metrics: map[string]*float64{"accuracy": value(0.9)}}

	var buf bytes.Buffer
	require.NoError(t, generator.TrainResult(&buf, algorithms.SVM, resp, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	err := generator.TrainResult(&buf, algorithms.Key(""), resp, nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestGeneratorExtension(t *testing.T) {
	html := NewGenerator(ChartOptions{Width: 10, Height: 10, Format: HTML}, algorithms.Default())
	assert.Equal(t, ".html", html.Extension(true))
	assert.Equal(t, ".png", html.Extension(false))

	svg := NewGenerator(ChartOptions{Width: 10, Height: 10, Format: SVG}, algorithms.Default())
	assert.Equal(t, ".svg", svg.Extension(true))
}

func TestSaveToFile(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(ChartOptions{Width: 200, Height: 200, Format: PNG}, algorithms.Default())

	filename := filepath.Join(dir, "tree.png")
	err := SaveToFile(filename, func(w io.Writer) error {
		return generator.Diagram(w, algorithms.DecisionTree)
	})
	require.NoError(t, err)

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	failed := filepath.Join(dir, "bad.png")
	err = SaveToFile(failed, func(w io.Writer) error {
		return generator.Diagram(w, algorithms.Key("nope"))
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown algorithm"))
	_, statErr := os.Stat(failed)
	assert.True(t, os.IsNotExist(statErr), "failed renders should not leave a file behind")
}

func TestNewImageSurfaceInvalid(t *testing.T) {
	_, err := NewImageSurface(PNG, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidSurface)

	_, err = NewImageSurface(HTML, 10, 10)
	assert.Error(t, err)
}
