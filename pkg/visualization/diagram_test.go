package visualization

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/randomizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestDiagramsCoverEveryKey(t *testing.T) {
	seen := make(map[algorithms.Key]int)
	for _, d := range Diagrams() {
		seen[d.Key()]++
	}

	for _, key := range algorithms.All() {
		if seen[key] != 1 {
			t.Errorf("Expected exactly one diagram for %s, got %d", key, seen[key])
		}
	}
	if len(seen) != len(algorithms.All()) {
		t.Errorf("Expected %d diagrams, got %d", len(algorithms.All()), len(seen))
	}
}

func TestRenderDiagramAllSizes(t *testing.T) {
	sizes := []struct {
		width, height int
	}{
		{1, 1},
		{2, 300},
		{500, 400},
		{1200, 800},
	}

	for _, key := range algorithms.All() {
		for _, size := range sizes {
			s, canvas := newRecordingSurface(size.width, size.height)
			err := RenderDiagram(key, s, algorithms.Default(), randomizer.New(1))
			if err != nil {
				t.Errorf("%s at %dx%d: unexpected error %v", key, size.width, size.height, err)
				continue
			}
			if len(canvas.ops) == 0 {
				t.Errorf("%s at %dx%d: nothing drawn", key, size.width, size.height)
			}
		}
	}
}

func TestRenderDiagramUnknownKey(t *testing.T) {
	s, canvas := newRecordingSurface(500, 400)

	err := RenderDiagram(algorithms.Key("perceptron"), s, algorithms.Default(), randomizer.New(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
	assert.Empty(t, canvas.ops, "unknown keys must not touch the surface")
}

func TestRenderDiagramInvalidSurface(t *testing.T) {
	s, _ := newRecordingSurface(0, 400)
	err := RenderDiagram(algorithms.KNN, s, algorithms.Default(), randomizer.New(1))
	assert.ErrorIs(t, err, ErrInvalidSurface)
}

func TestRenderDiagramStartsWithClear(t *testing.T) {
	s, canvas := newRecordingSurface(500, 400)
	require.NoError(t, RenderDiagram(algorithms.SVM, s, algorithms.Default(), randomizer.New(1)))

	require.NotEmpty(t, canvas.fills)
	assert.Equal(t, fmt.Sprintf("fill-color %v", drawing.ColorWhite), canvas.ops[1])
}

func TestRenderDiagramDeterministic(t *testing.T) {
	for _, key := range algorithms.All() {
		first, a := newRecordingSurface(640, 480)
		second, b := newRecordingSurface(640, 480)

		require.NoError(t, RenderDiagram(key, first, algorithms.Default(), randomizer.New(7)))
		require.NoError(t, RenderDiagram(key, second, algorithms.Default(), randomizer.New(7)))

		assert.Equal(t, a.ops, b.ops, "same seed and size should reproduce %s", key)
	}
}

func TestRenderDiagramResizeKeepsStructure(t *testing.T) {
	for _, key := range algorithms.All() {
		small, a := newRecordingSurface(400, 300)
		large, b := newRecordingSurface(1000, 750)

		require.NoError(t, RenderDiagram(key, small, algorithms.Default(), randomizer.New(3)))
		require.NoError(t, RenderDiagram(key, large, algorithms.Default(), randomizer.New(3)))

		assert.Equal(t, a.texts, b.texts, "%s labels should not depend on size", key)
		assert.Equal(t, a.arcs, b.arcs, "%s point count should not depend on size", key)
	}
}

func TestKNNMarksFiveNeighbours(t *testing.T) {
	s, canvas := newRecordingSurface(500, 400)
	require.NoError(t, RenderDiagram(algorithms.KNN, s, algorithms.Default(), randomizer.New(5)))

	// 60 samples, the query point and 5 rings
	assert.Equal(t, 66, canvas.arcs)
	assert.True(t, canvas.hasText("Green rings: 5 nearest neighbours"))
}

func TestDecisionTreeLabels(t *testing.T) {
	s, canvas := newRecordingSurface(500, 400)
	require.NoError(t, RenderDiagram(algorithms.DecisionTree, s, algorithms.Default(), randomizer.New(1)))

	for _, label := range []string{"Feature A > 5?", "Yes", "No", "Class 1", "Class 2"} {
		assert.True(t, canvas.hasText(label), "missing node %q", label)
	}
}

func TestEmptyCatalogueSkipsMembershipCheck(t *testing.T) {
	s, _ := newRecordingSurface(500, 400)
	err := RenderDiagram(algorithms.EM, s, algorithms.Catalogue{}, randomizer.New(1))
	assert.NoError(t, err)
}
