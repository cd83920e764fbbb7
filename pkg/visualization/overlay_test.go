package visualization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "N/A", FormatMetric(nil))
	assert.Equal(t, "N/A", FormatMetric(value(math.NaN())))
	assert.Equal(t, "0.9333", FormatMetric(value(0.93333)))
}

func TestRenderMetrics(t *testing.T) {
	metrics := map[string]*float64{
		"accuracy": value(0.95),
		"mse":      nil,
	}

	s, canvas := newRecordingSurface(800, 500)
	require.NoError(t, RenderMetrics(s, metrics))

	assert.True(t, canvas.hasText("Performance"))
	assert.True(t, canvas.hasText("Accuracy: 0.9500"))
	assert.True(t, canvas.hasText("Precision: N/A"))
	assert.True(t, canvas.hasText("Mean Squared Error: N/A"))
	assert.Len(t, canvas.fills, 5)
}
