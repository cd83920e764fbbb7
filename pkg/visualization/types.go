package visualization

import (
	"io"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
)

// ChartGenerator defines the interface for rendering charts to a writer
type ChartGenerator interface {
	Diagram(w io.Writer, key algorithms.Key) error
	Dataset(w io.Writer, key algorithms.Dataset, dataset *api.Dataset) error
	Comparison(w io.Writer, result *api.ComparisonResult) (ComparisonLayout, error)
	TrainResult(w io.Writer, key algorithms.Key, resp *api.TrainResponse, dataset *api.Dataset) error
	Extension(interactive bool) string
}

// Generator implements ChartGenerator on go-chart and go-echarts
type Generator struct {
	options   ChartOptions
	catalogue algorithms.Catalogue
}

// NewGenerator creates a new chart generator
func NewGenerator(options ChartOptions, catalogue algorithms.Catalogue) ChartGenerator {
	return &Generator{options: options, catalogue: catalogue}
}

// ChartOptions contains size, encoding and seed options for charts
type ChartOptions struct {
	Width  int
	Height int
	Format Format
	Seed   int64
}

// DefaultChartOptions returns the options used when none are configured
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  800,
		Height: 500,
		Format: PNG,
		Seed:   42,
	}
}
