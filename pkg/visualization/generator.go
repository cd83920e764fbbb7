package visualization

import (
	"fmt"
	"io"
	"os"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/randomizer"
	"github.com/rs/zerolog/log"
)

// imageFormat is the encoding used for charts that have no interactive variant
func (g *Generator) imageFormat() Format {
	if g.options.Format == SVG {
		return SVG
	}
	return PNG
}

func (g *Generator) surface(format Format) (*Surface, error) {
	return NewImageSurface(format, g.options.Width, g.options.Height)
}

// Diagram renders the illustrative sketch of an algorithm
func (g *Generator) Diagram(w io.Writer, key algorithms.Key) error {
	s, err := g.surface(g.imageFormat())
	if err != nil {
		return err
	}
	if err := RenderDiagram(key, s, g.catalogue, randomizer.New(g.options.Seed)); err != nil {
		return err
	}
	return s.Save(w)
}

// Dataset renders a dataset sample
func (g *Generator) Dataset(w io.Writer, key algorithms.Dataset, dataset *api.Dataset) error {
	if g.options.Format == HTML {
		return RenderDatasetHTML(w, g.options.Width, g.options.Height, key, dataset)
	}

	s, err := g.surface(g.options.Format)
	if err != nil {
		return err
	}
	if err := RenderDataset(key, s, dataset); err != nil {
		return err
	}
	return s.Save(w)
}

// Comparison renders a metric comparison as a bar chart
func (g *Generator) Comparison(w io.Writer, result *api.ComparisonResult) (ComparisonLayout, error) {
	if result == nil {
		return ComparisonLayout{}, ErrNoData
	}
	title := ComparisonTitle(result.Metric, result.Dataset)

	if g.options.Format == HTML {
		return RenderComparisonHTML(w, g.options.Width, g.options.Height, g.catalogue, result.Entries, title)
	}

	s, err := g.surface(g.options.Format)
	if err != nil {
		return ComparisonLayout{}, err
	}
	layout, err := RenderComparison(s, g.catalogue, result.Entries, title)
	if err != nil {
		return layout, err
	}
	return layout, s.Save(w)
}

// TrainResult renders the model trained for key: the cluster result for k-means
// payloads, the algorithm's diagram otherwise, with the performance panel on top.
func (g *Generator) TrainResult(w io.Writer, key algorithms.Key, resp *api.TrainResponse, dataset *api.Dataset) error {
	if resp == nil {
		return ErrNoData
	}
	s, err := g.surface(g.imageFormat())
	if err != nil {
		return err
	}
	rng := randomizer.New(g.options.Seed)

	payload := resp.VisualizationPayload()
	if key == algorithms.KMeans && payload != nil {
		var samples [][]float64
		if dataset != nil {
			samples = dataset.Samples
		}
		result, err := ParseClusterResult(payload, samples)
		if err != nil {
			log.Error().Err(err).Str("algorithm", string(key)).Msg("invalid visualization payload")
			return err
		}
		if err := RenderClusterResult(s, result, rng); err != nil {
			return err
		}
	} else if err := RenderDiagram(key, s, g.catalogue, rng); err != nil {
		return err
	}

	if err := RenderMetrics(s, resp.Metrics); err != nil {
		return err
	}
	return s.Save(w)
}

// Extension returns the file extension for a chart kind.
// Only dataset and comparison charts have an interactive variant.
func (g *Generator) Extension(interactive bool) string {
	if interactive && g.options.Format == HTML {
		return ".html"
	}
	return "." + string(g.imageFormat())
}

// SaveToFile creates filename and passes it to render
func SaveToFile(filename string, render func(io.Writer) error) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := render(file); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Printf("Chart saved to %s\n", filename)
	return nil
}
