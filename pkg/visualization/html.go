package visualization

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func htmlInit(width, height int) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:  fmt.Sprintf("%dpx", width),
		Height: fmt.Sprintf("%dpx", height),
	})
}

func htmlToolbox() charts.GlobalOpts {
	return charts.WithToolboxOpts(opts.Toolbox{
		Show: opts.Bool(true),
		Feature: &opts.ToolBoxFeature{
			SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
				Show:  opts.Bool(true),
				Type:  "png",
				Title: "Save as Image",
			},
		},
	})
}

// RenderComparisonHTML writes an interactive bar chart of the entries.
// It follows the same filtering and colouring as RenderComparison.
func RenderComparisonHTML(w io.Writer, width, height int, catalogue algorithms.Catalogue, entries []api.ComparisonEntry, title string) (ComparisonLayout, error) {
	if width < 1 || height < 1 {
		return ComparisonLayout{}, ErrInvalidSurface
	}
	layout := ComparisonGeometry(width, height, entries)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		htmlInit(width, height),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value", Type: "value"}),
		htmlToolbox(),
	)

	if layout.NotApplicable {
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title, Subtitle: NotApplicableMessage}))
	}

	names := make([]string, 0, len(layout.Bars))
	data := make([]opts.BarData, 0, len(layout.Bars))
	for _, b := range layout.Bars {
		names = append(names, catalogue.Title(b.Algorithm))
		data = append(data, opts.BarData{
			Name:      catalogue.Title(b.Algorithm),
			Value:     b.Value,
			ItemStyle: &opts.ItemStyle{Color: b.Color.String()},
		})
	}
	bar.SetXAxis(names).AddSeries("metric", data)

	if err := bar.Render(w); err != nil {
		return layout, fmt.Errorf("failed to render chart: %w", err)
	}
	return layout, nil
}

// RenderDatasetHTML writes an interactive view of a dataset: a scatter of the
// projected columns, or a label histogram for image datasets.
func RenderDatasetHTML(w io.Writer, width, height int, key algorithms.Dataset, dataset *api.Dataset) error {
	if width < 1 || height < 1 {
		return ErrInvalidSurface
	}
	info, ok := algorithms.LookupDataset(key)
	if !ok {
		return fmt.Errorf("%w: %s", algorithms.ErrUnknownDataset, key)
	}
	if err := api.ValidateDataset(dataset); err != nil {
		return fmt.Errorf("invalid dataset %s: %w", key, err)
	}

	if key == algorithms.MNIST {
		return renderLabelHistogram(w, width, height, info, dataset)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		htmlInit(width, height),
		charts.WithTitleOpts(opts.Title{Title: info.Label}),
		charts.WithXAxisOpts(opts.XAxis{Name: info.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: info.YLabel, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		htmlToolbox(),
	)

	xs, ys, labels := projection(info, dataset)
	groups := make(map[int][]opts.ScatterData)
	for i := range xs {
		group := 0
		if len(info.ClassNames) > 0 {
			group = labels[i]
		}
		groups[group] = append(groups[group], opts.ScatterData{
			Value:      []interface{}{xs[i], ys[i]},
			SymbolSize: 6,
		})
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		name := "samples"
		color := colorBlue
		if len(info.ClassNames) > 0 {
			name = className(info, k)
			color = classPalette[abs(k)%len(classPalette)]
		}
		scatter.AddSeries(name, groups[k], charts.WithItemStyleOpts(opts.ItemStyle{Color: color.String()}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func className(info algorithms.DatasetInfo, label int) string {
	if label >= 0 && label < len(info.ClassNames) {
		return info.ClassNames[label]
	}
	return "class " + strconv.Itoa(label)
}

func renderLabelHistogram(w io.Writer, width, height int, info algorithms.DatasetInfo, dataset *api.Dataset) error {
	counts := make([]int, 10)
	for _, label := range dataset.Labels {
		digit := int(label)
		if digit >= 0 && digit < len(counts) {
			counts[digit]++
		}
	}

	names := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		names[i] = strconv.Itoa(i)
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		htmlInit(width, height),
		charts.WithTitleOpts(opts.Title{Title: info.Label, Subtitle: "Samples per digit"}),
		htmlToolbox(),
	)
	bar.SetXAxis(names).AddSeries("samples", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
