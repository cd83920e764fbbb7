package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/config"
	"github.com/brianbland/mlviz/pkg/report"
	"github.com/brianbland/mlviz/pkg/server"
	"github.com/brianbland/mlviz/pkg/visualization"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// command runs one subcommand with the parsed configuration and positional arguments
type command func(app *app, args []string) error

var commands = map[string]command{
	"cards":   handleCards,
	"diagram": handleDiagram,
	"dataset": handleDataset,
	"compare": handleCompare,
	"train":   handleTrain,
	"split":   handleSplit,
	"report":  handleReport,
	"fetch":   handleFetch,
	"serve":   handleServe,
}

// app bundles what every subcommand needs
type app struct {
	cfg       *config.Config
	run       *config.RunConfig
	client    api.Client
	catalogue algorithms.Catalogue
	generator visualization.ChartGenerator
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-help" || os.Args[1] == "--help" {
		config.NewParser().ShowDetailedHelp()
		return
	}

	name := os.Args[1]
	handler, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s (run 'mlviz help')\n", name)
		os.Exit(1)
	}

	positional, flags := splitArgs(os.Args[2:])
	parser := config.NewParser()
	cfg, run, err := parser.Parse(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if run.ShowHelp {
		return
	}
	positional = append(positional, parser.Args()...)

	setupLogging(cfg)

	client := api.NewHTTPClient(cfg.APIURL)
	client.SetTimeout(cfg.Timeout)
	catalogue := algorithms.Default()

	a := &app{
		cfg:       cfg,
		run:       run,
		client:    client,
		catalogue: catalogue,
		generator: visualization.NewGenerator(cfg.ChartOptions(), catalogue),
	}

	if err := handler(a, positional); err != nil {
		log.Error().Err(err).Str("command", name).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitArgs separates the leading positional arguments from the flags that follow them
func splitArgs(args []string) (positional, flags []string) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return positional, args[i:]
		}
		positional = append(positional, arg)
	}
	return positional, nil
}

func setupLogging(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// context bounds one command by the configured API timeout
func (a *app) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.Timeout)
}

func (a *app) path(name string) string {
	return filepath.Join(a.cfg.OutputDir, name)
}

// datasetArg returns the dataset named at args[i], or the configured one
func (a *app) datasetArg(args []string, i int) (algorithms.Dataset, error) {
	if len(args) > i {
		return algorithms.ParseDataset(args[i])
	}
	return a.cfg.DatasetKey(), nil
}

// handleCards lists the algorithm cards
func handleCards(a *app, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Key\tAlgorithm\tTask\tSummary")
	for _, info := range a.catalogue.Infos() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Key, info.Title, info.Task, info.Summary(100))
	}
	return w.Flush()
}

// handleDiagram draws one diagram, or every diagram for "all"
func handleDiagram(a *app, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: mlviz diagram <algorithm|all> [flags]")
		fmt.Printf("Algorithms: %v\n", algorithms.All())
		return errors.New("missing algorithm")
	}

	var keys []algorithms.Key
	if args[0] == "all" {
		keys = algorithms.All()
	} else {
		key, err := algorithms.ParseKey(args[0])
		if err != nil {
			return err
		}
		keys = []algorithms.Key{key}
	}

	ext := a.generator.Extension(false)
	for _, key := range keys {
		key := key
		filename := a.path(fmt.Sprintf("diagram_%s%s", key, ext))
		if err := visualization.SaveToFile(filename, func(w io.Writer) error {
			return a.generator.Diagram(w, key)
		}); err != nil {
			return fmt.Errorf("failed to draw %s: %w", key, err)
		}
	}
	return nil
}

// handleDataset draws a dataset sample from the API or from a file saved by fetch
func handleDataset(a *app, args []string) error {
	key, err := a.datasetArg(args, 0)
	if err != nil {
		return err
	}

	var dataset *api.Dataset
	if a.run.From != "" {
		fmt.Printf("Loading dataset from %s...\n", a.run.From)
		if dataset, err = api.LoadDatasetFromFile(a.run.From); err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
	} else {
		ctx, cancel := a.withTimeout()
		defer cancel()
		if dataset, err = a.client.Dataset(ctx, key, a.cfg.SampleSize); err != nil {
			return fmt.Errorf("failed to fetch dataset %s: %w", key, err)
		}
	}
	fmt.Printf("✅ %s: %d samples\n", key.Label(), len(dataset.Samples))

	filename := a.path(fmt.Sprintf("dataset_%s%s", key, a.generator.Extension(true)))
	return visualization.SaveToFile(filename, func(w io.Writer) error {
		return a.generator.Dataset(w, key, dataset)
	})
}

// handleCompare compares algorithms on one metric and draws the bar chart
func handleCompare(a *app, args []string) error {
	dataset := a.cfg.DatasetKey()
	info, _ := algorithms.LookupDataset(dataset)

	var keys []algorithms.Key
	if len(args) == 0 || args[0] == "all" {
		keys = a.catalogue.Applicable(info.Task)
	} else {
		for _, part := range strings.Split(args[0], ",") {
			key, err := algorithms.ParseKey(part)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
	}

	testSize := a.cfg.TestSize
	req := api.CompareRequest{
		Algorithms: keys,
		Dataset:    dataset,
		Metric:     a.cfg.MetricKey(),
		TestSize:   &testSize,
	}

	fmt.Printf("Comparing %d algorithms on %s (%s)...\n", len(keys), dataset.Label(), req.Metric.Label())
	ctx, cancel := a.withTimeout()
	defer cancel()
	result, err := a.client.Compare(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to compare: %w", err)
	}

	printComparison(result, a.catalogue)

	filename := a.path(fmt.Sprintf("compare_%s_%s%s", dataset, req.Metric, a.generator.Extension(true)))
	return visualization.SaveToFile(filename, func(w io.Writer) error {
		layout, err := a.generator.Comparison(w, result)
		if err == nil && layout.NotApplicable {
			fmt.Println(visualization.NotApplicableMessage)
		}
		return err
	})
}

func printComparison(result *api.ComparisonResult, catalogue algorithms.Catalogue) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Algorithm\t%s\n", result.Metric.Label())
	for _, entry := range result.Entries {
		value := visualization.FormatMetric(entry.Value)
		if entry.Error != "" {
			value = "N/A (" + entry.Error + ")"
		}
		fmt.Fprintf(w, "%s\t%s\n", catalogue.Title(entry.Algorithm), value)
	}
	w.Flush()
}

// handleTrain trains one algorithm and draws the result with its metrics
func handleTrain(a *app, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: mlviz train <algorithm> [dataset] [-test-size=0.2]")
		return errors.New("missing algorithm")
	}
	key, err := algorithms.ParseKey(args[0])
	if err != nil {
		return err
	}
	dataset, err := a.datasetArg(args, 1)
	if err != nil {
		return err
	}

	fmt.Printf("Training %s on %s (test size %.2f)...\n", a.catalogue.Title(key), dataset.Label(), a.cfg.TestSize)
	ctx, cancel := a.withTimeout()
	defer cancel()
	resp, err := a.client.Train(ctx, api.TrainRequest{Algorithm: key, Dataset: dataset, TestSize: a.cfg.TestSize})
	if err != nil {
		return fmt.Errorf("failed to train: %w", err)
	}

	var data *api.Dataset
	if key == algorithms.KMeans && resp.VisualizationPayload() != nil {
		if data, err = a.client.Dataset(ctx, dataset, 0); err != nil {
			return fmt.Errorf("failed to fetch dataset %s: %w", dataset, err)
		}
	}

	for _, line := range visualization.MetricCards(resp.Metrics) {
		fmt.Printf("  %s\n", line)
	}

	filename := a.path(fmt.Sprintf("train_%s_%s%s", key, dataset, a.generator.Extension(false)))
	return visualization.SaveToFile(filename, func(w io.Writer) error {
		return a.generator.TrainResult(w, key, resp, data)
	})
}

// handleSplit asks the service to re-split a dataset and prints the sizes
func handleSplit(a *app, args []string) error {
	dataset, err := a.datasetArg(args, 0)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout()
	defer cancel()
	resp, err := a.client.Split(ctx, api.SplitRequest{Dataset: dataset, TestSize: a.cfg.TestSize})
	if err != nil {
		return fmt.Errorf("failed to split: %w", err)
	}

	fmt.Printf("Split of %s:\n", dataset.Label())
	fmt.Printf("  - Samples: %d\n", resp.NSamples)
	fmt.Printf("  - Train: %d\n", resp.TrainSize)
	fmt.Printf("  - Test: %d (ratio %.2f)\n", resp.TestSize, resp.Params.TestSize)
	return nil
}

// handleReport ranks every applicable algorithm on every dataset
func handleReport(a *app, _ []string) error {
	fmt.Printf("Collecting comparisons from %s...\n", a.cfg.APIURL)
	ctx, cancel := a.withTimeout()
	defer cancel()

	results, err := report.Collect(ctx, a.client)
	if err != nil {
		return err
	}

	rep := report.Build(a.catalogue, results)
	report.PrintRankings(os.Stdout, rep)

	fragment, err := rep.Render()
	if err != nil {
		return err
	}
	filename := a.path("report.html")
	if err := os.WriteFile(filename, []byte(fragment), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("\nReport saved to %s\n", filename)
	return nil
}

// handleFetch saves a dataset sample to a JSON file
func handleFetch(a *app, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: mlviz fetch <dataset> <output_file> [-sample-size=N]")
		fmt.Println("Example: mlviz fetch iris iris.json -sample-size=100")
		return errors.New("missing dataset or output file")
	}
	key, err := algorithms.ParseDataset(args[0])
	if err != nil {
		return err
	}
	filename := args[1]

	ctx, cancel := a.withTimeout()
	defer cancel()
	dataset, err := a.client.Dataset(ctx, key, a.cfg.SampleSize)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset %s: %w", key, err)
	}
	dataset.FetchedAt = time.Now().Unix()

	if err := api.SaveDatasetToFile(dataset, filename); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	fmt.Printf("\n✅ Successfully fetched and saved %d samples of %s to %s\n", len(dataset.Samples), key.Label(), filename)
	return nil
}

// handleServe serves charts over HTTP until interrupted
func handleServe(a *app, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer("mlviz", a.cfg.Port, a.client, a.catalogue, a.cfg.ChartOptions(), a.cfg.Timeout)
	fmt.Printf("Serving on http://localhost:%d (API %s)\n", a.cfg.Port, a.cfg.APIURL)
	return srv.Run(ctx)
}
