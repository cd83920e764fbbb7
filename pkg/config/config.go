package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/visualization"
	"github.com/rs/zerolog"
)

// EnvAPIURL overrides the default API base URL
const EnvAPIURL = "MLVIZ_API"

// Config holds the configuration shared by every command
type Config struct {
	APIURL     string        // Base URL of the training service, including /api
	Timeout    time.Duration // Timeout for each API call
	Width      int           // Surface width in pixels
	Height     int           // Surface height in pixels
	Seed       int64         // Seed for the illustrative diagrams
	Format     string        // Output encoding: png, svg or html
	OutputDir  string        // Directory charts are written to
	Dataset    string        // Dataset for dataset, compare and train
	Metric     string        // Comparison metric; empty uses the dataset's default
	TestSize   float64       // Test split ratio sent to compare, train and split
	SampleSize int           // Dataset sample size; 0 leaves it to the server
	Port       int           // Port of the serve command
	LogLevel   string        // zerolog level name
}

// RunConfig holds per-invocation switches
type RunConfig struct {
	ShowHelp bool
	From     string // Load the dataset from a file instead of the API
}

// Default returns a configuration with sensible defaults
func Default() Config {
	apiURL := api.DefaultBaseURL
	if env, ok := os.LookupEnv(EnvAPIURL); ok && env != "" {
		apiURL = env
	}
	chart := visualization.DefaultChartOptions()

	return Config{
		APIURL:     apiURL,
		Timeout:    30 * time.Second,
		Width:      chart.Width,
		Height:     chart.Height,
		Seed:       chart.Seed,
		Format:     string(chart.Format),
		OutputDir:  ".",
		Dataset:    string(algorithms.Iris),
		Metric:     "",
		TestSize:   0.2,
		SampleSize: 0,
		Port:       8080,
		LogLevel:   "info",
	}
}

// Parser handles command-line flag parsing
type Parser struct {
	config    *Config
	runConfig *RunConfig
	flagSet   *flag.FlagSet
}

// NewParser creates a new configuration parser
func NewParser() *Parser {
	config := Default()
	runConfig := &RunConfig{}

	flagSet := flag.NewFlagSet("mlviz", flag.ContinueOnError)

	return &Parser{
		config:    &config,
		runConfig: runConfig,
		flagSet:   flagSet,
	}
}

// RegisterFlags registers all command-line flags
func (p *Parser) RegisterFlags() {
	// Service flags
	p.flagSet.StringVar(&p.config.APIURL, "api", p.config.APIURL, "Base URL of the training service (env "+EnvAPIURL+")")
	p.flagSet.DurationVar(&p.config.Timeout, "timeout", p.config.Timeout, "Timeout for each API call")
	p.flagSet.IntVar(&p.config.Port, "port", p.config.Port, "Port for the serve command")

	// Rendering flags
	p.flagSet.IntVar(&p.config.Width, "width", p.config.Width, "Surface width in pixels")
	p.flagSet.IntVar(&p.config.Height, "height", p.config.Height, "Surface height in pixels")
	p.flagSet.Int64Var(&p.config.Seed, "seed", p.config.Seed, "Seed for the illustrative diagrams")
	p.flagSet.StringVar(&p.config.Format, "format", p.config.Format, "Output format: png, svg or html")
	p.flagSet.StringVar(&p.config.OutputDir, "out", p.config.OutputDir, "Directory charts are written to")

	// Experiment flags
	p.flagSet.StringVar(&p.config.Dataset, "dataset", p.config.Dataset, "Dataset: iris, mnist or regression")
	p.flagSet.StringVar(&p.config.Metric, "metric", p.config.Metric, "Metric: accuracy, precision, recall, f1 or mse")
	p.flagSet.Float64Var(&p.config.TestSize, "test-size", p.config.TestSize, "Test split ratio (0-1 exclusive)")
	p.flagSet.IntVar(&p.config.SampleSize, "sample-size", p.config.SampleSize, "Number of dataset samples to fetch (0 = server default)")

	// Run flags
	p.flagSet.StringVar(&p.config.LogLevel, "log-level", p.config.LogLevel, "Log level: debug, info, warn or error")
	p.flagSet.StringVar(&p.runConfig.From, "from", p.runConfig.From, "Load the dataset from a JSON file saved by fetch")
	p.flagSet.BoolVar(&p.runConfig.ShowHelp, "help", p.runConfig.ShowHelp, "Show detailed help")
}

// Parse parses command-line arguments and returns configuration
func (p *Parser) Parse(args []string) (*Config, *RunConfig, error) {
	p.RegisterFlags()

	if err := p.flagSet.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if p.runConfig.ShowHelp {
		p.ShowDetailedHelp()
		return p.config, p.runConfig, nil
	}

	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return p.config, p.runConfig, nil
}

// Args returns the positional arguments left after flag parsing
func (p *Parser) Args() []string {
	return p.flagSet.Args()
}

// Validate validates the configuration parameters
func (p *Parser) Validate() error {
	c := p.config

	if c.APIURL == "" {
		return fmt.Errorf("api URL must not be empty")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout (%v) must be positive", c.Timeout)
	}

	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("surface size (%dx%d) must be positive", c.Width, c.Height)
	}

	if _, err := visualization.ParseFormat(c.Format); err != nil {
		return err
	}

	if _, err := algorithms.ParseDataset(c.Dataset); err != nil {
		return err
	}

	if c.Metric != "" {
		if _, err := algorithms.ParseMetric(c.Metric); err != nil {
			return err
		}
	}

	if err := api.ValidateTestSize(c.TestSize); err != nil {
		return err
	}

	if c.SampleSize < 0 {
		return fmt.Errorf("sample size (%d) must not be negative", c.SampleSize)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port (%d) must be between 1 and 65535", c.Port)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}

	return nil
}

// DatasetKey returns the validated dataset
func (c *Config) DatasetKey() algorithms.Dataset {
	key, _ := algorithms.ParseDataset(c.Dataset)
	return key
}

// MetricKey returns the configured metric, or the dataset's default when none is set
func (c *Config) MetricKey() algorithms.Metric {
	if metric, err := algorithms.ParseMetric(c.Metric); err == nil {
		return metric
	}
	info, _ := algorithms.LookupDataset(c.DatasetKey())
	return info.Metric
}

// Level returns the zerolog level, defaulting to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// ChartOptions returns the rendering options for the visualization package
func (c *Config) ChartOptions() visualization.ChartOptions {
	format, err := visualization.ParseFormat(c.Format)
	if err != nil {
		format = visualization.PNG
	}
	return visualization.ChartOptions{
		Width:  c.Width,
		Height: c.Height,
		Format: format,
		Seed:   c.Seed,
	}
}

// ShowDetailedHelp displays comprehensive help information
func (p *Parser) ShowDetailedHelp() {
	fmt.Println("mlviz - Machine Learning Algorithm Visualizer - Complete CLI Reference")
	fmt.Println("================================================================================")
	fmt.Println()

	fmt.Println("OVERVIEW:")
	fmt.Println("  mlviz draws illustrative diagrams of ten classic algorithms, renders")
	fmt.Println("  dataset samples and metric comparisons fetched from a training service,")
	fmt.Println("  and writes an experiment report ranking the algorithms per dataset.")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println("  mlviz cards                              # List the algorithm cards")
	fmt.Println("  mlviz diagram <algorithm> [flags]        # Draw an algorithm diagram")
	fmt.Println("  mlviz diagram all [flags]                # Draw every diagram")
	fmt.Println("  mlviz dataset [dataset] [flags]          # Draw a dataset sample")
	fmt.Println("  mlviz compare <alg,alg,...|all> [flags]  # Compare algorithms on one metric")
	fmt.Println("  mlviz train <algorithm> [dataset] [flags] # Train and draw the result")
	fmt.Println("  mlviz split [dataset] [flags]            # Re-split a dataset on the service")
	fmt.Println("  mlviz report [flags]                     # Rank algorithms on every dataset")
	fmt.Println("  mlviz fetch <dataset> <file> [flags]     # Save a dataset sample to JSON")
	fmt.Println("  mlviz serve [flags]                      # Serve charts over HTTP")
	fmt.Println()

	fmt.Println("SERVICE:")
	fmt.Println("  -api=URL                     Base URL of the training service")
	fmt.Printf("                               Default: %s (env %s)\n", p.config.APIURL, EnvAPIURL)
	fmt.Println("  -timeout=30s                 Timeout for each API call")
	fmt.Printf("                               Default: %v\n", p.config.Timeout)
	fmt.Println("  -port=8080                   Port for the serve command")
	fmt.Println()

	fmt.Println("RENDERING:")
	fmt.Println("  -width=800 -height=500       Surface size in pixels")
	fmt.Printf("                               Default: %dx%d\n", p.config.Width, p.config.Height)
	fmt.Println("  -seed=42                     Seed for the illustrative diagrams")
	fmt.Println("                               The same seed and size reproduce the same image")
	fmt.Println("  -format=png                  Output format: png, svg or html")
	fmt.Println("                               html applies to dataset and compare; others fall back to png")
	fmt.Println("  -out=.                       Directory charts are written to")
	fmt.Println()

	fmt.Println("EXPERIMENT:")
	fmt.Println("  -dataset=iris                Dataset: iris, mnist or regression")
	fmt.Println("  -metric=                     Metric: accuracy, precision, recall, f1 or mse")
	fmt.Println("                               Default: accuracy for iris/mnist, mse for regression")
	fmt.Println("  -test-size=0.2               Test split ratio, strictly between 0 and 1")
	fmt.Println("  -sample-size=0               Samples to fetch for dataset (0 = server default)")
	fmt.Println("  -from=FILE                   Read the dataset from a file saved by fetch")
	fmt.Println("  -log-level=info              debug, info, warn or error")
	fmt.Println()

	fmt.Println("EXAMPLE WORKFLOWS:")
	fmt.Println("  mlviz diagram svm -width=1000 -height=600")
	fmt.Println("  mlviz compare all -dataset=iris -metric=f1 -format=html")
	fmt.Println("  mlviz train kmeans iris -test-size=0.3")
	fmt.Println("  mlviz fetch iris iris.json -sample-size=100")
	fmt.Println("  mlviz dataset iris -from=iris.json")
	fmt.Println("  mlviz report")
	fmt.Println("  mlviz serve -port=8080")
	fmt.Println()

	fmt.Println("OUTPUT FILES:")
	fmt.Println("  - diagram_<algorithm>.<png|svg>       Algorithm diagrams")
	fmt.Println("  - dataset_<dataset>.<png|svg|html>    Dataset samples")
	fmt.Println("  - compare_<dataset>_<metric>.<ext>    Metric comparisons")
	fmt.Println("  - train_<algorithm>_<dataset>.<ext>   Training results with metric panel")
	fmt.Println("  - report.html                         Experiment report")
}
