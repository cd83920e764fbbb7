package api

import (
	"encoding/json"
	"math"

	"github.com/brianbland/mlviz/pkg/algorithms"
)

// AlgorithmSummary is one entry of GET /algorithms
type AlgorithmSummary struct {
	ID       algorithms.Key      `json:"id"`
	Name     string              `json:"name"`
	TaskType algorithms.TaskType `json:"task_type"`
}

// DatasetSummary is one entry of GET /datasets
type DatasetSummary struct {
	ID          algorithms.Dataset     `json:"id"`
	Name        string                 `json:"name"`
	TaskType    string                 `json:"task_type,omitempty"`
	Description map[string]interface{} `json:"description,omitempty"`
}

// Dataset represents the samples of a dataset returned by GET /dataset/:id
type Dataset struct {
	Samples     [][]float64            `json:"samples"`
	Labels      []float64              `json:"labels"`
	Description map[string]interface{} `json:"description,omitempty"`
	FetchedAt   int64                  `json:"fetchedAt,omitempty"`
}

// SplitInfo reports the train/test split the server used
type SplitInfo struct {
	TestSize    float64 `json:"test_size"`
	RandomState *int    `json:"random_state"`
	Stratify    bool    `json:"stratify"`
}

// CompareRequest is the body of POST /compare
type CompareRequest struct {
	Algorithms  []algorithms.Key   `json:"algorithms"`
	Dataset     algorithms.Dataset `json:"dataset"`
	Metric      algorithms.Metric  `json:"metric"`
	TestSize    *float64           `json:"test_size,omitempty"`
	RandomState *int               `json:"random_state,omitempty"`
	Stratify    *bool              `json:"stratify,omitempty"`
}

// MetricResult is the per-algorithm value of a comparison
type MetricResult struct {
	Metric *float64 `json:"metric"`
	Error  string   `json:"error,omitempty"`
}

type compareResponse struct {
	Results   map[algorithms.Key]MetricResult `json:"results"`
	UsedSplit *SplitInfo                      `json:"used_split,omitempty"`
}

// ComparisonEntry is one algorithm's metric value in a comparison
type ComparisonEntry struct {
	Algorithm algorithms.Key `json:"algorithm"`
	Value     *float64       `json:"value"`
	Error     string         `json:"error,omitempty"`
}

// Valid reports whether the entry carries a usable number
func (e ComparisonEntry) Valid() bool {
	return e.Value != nil && !math.IsNaN(*e.Value) && !math.IsInf(*e.Value, 0)
}

// ComparisonResult holds one metric across algorithms for one dataset.
// Entries keep the order the algorithms were requested in.
type ComparisonResult struct {
	Dataset   algorithms.Dataset `json:"dataset"`
	Metric    algorithms.Metric  `json:"metric"`
	Entries   []ComparisonEntry  `json:"entries"`
	UsedSplit *SplitInfo         `json:"usedSplit,omitempty"`
}

// TrainRequest is the body of POST /train
type TrainRequest struct {
	Algorithm   algorithms.Key     `json:"algorithm"`
	Dataset     algorithms.Dataset `json:"dataset"`
	TestSize    float64            `json:"test_size"`
	RandomState *int               `json:"random_state,omitempty"`
	Stratify    *bool              `json:"stratify,omitempty"`
}

// TrainResponse is the result of POST /train
type TrainResponse struct {
	Algorithm         algorithms.Key      `json:"algorithm"`
	Dataset           algorithms.Dataset  `json:"dataset"`
	Metrics           map[string]*float64 `json:"metrics"`
	Visualization     json.RawMessage     `json:"visualization,omitempty"`
	VisualizationData json.RawMessage     `json:"visualization_data,omitempty"`
	UsedSplit         *SplitInfo          `json:"used_split,omitempty"`
}

// VisualizationPayload returns the raw visualization object, if the server sent one.
// Both the visualization and visualization_data field names are accepted.
func (r *TrainResponse) VisualizationPayload() json.RawMessage {
	for _, raw := range []json.RawMessage{r.VisualizationData, r.Visualization} {
		if len(raw) > 0 && string(raw) != "null" {
			return raw
		}
	}
	return nil
}

// SplitRequest is the body of POST /split
type SplitRequest struct {
	Dataset     algorithms.Dataset `json:"dataset"`
	TestSize    float64            `json:"test_size"`
	RandomState *int               `json:"random_state,omitempty"`
	Stratify    *bool              `json:"stratify,omitempty"`
}

// SplitResponse is the result of POST /split
type SplitResponse struct {
	Dataset   algorithms.Dataset `json:"dataset"`
	NSamples  int                `json:"n_samples"`
	TrainSize int                `json:"train_size"`
	TestSize  int                `json:"test_size"`
	Params    SplitInfo          `json:"params"`
}
