package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDataset is returned for identifiers outside the dataset list
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset identifies one of the sample datasets served by the API
type Dataset string

const (
	Iris       Dataset = "iris"
	MNIST      Dataset = "mnist"
	Regression Dataset = "regression"
)

// Metric names a scalar performance measure
type Metric string

const (
	Accuracy  Metric = "accuracy"
	Precision Metric = "precision"
	Recall    Metric = "recall"
	F1        Metric = "f1"
	MSE       Metric = "mse"
)

// Metrics returns all metrics the API can compare on
func Metrics() []Metric {
	return []Metric{Accuracy, Precision, Recall, F1, MSE}
}

// Label returns the display label of a metric
func (m Metric) Label() string {
	switch m {
	case Accuracy:
		return "Accuracy"
	case Precision:
		return "Precision"
	case Recall:
		return "Recall"
	case F1:
		return "F1 Score"
	case MSE:
		return "Mean Squared Error"
	}
	return string(m)
}

// LowerIsBetter reports whether smaller values of the metric rank higher
func (m Metric) LowerIsBetter() bool {
	return m == MSE
}

// ParseMetric validates a raw metric name
func ParseMetric(s string) (Metric, error) {
	metric := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Metrics() {
		if m == metric {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric '%s', must be one of: %v", s, Metrics())
}

// DatasetInfo describes how a dataset is labelled, projected and ranked
type DatasetInfo struct {
	Key   Dataset
	Label string
	Task  TaskType

	// Metric is the metric used for this dataset in the experiment report
	Metric Metric

	// Projection used by the dataset viewer. A negative YColumn plots the label.
	XColumn int
	YColumn int
	XLabel  string
	YLabel  string

	ClassNames []string
}

// Datasets returns the built-in dataset descriptions in report order
func Datasets() []DatasetInfo {
	return []DatasetInfo{
		{
			Key:        Iris,
			Label:      "Iris",
			Task:       TaskClassification,
			Metric:     Accuracy,
			XColumn:    2,
			YColumn:    3,
			XLabel:     "Petal length (cm)",
			YLabel:     "Petal width (cm)",
			ClassNames: []string{"Setosa", "Versicolor", "Virginica"},
		},
		{
			Key:    MNIST,
			Label:  "MNIST sample",
			Task:   TaskClassification,
			Metric: Accuracy,
		},
		{
			Key:     Regression,
			Label:   "Regression sample",
			Task:    TaskRegression,
			Metric:  MSE,
			XColumn: 0,
			YColumn: -1,
			XLabel:  "Feature X",
			YLabel:  "Target Y",
		},
	}
}

// LookupDataset returns the description of a dataset
func LookupDataset(key Dataset) (DatasetInfo, bool) {
	for _, info := range Datasets() {
		if info.Key == key {
			return info, true
		}
	}
	return DatasetInfo{}, false
}

// ParseDataset validates a raw dataset identifier
func ParseDataset(s string) (Dataset, error) {
	key := Dataset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := LookupDataset(key); ok {
		return key, nil
	}
	names := make([]Dataset, 0, 3)
	for _, info := range Datasets() {
		names = append(names, info.Key)
	}
	return "", fmt.Errorf("%w '%s', must be one of: %v", ErrUnknownDataset, s, names)
}

// Label returns the display label of a dataset
func (d Dataset) Label() string {
	if info, ok := LookupDataset(d); ok {
		return info.Label
	}
	return string(d)
}
