package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/api/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v float64) *float64 { return &v }

func TestRankOrdering(t *testing.T) {
	entries := []api.ComparisonEntry{
		{Algorithm: algorithms.KNN, Value: value(0.88)},
		{Algorithm: algorithms.SVM, Value: value(0.95)},
		{Algorithm: algorithms.DecisionTree},
		{Algorithm: algorithms.AdaBoost, Value: value(0.88)},
	}

	tests := []struct {
		name     string
		metric   algorithms.Metric
		expected []algorithms.Key
	}{
		{"accuracy descending", algorithms.Accuracy, []algorithms.Key{algorithms.SVM, algorithms.KNN, algorithms.AdaBoost}},
		{"mse ascending", algorithms.MSE, []algorithms.Key{algorithms.KNN, algorithms.AdaBoost, algorithms.SVM}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rankings := Rank(algorithms.Default(), tt.metric, entries)
			require.Len(t, rankings, len(tt.expected))
			for i, r := range rankings {
				assert.Equal(t, tt.expected[i], r.Algorithm)
				assert.Equal(t, i+1, r.Rank)
			}
		})
	}
}

func TestBuildDirections(t *testing.T) {
	results := map[algorithms.Dataset]*api.ComparisonResult{
		algorithms.Iris: {Entries: []api.ComparisonEntry{
			{Algorithm: algorithms.KNN, Value: value(0.7)},
			{Algorithm: algorithms.SVM, Value: value(0.9)},
			{Algorithm: algorithms.NaiveBayes, Value: value(0.8)},
		}},
		algorithms.Regression: {Entries: []api.ComparisonEntry{
			{Algorithm: algorithms.KNN, Value: value(30)},
			{Algorithm: algorithms.LinearRegression, Value: value(10)},
			{Algorithm: algorithms.RandomForest, Value: value(20)},
		}},
	}

	report := Build(algorithms.Default(), results)
	require.Len(t, report.Sections, 3)

	iris := report.Sections[0].Rankings
	for i := 1; i < len(iris); i++ {
		if iris[i].Value > iris[i-1].Value {
			t.Errorf("Expected non-increasing accuracy, got %v after %v", iris[i].Value, iris[i-1].Value)
		}
	}

	assert.Empty(t, report.Sections[1].Rankings, "missing mnist result should give an empty section")

	regression := report.Sections[2].Rankings
	for i := 1; i < len(regression); i++ {
		if regression[i].Value < regression[i-1].Value {
			t.Errorf("Expected non-decreasing mse, got %v after %v", regression[i].Value, regression[i-1].Value)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	results := map[algorithms.Dataset]*api.ComparisonResult{
		algorithms.Iris: {Entries: []api.ComparisonEntry{
			{Algorithm: algorithms.SVM, Value: value(0.95)},
			{Algorithm: algorithms.Key("<script>"), Value: value(0.5)},
		}},
	}

	html, err := Generate(algorithms.Default(), results)
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<li>1. Support Vector Machine: Accuracy 0.9500</li>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "4. Summary")
	assert.Equal(t, 3, strings.Count(out, "<ul>"))
}

func TestPrintRankings(t *testing.T) {
	results := map[algorithms.Dataset]*api.ComparisonResult{
		algorithms.Regression: {Entries: []api.ComparisonEntry{
			{Algorithm: algorithms.LinearRegression, Value: value(12.5)},
		}},
	}

	var buf bytes.Buffer
	PrintRankings(&buf, Build(algorithms.Default(), results))

	out := buf.String()
	assert.Contains(t, out, "Mean Squared Error")
	assert.Contains(t, out, "Linear Regression")
	assert.Contains(t, out, "12.5000")
	assert.Contains(t, out, "no applicable results")
}

func TestRequestsGroupByTask(t *testing.T) {
	list := []api.AlgorithmSummary{
		{ID: algorithms.SVM, TaskType: algorithms.TaskClassification},
		{ID: algorithms.KNN, TaskType: algorithms.TaskBoth},
		{ID: algorithms.LinearRegression, TaskType: algorithms.TaskRegression},
		{ID: algorithms.KMeans, TaskType: algorithms.TaskClustering},
	}

	requests := Requests(list)
	require.Len(t, requests, 3)

	byDataset := make(map[algorithms.Dataset]api.CompareRequest)
	for _, r := range requests {
		byDataset[r.Dataset] = r
	}

	assert.Equal(t, []algorithms.Key{algorithms.SVM, algorithms.KNN}, byDataset[algorithms.Iris].Algorithms)
	assert.Equal(t, algorithms.Accuracy, byDataset[algorithms.MNIST].Metric)
	assert.Equal(t, []algorithms.Key{algorithms.KNN, algorithms.LinearRegression}, byDataset[algorithms.Regression].Algorithms)
	assert.Equal(t, algorithms.MSE, byDataset[algorithms.Regression].Metric)
}

func TestCollectRunsConcurrently(t *testing.T) {
	client := apitest.NewMockClient()
	client.AlgorithmList = []api.AlgorithmSummary{
		{ID: algorithms.SVM, TaskType: algorithms.TaskClassification},
		{ID: algorithms.LinearRegression, TaskType: algorithms.TaskRegression},
	}
	client.SetValue(algorithms.Iris, algorithms.SVM, 0.95)
	client.SetValue(algorithms.MNIST, algorithms.SVM, 0.9)
	client.SetValue(algorithms.Regression, algorithms.LinearRegression, 10)
	client.SetDelay(50 * time.Millisecond)

	start := time.Now()
	results, err := Collect(context.Background(), client)
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Len(t, client.CompareCalls(), 3)
	// the algorithm list and three parallel compares take two delays, not four
	assert.Less(t, int64(elapsed), int64(180*time.Millisecond))
}

func TestCollectPropagatesErrors(t *testing.T) {
	client := apitest.NewMockClient()
	client.Err = errors.New("connection refused")

	_, err := Collect(context.Background(), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
