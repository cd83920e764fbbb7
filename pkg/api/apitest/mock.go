// Package apitest provides an in-memory api.Client for tests.
package apitest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
)

// MockClient implements api.Client for testing
type MockClient struct {
	mu sync.Mutex

	AlgorithmList []api.AlgorithmSummary
	DatasetList   []api.DatasetSummary
	DatasetData   map[algorithms.Dataset]*api.Dataset
	// Values holds comparison metric values per dataset and algorithm
	Values   map[algorithms.Dataset]map[algorithms.Key]float64
	Training map[algorithms.Key]*api.TrainResponse
	Err      error

	delay        time.Duration
	compareCalls []api.CompareRequest
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{
		DatasetData: make(map[algorithms.Dataset]*api.Dataset),
		Values:      make(map[algorithms.Dataset]map[algorithms.Key]float64),
		Training:    make(map[algorithms.Key]*api.TrainResponse),
	}
}

// SetValue records the metric the mock returns for an algorithm on a dataset
func (m *MockClient) SetValue(dataset algorithms.Dataset, key algorithms.Key, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Values[dataset] == nil {
		m.Values[dataset] = make(map[algorithms.Key]float64)
	}
	m.Values[dataset][key] = value
}

// SetDelay sets a delay for all requests (to simulate network latency)
func (m *MockClient) SetDelay(delay time.Duration) {
	m.delay = delay
}

// CompareCalls returns the compare requests received so far
func (m *MockClient) CompareCalls() []api.CompareRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.CompareRequest(nil), m.compareCalls...)
}

func (m *MockClient) wait(ctx context.Context) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	return m.Err
}

// Algorithms implements the api.Client interface
func (m *MockClient) Algorithms(ctx context.Context) ([]api.AlgorithmSummary, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.AlgorithmList, nil
}

// Datasets implements the api.Client interface
func (m *MockClient) Datasets(ctx context.Context) ([]api.DatasetSummary, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.DatasetList, nil
}

// Dataset implements the api.Client interface
func (m *MockClient) Dataset(ctx context.Context, key algorithms.Dataset, sampleSize int) (*api.Dataset, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	dataset, ok := m.DatasetData[key]
	if !ok {
		return nil, &api.StatusError{Path: "/dataset/" + string(key), Code: 404, Message: "dataset not found"}
	}
	return dataset, nil
}

// Compare implements the api.Client interface
func (m *MockClient) Compare(ctx context.Context, req api.CompareRequest) (*api.ComparisonResult, error) {
	m.mu.Lock()
	m.compareCalls = append(m.compareCalls, req)
	m.mu.Unlock()

	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := &api.ComparisonResult{Dataset: req.Dataset, Metric: req.Metric}
	for _, key := range req.Algorithms {
		entry := api.ComparisonEntry{Algorithm: key}
		if value, ok := m.Values[req.Dataset][key]; ok {
			v := value
			entry.Value = &v
		} else {
			entry.Error = fmt.Sprintf("%s is not applicable to %s", key, req.Dataset)
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// Train implements the api.Client interface
func (m *MockClient) Train(ctx context.Context, req api.TrainRequest) (*api.TrainResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	resp, ok := m.Training[req.Algorithm]
	if !ok {
		return nil, &api.StatusError{Path: "/train", Code: 400, Message: "unsupported algorithm"}
	}
	return resp, nil
}

// Split implements the api.Client interface
func (m *MockClient) Split(ctx context.Context, req api.SplitRequest) (*api.SplitResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return &api.SplitResponse{Dataset: req.Dataset, Params: api.SplitInfo{TestSize: req.TestSize}}, nil
}

// SetTimeout implements the api.Client interface (no-op for mock)
func (m *MockClient) SetTimeout(timeout time.Duration) {}
