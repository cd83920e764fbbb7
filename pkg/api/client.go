package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is where the training service listens by default
const DefaultBaseURL = "http://localhost:5000/api"

// Client defines the operations of the remote training service
type Client interface {
	Algorithms(ctx context.Context) ([]AlgorithmSummary, error)
	Datasets(ctx context.Context) ([]DatasetSummary, error)
	Dataset(ctx context.Context, key algorithms.Dataset, sampleSize int) (*Dataset, error)
	Compare(ctx context.Context, req CompareRequest) (*ComparisonResult, error)
	Train(ctx context.Context, req TrainRequest) (*TrainResponse, error)
	Split(ctx context.Context, req SplitRequest) (*SplitResponse, error)
	SetTimeout(timeout time.Duration)
}

// HTTPClient implements Client over plain JSON/HTTP
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Path    string
	Code    int
	Message string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d from %s", e.Code, e.Path)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.Code, e.Path, e.Message)
}

// NewHTTPClient creates a client for the service at baseURL
func NewHTTPClient(baseURL string) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		timeout: time.Second * 30,
	}
}

// SetTimeout sets the timeout for API calls
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	c.httpClient.Timeout = timeout
}

// ValidateTestSize checks that a test split ratio lies strictly between 0 and 1
func ValidateTestSize(testSize float64) error {
	if !(testSize > 0 && testSize < 1) {
		return fmt.Errorf("test size (%.3f) must be between 0 and 1 exclusive", testSize)
	}
	return nil
}

// Algorithms fetches the list of algorithms the service can train
func (c *HTTPClient) Algorithms(ctx context.Context) ([]AlgorithmSummary, error) {
	var resp struct {
		Algorithms []AlgorithmSummary `json:"algorithms"`
	}
	if err := c.call(ctx, http.MethodGet, "/algorithms", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch algorithms: %w", err)
	}
	if resp.Algorithms == nil {
		return nil, fmt.Errorf("missing or invalid algorithms field")
	}
	return resp.Algorithms, nil
}

// Datasets fetches the list of datasets the service holds
func (c *HTTPClient) Datasets(ctx context.Context) ([]DatasetSummary, error) {
	var resp struct {
		Datasets []DatasetSummary `json:"datasets"`
	}
	if err := c.call(ctx, http.MethodGet, "/datasets", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch datasets: %w", err)
	}
	if resp.Datasets == nil {
		return nil, fmt.Errorf("missing or invalid datasets field")
	}
	return resp.Datasets, nil
}

// Dataset fetches a sample of a dataset. A sampleSize of zero leaves the size to the server.
func (c *HTTPClient) Dataset(ctx context.Context, key algorithms.Dataset, sampleSize int) (*Dataset, error) {
	path := "/dataset/" + url.PathEscape(string(key))
	if sampleSize > 0 {
		path += "?sample_size=" + strconv.Itoa(sampleSize)
	}

	var dataset Dataset
	if err := c.call(ctx, http.MethodGet, path, nil, &dataset); err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", key, err)
	}
	if err := ValidateDataset(&dataset); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", key, err)
	}
	dataset.FetchedAt = time.Now().Unix()
	return &dataset, nil
}

// Compare asks the service to evaluate one metric for several algorithms
func (c *HTTPClient) Compare(ctx context.Context, req CompareRequest) (*ComparisonResult, error) {
	if req.TestSize != nil {
		if err := ValidateTestSize(*req.TestSize); err != nil {
			return nil, err
		}
	}

	var resp compareResponse
	if err := c.call(ctx, http.MethodPost, "/compare", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to compare algorithms on %s: %w", req.Dataset, err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("missing or invalid results field")
	}

	return &ComparisonResult{
		Dataset:   req.Dataset,
		Metric:    req.Metric,
		Entries:   orderEntries(req.Algorithms, resp.Results),
		UsedSplit: resp.UsedSplit,
	}, nil
}

// Train trains one algorithm on one dataset and returns its metrics
func (c *HTTPClient) Train(ctx context.Context, req TrainRequest) (*TrainResponse, error) {
	if err := ValidateTestSize(req.TestSize); err != nil {
		return nil, err
	}

	var resp TrainResponse
	if err := c.call(ctx, http.MethodPost, "/train", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to train %s on %s: %w", req.Algorithm, req.Dataset, err)
	}
	return &resp, nil
}

// Split asks the service to re-split a dataset for later train and compare calls
func (c *HTTPClient) Split(ctx context.Context, req SplitRequest) (*SplitResponse, error) {
	if err := ValidateTestSize(req.TestSize); err != nil {
		return nil, err
	}

	var resp SplitResponse
	if err := c.call(ctx, http.MethodPost, "/split", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to split %s: %w", req.Dataset, err)
	}
	return &resp, nil
}

// call performs one JSON request. Failures are returned as-is; there is no retry.
func (c *HTTPClient) call(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Path: path, Code: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			statusErr.Message = errBody.Error
		}
		log.Error().Err(statusErr).Str("request_id", requestID).Msg("service returned an error")
		return statusErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// orderEntries lays out results in request order, then any extra keys sorted by name
func orderEntries(requested []algorithms.Key, results map[algorithms.Key]MetricResult) []ComparisonEntry {
	entries := make([]ComparisonEntry, 0, len(results))
	seen := make(map[algorithms.Key]bool, len(results))

	for _, key := range requested {
		result, ok := results[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, ComparisonEntry{Algorithm: key, Value: result.Metric, Error: result.Error})
	}

	var extra []algorithms.Key
	for key := range results {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, key := range extra {
		result := results[key]
		entries = append(entries, ComparisonEntry{Algorithm: key, Value: result.Metric, Error: result.Error})
	}

	return entries
}
