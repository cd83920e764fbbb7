package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/rs/zerolog/log"
)

// compareJob is one dataset comparison to run
type compareJob struct {
	request api.CompareRequest
}

// compareResult is the outcome of one compareJob
type compareResult struct {
	dataset algorithms.Dataset
	result  *api.ComparisonResult
	err     error
}

// Requests groups the service's algorithms by task type into one compare
// request per dataset: classifiers for iris and mnist, regressors for regression.
func Requests(list []api.AlgorithmSummary) []api.CompareRequest {
	var classifiers, regressors []algorithms.Key
	for _, a := range list {
		switch a.TaskType {
		case algorithms.TaskClassification:
			classifiers = append(classifiers, a.ID)
		case algorithms.TaskRegression:
			regressors = append(regressors, a.ID)
		case algorithms.TaskBoth:
			classifiers = append(classifiers, a.ID)
			regressors = append(regressors, a.ID)
		}
	}

	requests := make([]api.CompareRequest, 0, 3)
	for _, info := range algorithms.Datasets() {
		keys := classifiers
		if info.Task == algorithms.TaskRegression {
			keys = regressors
		}
		requests = append(requests, api.CompareRequest{
			Algorithms: keys,
			Dataset:    info.Key,
			Metric:     info.Metric,
		})
	}
	return requests
}

// Collect fetches the algorithm list and runs the per-dataset comparisons concurrently
func Collect(ctx context.Context, client api.Client) (map[algorithms.Dataset]*api.ComparisonResult, error) {
	list, err := client.Algorithms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}

	requests := Requests(list)
	jobs := make(chan compareJob, len(requests))
	resultChan := make(chan compareResult, len(requests))
	var wg sync.WaitGroup

	// Start one worker per dataset
	for i := 0; i < len(requests); i++ {
		wg.Add(1)
		go worker(ctx, client, jobs, resultChan, &wg)
	}

	for _, req := range requests {
		jobs <- compareJob{request: req}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make(map[algorithms.Dataset]*api.ComparisonResult, len(requests))
	var firstErr error
	for r := range resultChan {
		if r.err != nil {
			log.Error().Err(r.err).Str("dataset", string(r.dataset)).Msg("comparison failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to compare on %s: %w", r.dataset, r.err)
			}
			continue
		}
		results[r.dataset] = r.result
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// worker runs compare jobs until the channel is drained
func worker(ctx context.Context, client api.Client, jobs <-chan compareJob, results chan<- compareResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- compareResult{dataset: job.request.Dataset, err: ctx.Err()}
			continue
		default:
		}

		result, err := client.Compare(ctx, job.request)
		results <- compareResult{dataset: job.request.Dataset, result: result, err: err}
	}
}
