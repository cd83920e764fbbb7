package api

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveDatasetToFile saves a dataset to a JSON file
func SaveDatasetToFile(dataset *Dataset, filename string) error {
	jsonData, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// LoadDatasetFromFile loads a dataset from a JSON file
func LoadDatasetFromFile(filename string) (*Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	if err := ValidateDataset(&dataset); err != nil {
		return nil, err
	}

	return &dataset, nil
}

// ValidateDataset performs shape checks on a dataset
func ValidateDataset(dataset *Dataset) error {
	if dataset == nil {
		return fmt.Errorf("dataset is nil")
	}

	if dataset.Samples == nil {
		return fmt.Errorf("missing or invalid samples field")
	}

	if dataset.Labels == nil {
		return fmt.Errorf("missing or invalid labels field")
	}

	if len(dataset.Samples) != len(dataset.Labels) {
		return fmt.Errorf("sample/label count mismatch: %d samples, %d labels",
			len(dataset.Samples), len(dataset.Labels))
	}

	return nil
}
