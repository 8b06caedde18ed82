package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nbl/internal/domain"
)

// Save writes the run result and its metadata to the configured JSON output file.
func (s *JSONStorage) Save(result *domain.RunResult, meta domain.RunMeta) error {
	data, err := json.MarshalIndent(domain.StoredRun{Meta: meta, Result: *result}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.StoredRun, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var run domain.StoredRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	if run.Result.ShortResults == nil {
		run.Result.ShortResults = []domain.ShortResult{}
	}
	return &run, nil
}
