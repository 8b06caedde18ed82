package discovery

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"nbl/internal/domain"
	"nbl/internal/execution"
	"nbl/internal/parser"
)

// Collector asks the host framework which tests it would run
type Collector struct {
	runner execution.HostRunner
	parser parser.Parser
	stream string
	log    logr.Logger
}

// NewCollector creates a Collector reading the report from stream
func NewCollector(runner execution.HostRunner, p parser.Parser, stream string, log logr.Logger) *Collector {
	return &Collector{runner: runner, parser: p, stream: stream, log: log}
}

// Collect runs the host with --collect-only over targets and returns the
// reported tests as candidates, in report order.
func (c *Collector) Collect(ctx context.Context, targets []string, workDir string) ([]domain.Candidate, error) {
	transcript, err := c.runner.Run(ctx, execution.Invocation{
		Targets:     targets,
		WorkDir:     workDir,
		CollectOnly: true,
	})
	if err != nil {
		return nil, err
	}

	result, err := c.parser.Parse(transcript.Report(c.stream))
	if err != nil {
		return nil, fmt.Errorf("collect tests: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(result.ShortResults))
	for _, s := range result.ShortResults {
		name, err := s.Qualified()
		if err != nil {
			return nil, fmt.Errorf("collect tests: %w", err)
		}
		candidates = append(candidates, domain.Candidate{Name: name, Source: domain.SourceCollected})
	}
	c.log.V(1).Info("collected tests", "count", len(candidates), "exit", transcript.ExitCode)
	return candidates, nil
}

// StaticCandidates scans root for test modules and extracts their test cases
// without running the host.
func StaticCandidates(scanner *Scanner, p *Parser, root string) ([]domain.Candidate, error) {
	files, err := scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	var candidates []domain.Candidate
	for _, file := range files {
		names, err := p.FindTestCases(file)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			candidates = append(candidates, domain.Candidate{Name: name, Source: domain.SourceStatic, File: file})
		}
	}
	return candidates, nil
}
