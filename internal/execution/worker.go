package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"nbl/internal/config"
	"nbl/internal/domain"
	"nbl/internal/parser"
)

// HostRunner runs the host framework once
type HostRunner interface {
	Run(ctx context.Context, inv Invocation) (*domain.Transcript, error)
}

// Progress receives per-test counts as shards finish
type Progress interface {
	Update(successCount, failCount int)
	Finish()
}

// WorkerPool runs shards of selected tests as parallel host processes
type WorkerPool struct {
	config    *config.Config
	runner    HostRunner
	scheduler Scheduler
	parser    parser.Parser
	progress  Progress
	log       logr.Logger
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner HostRunner, scheduler Scheduler, p parser.Parser, log logr.Logger) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		parser:    p,
		log:       log,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute splits addresses over the configured number of shards, runs every
// shard, parses each transcript and merges the results in shard order.
func (wp *WorkerPool) Execute(ctx context.Context, addresses []string, inv Invocation) (*Execution, error) {
	if len(addresses) == 0 {
		return &Execution{Result: &domain.RunResult{TestStatus: domain.RunOK, ShortResults: []domain.ShortResult{}}}, nil
	}

	shards := wp.scheduler.Schedule(addresses, wp.config.Shards)
	results := make([]*domain.RunResult, len(shards))
	transcripts := make([]*domain.Transcript, len(shards))

	var mu sync.Mutex
	var passedCases, failedCases int

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			shardInv := inv
			shardInv.Targets = shard
			transcript, err := wp.runner.Run(gctx, shardInv)
			if err != nil {
				return fmt.Errorf("shard %d: %w", i+1, err)
			}
			result, err := wp.parser.Parse(transcript.Report(wp.config.ReportStream))
			if err != nil {
				return fmt.Errorf("shard %d: %w", i+1, err)
			}
			wp.log.V(1).Info("shard finished", "shard", i+1, "tests", result.NTests, "status", result.TestStatus)

			mu.Lock()
			defer mu.Unlock()
			results[i] = result
			transcripts[i] = transcript
			for _, s := range result.ShortResults {
				if s.Failed() {
					failedCases++
				} else {
					passedCases++
				}
			}
			if wp.progress != nil {
				wp.progress.Update(passedCases, failedCases)
			}
			return nil
		})
	}

	err := g.Wait()
	if wp.progress != nil {
		wp.progress.Finish()
	}
	if err != nil {
		return nil, err
	}
	return &Execution{Result: domain.MergeRunResults(results...), Transcripts: transcripts}, nil
}
