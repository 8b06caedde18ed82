package execution

import (
	"context"

	"nbl/internal/domain"
)

// Executor runs a set of selected tests and returns the merged result
type Executor interface {
	Execute(ctx context.Context, addresses []string, inv Invocation) (*Execution, error)
}

// Execution is the outcome of running every shard
type Execution struct {
	Result      *domain.RunResult
	Transcripts []*domain.Transcript
}

// ExitCodes returns the host exit code of every shard
func (e *Execution) ExitCodes() []int {
	codes := make([]int, len(e.Transcripts))
	for i, t := range e.Transcripts {
		codes[i] = t.ExitCode
	}
	return codes
}
