package domain

import (
	"strings"
	"time"
)

// Result statuses printed by the host framework for one test
const (
	StatusOK    = "ok"
	StatusFail  = "FAIL"
	StatusError = "ERROR"
	StatusSkip  = "SKIP" // nose; unittest prints "skipped"
)

// Overall run statuses printed on the last footer line
const (
	RunOK     = "OK"
	RunFailed = "FAILED"
)

// ShortResult is one parsed "<name> ... <status>" line
type ShortResult struct {
	Name   string `json:"name"`            // Fully-qualified dotted name
	Status string `json:"status"`          // ok, FAIL or ERROR, verbatim
	Owner  string `json:"owner,omitempty"` // Parenthesized class path; empty for bare functions
}

func (s ShortResult) String() string {
	return s.Status + ": " + s.Name
}

// Failed reports whether the test failed or raised an error
func (s ShortResult) Failed() bool {
	return s.Status == StatusFail || s.Status == StatusError
}

// Qualified rebuilds the structured name of the test
func (s ShortResult) Qualified() (QualifiedName, error) {
	if s.Owner == "" {
		return ParseQualifiedName(s.Name, false)
	}
	return ParseQualifiedName(s.Name, true)
}

// RunResult holds everything parsed from one verbose transcript
type RunResult struct {
	TestStatus   string        `json:"test_status"` // OK or FAILED; empty when no footer was found
	TestTime     float64       `json:"test_time"`   // Seconds
	NTests       int           `json:"n_tests"`
	NSkips       int           `json:"n_skips"`
	NFailures    int           `json:"n_failures"`
	NErrors      int           `json:"n_errors"`
	ShortResults []ShortResult `json:"shortresults"`
}

// Passed reports whether the footer said OK
func (r *RunResult) Passed() bool {
	return r.TestStatus == RunOK
}

// Names returns the set of test names found in the shortresults block
func (r *RunResult) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(r.ShortResults))
	for _, s := range r.ShortResults {
		names[s.Name] = struct{}{}
	}
	return names
}

// CountStatus counts shortresults with the given status
func (r *RunResult) CountStatus(status string) int {
	n := 0
	for _, s := range r.ShortResults {
		if s.Status == status {
			n++
		}
	}
	return n
}

// MergeRunResults combines the results of shards that ran in parallel.
// Counters are summed, shortresults keep shard order, the time is the
// slowest shard and the status is FAILED if any shard failed.
func MergeRunResults(results ...*RunResult) *RunResult {
	merged := &RunResult{ShortResults: []ShortResult{}}
	for _, r := range results {
		if r == nil {
			continue
		}
		merged.NTests += r.NTests
		merged.NSkips += r.NSkips
		merged.NFailures += r.NFailures
		merged.NErrors += r.NErrors
		merged.ShortResults = append(merged.ShortResults, r.ShortResults...)
		if r.TestTime > merged.TestTime {
			merged.TestTime = r.TestTime
		}
		switch {
		case r.TestStatus == RunFailed:
			merged.TestStatus = RunFailed
		case merged.TestStatus == "":
			merged.TestStatus = r.TestStatus
		}
	}
	return merged
}

// Transcript is the captured output of one host framework invocation
type Transcript struct {
	Args     []string      // Full command line
	Stdout   string        // Standard output
	Stderr   string        // Standard error
	Combined string        // Both streams, interleaved as written
	ExitCode int           // Recorded, not interpreted
	Duration time.Duration // Wall time of the invocation
}

// Report streams
const (
	StreamStdout   = "stdout"
	StreamStderr   = "stderr"
	StreamCombined = "combined"
)

// Report returns the stream carrying the verbose report
func (t *Transcript) Report(stream string) string {
	switch strings.ToLower(stream) {
	case StreamStdout:
		return t.Stdout
	case StreamCombined:
		return t.Combined
	default:
		return t.Stderr
	}
}

// RunMeta describes how a stored run was produced
type RunMeta struct {
	Command         string   `json:"command"`
	Rules           []string `json:"rules"`
	Shards          int      `json:"shards"`
	ExitCodes       []int    `json:"exit_codes"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Timestamp       string   `json:"timestamp"`
}

// StoredRun is the persisted form of the last run
type StoredRun struct {
	Meta   RunMeta   `json:"meta"`
	Result RunResult `json:"result"`
}
