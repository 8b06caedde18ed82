package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/go-logr/logr"

	"nbl/internal/config"
	"nbl/internal/domain"
)

// Invocation describes one run of the host framework
type Invocation struct {
	Targets     []string // Test paths or addresses
	WorkDir     string   // Defaults to the project path
	CollectOnly bool
	Processes   int
	Blacklist   *HostBlacklist // Passed to the host's own blacklist plugin when set
}

// HostBlacklist holds blacklist options forwarded to the host
type HostBlacklist struct {
	Patterns []string
	File     string
}

// Runner invokes the host framework and captures its output
type Runner struct {
	config *config.Config
	log    logr.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, log logr.Logger) *Runner {
	return &Runner{config: cfg, log: log}
}

// Command returns the full command line for inv
func (r *Runner) Command(inv Invocation) []string {
	args := append([]string(nil), r.config.HostCommand...)
	args = append(args, "-v")
	if inv.CollectOnly {
		args = append(args, "--collect-only")
	}
	if inv.Processes > 0 {
		args = append(args, "--processes="+strconv.Itoa(inv.Processes))
	}
	if bl := inv.Blacklist; bl != nil {
		args = append(args, "--with-blacklist")
		for _, p := range bl.Patterns {
			args = append(args, "--blacklist="+p)
		}
		if bl.File != "" {
			args = append(args, "--blacklist-file="+bl.File)
		}
	}
	return append(args, inv.Targets...)
}

// Run executes the host and waits for it. A non-zero exit status is
// recorded in the transcript, not returned as an error.
func (r *Runner) Run(ctx context.Context, inv Invocation) (*domain.Transcript, error) {
	argv := r.Command(inv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Dir = inv.WorkDir
	if cmd.Dir == "" {
		cmd.Dir = r.config.ProjectPath
	}

	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}
	cmd.Stdout = &teeWriter{own: &stdout, shared: combined}
	cmd.Stderr = &teeWriter{own: &stderr, shared: combined}

	start := time.Now()
	err := cmd.Run()
	transcript := &domain.Transcript{
		Args:     argv,
		Stdout:   stripansi.Strip(stdout.String()),
		Stderr:   stripansi.Strip(stderr.String()),
		Combined: stripansi.Strip(combined.String()),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		transcript.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	r.log.V(1).Info("executed host", "command", argv, "dir", cmd.Dir, "exit", transcript.ExitCode, "duration", transcript.Duration.String())
	r.log.V(2).Info("host stdout", "output", transcript.Stdout)
	r.log.V(2).Info("host stderr", "output", transcript.Stderr)
	return transcript, nil
}

// teeWriter writes to a private buffer and to the shared combined stream.
// exec copies stdout and stderr on separate goroutines, so only the shared
// buffer needs a lock.
type teeWriter struct {
	own    *bytes.Buffer
	shared *lockedBuffer
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.own.Write(p)
	return w.shared.Write(p)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
