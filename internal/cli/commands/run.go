package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nbl/internal/blacklist"
	"nbl/internal/config"
	"nbl/internal/discovery"
	"nbl/internal/domain"
	"nbl/internal/execution"
	"nbl/internal/parser"
	"nbl/internal/storage"
	"nbl/internal/ui"
)

// ErrTestsFailed is returned when the parsed report says the run did not pass
var ErrTestsFailed = errors.New("tests failed")

// RunCommand handles the run command
type RunCommand struct {
	env    *Env
	plugin *blacklist.FilterPlugin
	runner execution.HostRunner
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(env *Env, plugin *blacklist.FilterPlugin) *RunCommand {
	return &RunCommand{env: env, plugin: plugin}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.env.Config
	log := rc.env.Log

	if err := configurePlugin(rc.plugin, rc.env); err != nil {
		return err
	}

	runner := rc.runner
	if runner == nil {
		runner = execution.NewRunner(cfg, log.WithName("runner"))
	}
	noseParser := parser.NewNoseParser(log.WithName("parser"))
	executor := execution.NewWorkerPool(cfg, runner, execution.NewRoundRobinScheduler(), noseParser, log.WithName("pool"))

	paths := targets(cfg, args)
	inv := execution.Invocation{
		WorkDir:     workDir(paths),
		CollectOnly: cfg.Flags.CollectOnly,
		Processes:   cfg.Processes,
	}

	var addresses []string
	switch cfg.Mode {
	case config.ModePlugin:
		// The host discovers and filters; one invocation over the given paths.
		addresses = paths
		if rc.plugin.Enabled() {
			file, cleanup, err := pluginRulesFile(rc.plugin)
			if err != nil {
				return err
			}
			defer cleanup()
			inv.Blacklist = &execution.HostBlacklist{File: file}
		}
		cfg.Shards = 1
	default:
		collector := discovery.NewCollector(runner, noseParser, cfg.ReportStream, log.WithName("collector"))
		candidates, err := collector.Collect(commandContext(cmd), paths, inv.WorkDir)
		if err != nil {
			return err
		}
		kept, dropped := discovery.NewFilter(rc.plugin).Apply(candidates)
		if len(dropped) > 0 {
			color.New(color.FgYellow).Fprintf(rc.env.Err, "Blacklisted %d of %d test(s)\n", len(dropped), len(candidates))
		}
		addresses = discovery.Addresses(kept)
	}

	if len(addresses) == 0 {
		color.New(color.FgYellow).Fprintln(rc.env.Out, "No tests to execute")
	} else if cfg.Mode != config.ModePlugin {
		shards := cfg.Shards
		if shards > len(addresses) {
			shards = len(addresses)
		}
		executor.SetProgress(ui.NewProgressBar(rc.env.Err, len(addresses), shards))
	}

	start := time.Now()
	execResult, err := executor.Execute(commandContext(cmd), addresses, inv)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	meta := domain.RunMeta{
		Rules:           rc.plugin.Rules().Strings(),
		Shards:          len(execResult.Transcripts),
		ExitCodes:       execResult.ExitCodes(),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	if len(execResult.Transcripts) > 0 {
		meta.Command = strings.Join(execResult.Transcripts[0].Args, " ")
	}

	st, closeStorage, err := storage.Open(cfg, log.WithName("storage"))
	if err != nil {
		return err
	}
	defer closeStorage()
	if err := st.Save(execResult.Result, meta); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	run := &domain.StoredRun{Meta: meta, Result: *execResult.Result}
	ui.NewFormatter(rc.env.Out).PrintSummary(run)

	if run.Result.Passed() {
		return nil
	}
	if cfg.Flags.Interactive {
		if err := ui.NewResultViewer().View(run); err != nil {
			return err
		}
	}
	return ErrTestsFailed
}

// configurePlugin applies configured rules and the command's logger, then
// loads the rule sources.
func configurePlugin(plugin *blacklist.FilterPlugin, env *Env) error {
	plugin.SetLogger(env.Log.WithName("blacklist"))
	plugin.UseDefaults(env.Config.GetBlacklistFile(), blacklist.FromArgs(env.Config.Blacklist.Rules))
	return plugin.Configure()
}

// pluginRulesFile writes every configured rule to one temporary file for the
// host's plugin. The returned cleanup removes it.
func pluginRulesFile(plugin *blacklist.FilterPlugin) (string, func(), error) {
	file, err := blacklist.WriteTempFile("", plugin.Rules())
	if err != nil {
		return "", nil, fmt.Errorf("write blacklist for host: %w", err)
	}
	return file, func() { blacklist.RemoveQuietly(file) }, nil
}
