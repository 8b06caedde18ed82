package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nbl/internal/blacklist"
	"nbl/internal/discovery"
	"nbl/internal/domain"
	"nbl/internal/execution"
	"nbl/internal/parser"
	"nbl/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env    *Env
	plugin *blacklist.FilterPlugin
	runner execution.HostRunner
}

// NewListCommand creates a new ListCommand
func NewListCommand(env *Env, plugin *blacklist.FilterPlugin) *ListCommand {
	return &ListCommand{env: env, plugin: plugin}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.env.Config
	log := lc.env.Log

	if err := configurePlugin(lc.plugin, lc.env); err != nil {
		return err
	}

	paths := targets(cfg, args)
	var candidates []domain.Candidate
	if cfg.Flags.Static {
		scanner := discovery.NewScanner(cfg.PathsToIgnore)
		testCaseParser := discovery.NewParser()
		for _, path := range paths {
			found, err := discovery.StaticCandidates(scanner, testCaseParser, path)
			if err != nil {
				return err
			}
			candidates = append(candidates, found...)
		}
	} else {
		runner := lc.runner
		if runner == nil {
			runner = execution.NewRunner(cfg, log.WithName("runner"))
		}
		collector := discovery.NewCollector(runner, parser.NewNoseParser(log.WithName("parser")), cfg.ReportStream, log.WithName("collector"))
		found, err := collector.Collect(commandContext(cmd), paths, workDir(paths))
		if err != nil {
			return err
		}
		candidates = found
	}

	kept, dropped := discovery.NewFilter(lc.plugin).Apply(candidates)
	formatter := ui.NewFormatter(lc.env.Out)
	if len(kept) == 0 {
		color.New(color.FgYellow).Fprintln(lc.env.Out, "No tests found")
	} else {
		formatter.PrintTestList(kept)
	}

	if cfg.Flags.ShowDropped && len(dropped) > 0 {
		explained := make([]ui.DroppedTest, 0, len(dropped))
		for _, c := range dropped {
			rule, strategy, _ := lc.plugin.Explain(c.Name)
			explained = append(explained, ui.DroppedTest{Name: c.Name, Rule: rule.String(), Strategy: strategy.String()})
		}
		formatter.PrintDropped(explained)
	}
	return nil
}
