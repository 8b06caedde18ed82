package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"nbl/internal/blacklist"
	"nbl/internal/cli"
	"nbl/internal/config"
	"nbl/internal/discovery"
	"nbl/internal/logging"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Parse   *ParseCommand
	Results *ResultsCommand

	config *config.Config
	flags  *cli.Flags
	env    *Env
}

// Env is what every command needs at execution time. It is filled in once
// flags are parsed and the configuration is loaded.
type Env struct {
	Config *config.Config
	Log    logr.Logger
	Out    io.Writer
	Err    io.Writer
}

// NewCommands creates all commands sharing cfg
func NewCommands(cfg *config.Config, flags *cli.Flags) *Commands {
	env := &Env{Config: cfg, Log: logr.Discard(), Out: os.Stdout, Err: os.Stderr}
	return &Commands{
		Run:     NewRunCommand(env, blacklist.NewPlugin(logr.Discard())),
		List:    NewListCommand(env, blacklist.NewPlugin(logr.Discard())),
		Parse:   NewParseCommand(env),
		Results: NewResultsCommand(env),
		config:  cfg,
		flags:   flags,
		env:     env,
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to the project config file (default ./nbl.yaml)")
	rootCmd.PersistentFlags().CountVarP(&flags.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.load(cmd)
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run tests, skipping blacklisted ones",
		Long: `Collect tests with the host framework, drop the ones matched by the blacklist
and run the rest, optionally split over several shards. With --mode plugin the
blacklist is handed to the host's own plugin instead.`,
		RunE: c.Run.Execute,
	}
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	runCmd.Flags().IntVarP(&flags.Shards, "shards", "s", 0, "Number of host processes to split the tests over")
	runCmd.Flags().IntVar(&flags.Processes, "processes", 0, "Passed to the host as --processes")
	runCmd.Flags().BoolVar(&flags.CollectOnly, "collect-only", false, "Passed to the host: report tests without running them")
	runCmd.Flags().StringVar(&flags.Mode, "mode", "", "Selection mode: selector (filter here) or plugin (filter in the host)")
	runCmd.Flags().BoolVar(&flags.Interactive, "interactive", false, "Open the results viewer when the run finishes with failures")
	c.Run.plugin.RegisterFlags(runCmd.Flags())
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List the tests that would run",
		Long:  "Discover tests and print the ones left after applying the blacklist",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test discovery should start")
	listCmd.Flags().BoolVar(&flags.Static, "static", false, "Scan source files instead of asking the host")
	listCmd.Flags().BoolVar(&flags.ShowDropped, "show-dropped", false, "Also print blacklisted tests and the rule that matched")
	c.List.plugin.RegisterFlags(listCmd.Flags())
	rootCmd.AddCommand(listCmd)

	// Parse command
	parseCmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a saved verbose transcript",
		Long:  "Parse the verbose console report of a test run and print the counters and per-test results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.Parse.Execute,
	}
	parseCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(parseCmd)

	// Results command
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Show the last stored run",
		RunE:  c.Results.Execute,
	}
	resultsCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Open the interactive results viewer")
	resultsCmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the stored run as JSON")
	rootCmd.AddCommand(resultsCmd)
}

// load reads the configuration and builds the logger once flags are parsed
func (c *Commands) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.flags.ToConfigFlags())
	if err != nil {
		return err
	}
	*c.config = *cfg
	c.env.Out = cmd.OutOrStdout()
	c.env.Err = cmd.ErrOrStderr()
	c.env.Log = logging.New(c.flags.Verbosity, c.env.Err)
	return nil
}

// targets returns the absolute paths to hand to the host, defaulting to the
// configured test path.
func targets(cfg *config.Config, args []string) []string {
	if len(args) == 0 {
		args = []string{cfg.GetTestPath()}
	}
	out := make([]string, len(args))
	for i, arg := range args {
		if abs, err := filepath.Abs(arg); err == nil {
			arg = abs
		}
		out[i] = arg
	}
	return out
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// workDir is the import root of the first target
func workDir(targets []string) string {
	dir := targets[0]
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	return discovery.ImportRoot(dir)
}
