package main

import (
	"fmt"
	"os"

	"nbl/internal/cli"
	"nbl/internal/cli/commands"
	"nbl/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "nbl",
		Short:   "Blacklist-aware runner for nose test suites",
		Long:    `Run nose and unittest suites while skipping tests named by a blacklist, and verify the verbose report they print.`,
		Version: version,
		// Failing tests are reported by the summary, not by usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, &flags)

	// Register all commands
	cmds.Register(rootCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
