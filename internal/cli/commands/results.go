package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"nbl/internal/storage"
	"nbl/internal/ui"
)

// ResultsCommand handles the results command
type ResultsCommand struct {
	env    *Env
	viewer ui.Viewer
}

// NewResultsCommand creates a new ResultsCommand
func NewResultsCommand(env *Env) *ResultsCommand {
	return &ResultsCommand{env: env, viewer: ui.NewResultViewer()}
}

// Execute shows the last stored run
func (rc *ResultsCommand) Execute(cmd *cobra.Command, args []string) error {
	st, closeStorage, err := storage.Open(rc.env.Config, rc.env.Log.WithName("storage"))
	if err != nil {
		return err
	}
	defer closeStorage()

	run, err := st.Load()
	if err != nil {
		return err
	}

	switch {
	case rc.env.Config.Flags.Interactive:
		return rc.viewer.View(run)
	case rc.env.Config.Flags.JSON:
		enc := json.NewEncoder(rc.env.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	default:
		ui.NewFormatter(rc.env.Out).PrintSummary(run)
		return nil
	}
}
