package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nbl/internal/domain"
	"nbl/internal/parser"
	"nbl/internal/ui"
)

// ParseCommand handles the parse command
type ParseCommand struct {
	env   *Env
	stdin io.Reader
}

// NewParseCommand creates a new ParseCommand
func NewParseCommand(env *Env) *ParseCommand {
	return &ParseCommand{env: env, stdin: os.Stdin}
}

// Execute parses a transcript file, or stdin when the argument is "-" or missing
func (pc *ParseCommand) Execute(cmd *cobra.Command, args []string) error {
	in := pc.stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		in = f
	}

	result, err := parser.NewNoseParser(pc.env.Log.WithName("parser")).ParseReader(in)
	if err != nil {
		return err
	}

	if pc.env.Config.Flags.JSON {
		enc := json.NewEncoder(pc.env.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	formatter := ui.NewFormatter(pc.env.Out)
	formatter.PrintResultLines(result.ShortResults)
	formatter.PrintSummary(&domain.StoredRun{Result: *result})
	return nil
}
