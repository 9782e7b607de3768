package commands

import (
	"github.com/spf13/cobra"

	"tfd/internal/config"
	"tfd/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config *config.Config
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{config: cfg}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := newDispatcher(cmd, lc.config)
	if err != nil {
		return err
	}

	infos, unresolved, err := d.Resolve(cmd.Context(), args)
	if err != nil {
		return err
	}
	reqs, err := d.BuildReqs(infos)
	if err != nil {
		return err
	}

	formatter := ui.NewFormatterTo(cmd.OutOrStdout())
	formatter.PrintTestList(infos, unresolved)
	formatter.PrintBuildReqs(reqs)
	return nil
}
