package commands

import (
	"github.com/spf13/cobra"

	"tfd/internal/config"
	"tfd/internal/mapping"
	"tfd/internal/ui"
)

// MappingCommand handles the mapping command
type MappingCommand struct {
	config *config.Config
}

// NewMappingCommand creates a new MappingCommand
func NewMappingCommand(cfg *config.Config) *MappingCommand {
	return &MappingCommand{config: cfg}
}

// Execute runs the command; without an argument the project's document is printed
func (mc *MappingCommand) Execute(cmd *cobra.Command, args []string) error {
	path := mc.config.GetMappingPath()
	if len(args) > 0 {
		path = args[0]
	}
	doc, err := mapping.LoadDocument(path)
	if err != nil {
		return err
	}
	ui.NewFormatterTo(cmd.OutOrStdout()).PrintMapping(doc)
	return nil
}
