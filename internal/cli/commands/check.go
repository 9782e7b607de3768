package commands

import (
	"sort"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"tfd/internal/config"
	"tfd/internal/database"
	"tfd/internal/runner"
	"tfd/internal/ui"
)

// CheckCommand handles the check command
type CheckCommand struct {
	config *config.Config
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(cfg *config.Config) *CheckCommand {
	return &CheckCommand{config: cfg}
}

// Execute runs the command
func (cc *CheckCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if cc.config.Flags.CreateDatabases {
		if !cc.config.Database.Enabled {
			return errors.New("no database configured: set DB_HOST")
		}
		name := cc.config.GetDatabaseName(runner.PHPUnitWorkerID)
		created, err := database.NewManager(cc.config).CreateDatabases(ctx, name)
		if err != nil {
			return err
		}
		for _, db := range created {
			color.New(color.FgGreen).Fprintf(out, "✓ Created database %s\n", db)
		}
	}

	runners := runnerTable(cc.config)
	tags := make([]string, 0, len(runners))
	for tag := range runners {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	log := logger(cc.config, cmd.ErrOrStderr())
	rows := make([]ui.CheckRow, 0, len(tags))
	failed := 0
	for _, tag := range tags {
		r := runners[tag]
		log.Printf("[%s] host environment check", tag)
		err := r.HostEnvCheck(ctx)
		if err != nil {
			failed++
		}
		rows = append(rows, ui.CheckRow{Runner: tag, Err: err, BuildReqs: r.BuildReqs()})
	}

	ui.NewFormatterTo(out).PrintCheck(rows)
	if failed > 0 {
		return errors.Errorf("%d runner(s) failed the host check", failed)
	}
	return nil
}
