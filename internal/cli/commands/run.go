package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tfd/internal/config"
	"tfd/internal/dispatch"
	"tfd/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config *config.Config
	viewer ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		config: cfg,
		viewer: ui.NewInvocationViewer(false),
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	extraArgs, err := rc.config.ExtraArgs()
	if err != nil {
		return err
	}

	// Interrupts terminate the running invocation and stop the rest
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []dispatch.Option
	if !rc.config.Flags.DryRun {
		opts = append(opts, dispatch.WithObserver(ui.NewProgressBarTo(cmd.ErrOrStderr())))
	}
	d, err := newDispatcher(cmd, rc.config, opts...)
	if err != nil {
		return err
	}

	report, dispatchErr := d.Dispatch(ctx, args, extraArgs)
	formatter := ui.NewFormatterTo(cmd.OutOrStdout())
	if rc.config.Flags.Verbose && len(report.Infos) > 0 {
		if reqs, err := d.BuildReqs(report.Infos); err == nil {
			formatter.PrintBuildReqs(reqs)
		}
	}
	if len(report.Results) == 0 {
		if dispatchErr == nil {
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No invocations were issued")
		}
		return dispatchErr
	}

	formatter.PrintSummary(report)
	if rc.config.Flags.Inspect {
		if err := rc.viewer.View(report); err != nil {
			return err
		}
	}
	return dispatchErr
}
