package execution

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tfd/internal/domain"
)

// DryRunExecutor prints commands instead of running them
type DryRunExecutor struct {
	out io.Writer
}

// NewDryRunExecutor creates a DryRunExecutor writing to out
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{out: out}
}

// Execute prints command and reports success
func (e *DryRunExecutor) Execute(ctx context.Context, command string) (domain.InvocationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.InvocationResult{Command: command, ExitCode: -1, Status: domain.StatusCanceled, Err: err}, err
	}
	fmt.Fprintf(e.out, "%s %s\n", color.CyanString("[dry-run]"), command)
	return domain.InvocationResult{Command: command, Status: domain.StatusPassed}, nil
}
