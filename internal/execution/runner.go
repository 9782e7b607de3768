package execution

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"tfd/internal/domain"
)

// DefaultShell interprets command lines
const DefaultShell = "/bin/sh"

// killGrace bounds the wait for output after a canceled command was killed
const killGrace = 2 * time.Second

// ShellExecutor runs commands through a shell on the host
type ShellExecutor struct {
	Shell   string        // Defaults to DefaultShell
	Dir     string        // Working directory, empty for the current one
	Env     []string      // Added to the current environment
	Timeout time.Duration // Per invocation, zero for none
}

// NewShellExecutor creates a ShellExecutor running in dir
func NewShellExecutor(dir string, timeout time.Duration, env ...string) *ShellExecutor {
	return &ShellExecutor{Shell: DefaultShell, Dir: dir, Env: env, Timeout: timeout}
}

// Execute runs command with "sh -c" and waits for it
func (e *ShellExecutor) Execute(ctx context.Context, command string) (domain.InvocationResult, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	shell := e.Shell
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.Dir = e.Dir
	killProcessGroup(cmd)
	// Output pipes may be held by processes outside the group
	cmd.WaitDelay = killGrace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	result := domain.InvocationResult{
		Command:  command,
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return classify(ctx, result, runErr)
}

func classify(ctx context.Context, result domain.InvocationResult, runErr error) (domain.InvocationResult, error) {
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		result.Status = domain.StatusPassed
		return result, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Status = domain.StatusTimeout
		result.Err = errors.Wrapf(ErrTimeout, "%s", result.Command)
	case errors.Is(ctx.Err(), context.Canceled):
		result.Status = domain.StatusCanceled
		result.Err = errors.Wrapf(ErrCanceled, "%s", result.Command)
	case errors.As(runErr, &exitErr):
		result.Status = domain.StatusFailed
		result.Err = errors.Wrapf(ErrNonZeroExit, "%s: exit status %d", result.Command, result.ExitCode)
	default:
		result.Status = domain.StatusError
		result.Err = errors.Wrapf(runErr, "start %s", result.Command)
	}
	return result, result.Err
}
