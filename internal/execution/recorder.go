package execution

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"tfd/internal/domain"
)

// Recorder is an Executor that records commands without running anything.
// Exit codes can be scripted per command.
type Recorder struct {
	mu        sync.Mutex
	commands  []string
	exitCodes map[string]int
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{exitCodes: make(map[string]int)}
}

// FailWith makes command exit with code
func (r *Recorder) FailWith(command string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitCodes[command] = code
}

// Execute records command
func (r *Recorder) Execute(ctx context.Context, command string) (domain.InvocationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := domain.InvocationResult{Command: command, Stdout: command}
	if err := ctx.Err(); err != nil {
		result.ExitCode = -1
		result.Status = domain.StatusCanceled
		result.Err = errors.Wrapf(ErrCanceled, "%s", command)
		return result, result.Err
	}
	r.commands = append(r.commands, command)
	if code := r.exitCodes[command]; code != 0 {
		result.ExitCode = code
		result.Status = domain.StatusFailed
		result.Err = errors.Wrapf(ErrNonZeroExit, "%s: exit status %d", command, code)
		return result, result.Err
	}
	result.Status = domain.StatusPassed
	return result, nil
}

// Commands returns the recorded commands in order
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}
