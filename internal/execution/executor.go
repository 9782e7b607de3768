package execution

import (
	"context"

	"github.com/pkg/errors"

	"tfd/internal/domain"
)

var (
	// ErrNonZeroExit marks an invocation whose process exited with a non-zero status
	ErrNonZeroExit = errors.New("non-zero exit")
	// ErrTimeout marks an invocation killed after its time limit
	ErrTimeout = errors.New("invocation timed out")
	// ErrCanceled marks an invocation stopped by context cancellation
	ErrCanceled = errors.New("invocation canceled")
)

// Executor runs one shell command line and reports how it went.
// The returned error is non-nil exactly when the result did not pass.
type Executor interface {
	Execute(ctx context.Context, command string) (domain.InvocationResult, error)
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context, command string) (domain.InvocationResult, error)

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, command string) (domain.InvocationResult, error) {
	return f(ctx, command)
}
