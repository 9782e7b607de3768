package dispatch

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"tfd/internal/runner"
)

var (
	// ErrNoTokens is returned when a dispatch is asked to resolve nothing
	ErrNoTokens = errors.New("no test tokens given")
	// ErrMissingCollaborator is returned by New when a required argument is nil
	ErrMissingCollaborator = errors.New("dispatcher collaborator missing")
)

// UnresolvedError reports a token that no finder recognised
type UnresolvedError struct {
	Token string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved token %q: no finder recognised it", e.Token)
}

// UnknownRunnerError reports a runner tag missing from the runner table
type UnknownRunnerError struct {
	Runner string
	Tests  []string
}

func (e *UnknownRunnerError) Error() string {
	return fmt.Sprintf("unknown runner %q required by %s", e.Runner, strings.Join(e.Tests, ", "))
}

// FailedError collects the failed invocations of every partition
type FailedError struct {
	Partitions []*runner.InvocationError
}

func (e *FailedError) Error() string {
	msgs := make([]string, 0, len(e.Partitions))
	for _, p := range e.Partitions {
		msgs = append(msgs, p.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each partition's *runner.InvocationError to errors.As
func (e *FailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Partitions))
	for _, p := range e.Partitions {
		errs = append(errs, p)
	}
	return errs
}
