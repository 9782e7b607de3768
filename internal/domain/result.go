package domain

import "time"

// Status is the outcome of one external invocation
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusTimeout  Status = "timeout"
	StatusCanceled Status = "canceled"
	StatusError    Status = "error" // the command could not be started
)

// InvocationResult represents the result of executing one runner command
type InvocationResult struct {
	Runner   string        // Runner tag that issued the command
	Test     string        // Test the command was built for
	Command  string        // Shell command line
	ExitCode int           // Process exit code, -1 when it never exited normally
	Stdout   string        // Captured standard output
	Stderr   string        // Captured standard error
	Duration time.Duration // Time taken to execute
	Status   Status
	Err      error

	// Test case counts reported by the harness, zero when unknown
	CasesPassed int
	CasesFailed int
}

// Success reports whether the invocation passed
func (r InvocationResult) Success() bool {
	return r.Status == StatusPassed
}

// CaseCounts returns the harness case counts, falling back to one case for the invocation
func (r InvocationResult) CaseCounts() (passed, failed int) {
	if r.CasesPassed > 0 || r.CasesFailed > 0 {
		return r.CasesPassed, r.CasesFailed
	}
	if r.Success() {
		return 1, 0
	}
	return 0, 1
}

// Output returns stdout followed by stderr
func (r InvocationResult) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}
