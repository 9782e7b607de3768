package dispatch

import (
	"time"

	"github.com/google/uuid"

	"tfd/internal/domain"
	"tfd/internal/runner"
)

// Partition is the share of a dispatch handled by one runner
type Partition struct {
	Runner string
	Infos  []*domain.TestInfo

	runner runner.Runner
}

// Tests returns the partition's test names in order
func (p Partition) Tests() []string {
	names := make([]string, 0, len(p.Infos))
	for _, ti := range p.Infos {
		names = append(names, ti.TestName)
	}
	return names
}

// Report describes one dispatch
type Report struct {
	RunID      string
	Infos      []*domain.TestInfo
	Partitions []Partition
	Results    []domain.InvocationResult
	Unresolved []string
	Duration   time.Duration
}

func newReport() *Report {
	return &Report{RunID: uuid.New().String()}
}

// Passed returns the invocations that passed, in execution order
func (r *Report) Passed() []domain.InvocationResult {
	return r.filter(true)
}

// Failed returns the invocations that did not pass, in execution order
func (r *Report) Failed() []domain.InvocationResult {
	return r.filter(false)
}

func (r *Report) filter(success bool) []domain.InvocationResult {
	var out []domain.InvocationResult
	for _, res := range r.Results {
		if res.Success() == success {
			out = append(out, res)
		}
	}
	return out
}

// CaseCounts sums the test case counts over all invocations
func (r *Report) CaseCounts() (passed, failed int) {
	for _, res := range r.Results {
		p, f := res.CaseCounts()
		passed += p
		failed += f
	}
	return passed, failed
}

// Commands returns the executed command lines in order
func (r *Report) Commands() []string {
	commands := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		commands = append(commands, res.Command)
	}
	return commands
}
