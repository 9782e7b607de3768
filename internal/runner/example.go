package runner

import (
	"context"

	"tfd/internal/domain"
)

const (
	// ExampleRunnerName is the NAME of ExampleTestRunner
	ExampleRunnerName = "ExampleTestRunner"
	// ExampleExecutable is the EXECUTABLE of ExampleTestRunner
	ExampleExecutable = "echo"
	// ExampleTemplate is the command template of ExampleTestRunner
	ExampleTemplate = "{exe} {test} {options} {args}"
)

// ExampleTestRunner echoes the test name with its harness options
type ExampleTestRunner struct {
	Base
}

// NewExampleTestRunner creates an ExampleTestRunner
func NewExampleTestRunner() *ExampleTestRunner {
	return &ExampleTestRunner{Base: NewBase(ExampleRunnerName, ExampleExecutable, ExampleTemplate)}
}

// RunTests echoes every test name
func (r *ExampleTestRunner) RunTests(ctx context.Context, infos []*domain.TestInfo, extraArgs map[string]string) error {
	args := ExtraArgWords(extraArgs)
	return r.RunEach(ctx, infos, func(ti *domain.TestInfo) (string, error) {
		return r.Render(Vars{"test": {ti.TestName}, "options": OptionWords(ti), "args": args})
	})
}
