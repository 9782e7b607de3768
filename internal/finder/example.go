package finder

import "tfd/internal/domain"

const (
	// ExampleFinderName is the NAME of ExampleFinder
	ExampleFinderName = "EXAMPLE"
	// ExampleTestName is the only token ExampleFinder recognises
	ExampleTestName = "ExampleFinderTest"
	// ExampleRunnerName is the runner tag ExampleFinder emits
	ExampleRunnerName = "ExampleTestRunner"
)

// ExampleFinder resolves the single example test
type ExampleFinder struct {
	Base
}

// NewExampleFinder creates an ExampleFinder
func NewExampleFinder() (*ExampleFinder, error) {
	return &ExampleFinder{Base: NewBase(ExampleFinderName)}, nil
}

// FindMethodFromExampleFinder returns the example test when token names it
func (f *ExampleFinder) FindMethodFromExampleFinder(token string) ([]*domain.TestInfo, error) {
	if token != ExampleTestName {
		return nil, nil
	}
	ti, err := domain.NewTestInfo(ExampleTestName, ExampleRunnerName)
	if err != nil {
		return nil, err
	}
	return []*domain.TestInfo{ti}, nil
}

var exampleRegistry = MustRegistry(
	Method[*ExampleFinder]{Name: "FindMethodFromExampleFinder", Find: (*ExampleFinder).FindMethodFromExampleFinder},
)

// ExampleClass is the finder class of ExampleFinder
var ExampleClass = NewClass(ExampleFinderName, NewExampleFinder, exampleRegistry)
