package domain

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Keys of TestInfo.Data understood by the bundled runners
const (
	// DataFilter holds []TestFilter narrowing the test to specific methods
	DataFilter = "filter"
	// DataPath holds the source path of the test
	DataPath = "path"
	// DataOptions holds []string of "key: value" harness options
	DataOptions = "options"
)

// TestInfo describes one resolved test.
// TestInfo values are handled by pointer; two infos with equal fields are still distinct.
type TestInfo struct {
	TestName     string
	TestRunner   string
	BuildTargets map[string]struct{}
	Data         map[string]any
}

// TestKey identifies a test for deduplication
type TestKey struct {
	TestName   string
	TestRunner string
}

// NewTestInfo creates a TestInfo with a fresh data map
func NewTestInfo(name, runner string, buildTargets ...string) (*TestInfo, error) {
	if name == "" {
		return nil, errors.New("test info: empty test name")
	}
	if runner == "" {
		return nil, errors.Errorf("test info %s: empty test runner", name)
	}
	ti := &TestInfo{
		TestName:     name,
		TestRunner:   runner,
		BuildTargets: make(map[string]struct{}, len(buildTargets)),
		Data:         make(map[string]any),
	}
	for _, t := range buildTargets {
		ti.BuildTargets[t] = struct{}{}
	}
	return ti, nil
}

// MustTestInfo is like NewTestInfo but panics on invalid input
func MustTestInfo(name, runner string, buildTargets ...string) *TestInfo {
	ti, err := NewTestInfo(name, runner, buildTargets...)
	if err != nil {
		panic(err)
	}
	return ti
}

// Key returns the (name, runner) pair
func (ti *TestInfo) Key() TestKey {
	return TestKey{TestName: ti.TestName, TestRunner: ti.TestRunner}
}

// HasBuildTarget reports whether target is among the build targets
func (ti *TestInfo) HasBuildTarget(target string) bool {
	_, ok := ti.BuildTargets[target]
	return ok
}

// SortedBuildTargets returns the build targets in lexical order
func (ti *TestInfo) SortedBuildTargets() []string {
	targets := make([]string, 0, len(ti.BuildTargets))
	for t := range ti.BuildTargets {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Filters returns the TestFilters stored under DataFilter, if any
func (ti *TestInfo) Filters() []TestFilter {
	filters, _ := ti.Data[DataFilter].([]TestFilter)
	return filters
}

// Clone returns a deep copy of the sets, sharing data values
func (ti *TestInfo) Clone() *TestInfo {
	c := &TestInfo{
		TestName:     ti.TestName,
		TestRunner:   ti.TestRunner,
		BuildTargets: make(map[string]struct{}, len(ti.BuildTargets)),
		Data:         make(map[string]any, len(ti.Data)),
	}
	for t := range ti.BuildTargets {
		c.BuildTargets[t] = struct{}{}
	}
	for k, v := range ti.Data {
		c.Data[k] = v
	}
	return c
}

// Merge folds other into ti: build targets are unioned, data keys of other win.
func (ti *TestInfo) Merge(other *TestInfo) {
	if ti.BuildTargets == nil {
		ti.BuildTargets = make(map[string]struct{})
	}
	if ti.Data == nil {
		ti.Data = make(map[string]any)
	}
	for t := range other.BuildTargets {
		ti.BuildTargets[t] = struct{}{}
	}
	for k, v := range other.Data {
		ti.Data[k] = v
	}
}

func (ti *TestInfo) String() string {
	return fmt.Sprintf("%s (%s)", ti.TestName, ti.TestRunner)
}
