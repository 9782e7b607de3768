package domain

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// TestFilter narrows a test class to a set of methods
type TestFilter struct {
	className string
	methods   map[string]struct{}
}

// NewTestFilter creates a TestFilter for className restricted to methods.
// Duplicate methods collapse into one.
func NewTestFilter(className string, methods ...string) (TestFilter, error) {
	if className == "" {
		return TestFilter{}, errors.New("test filter: empty class name")
	}
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if m == "" {
			return TestFilter{}, errors.Errorf("test filter %s: empty method name", className)
		}
		set[m] = struct{}{}
	}
	return TestFilter{className: className, methods: set}, nil
}

// ClassName returns the filtered class
func (f TestFilter) ClassName() string {
	return f.className
}

// Methods returns a sorted copy of the filtered methods
func (f TestFilter) Methods() []string {
	methods := make([]string, 0, len(f.methods))
	for m := range f.methods {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// HarnessStrings renders the filter the way test harnesses accept it:
// the bare class when no methods are set, otherwise one "class#method" per method.
func (f TestFilter) HarnessStrings() []string {
	if len(f.methods) == 0 {
		return []string{f.className}
	}
	out := make([]string, 0, len(f.methods))
	for _, m := range f.Methods() {
		out = append(out, f.className+"#"+m)
	}
	return out
}

func (f TestFilter) String() string {
	return strings.Join(f.HarnessStrings(), ",")
}
