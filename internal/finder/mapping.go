package finder

import (
	"strings"

	"tfd/internal/domain"
	"tfd/internal/mapping"
)

// MappingFinderName is the NAME of MappingFinder
const MappingFinderName = "TEST_MAPPING"

// GroupPrefix marks a token that names a whole test-mapping group, e.g. "@presubmit"
const GroupPrefix = "@"

// MappingFinder resolves tokens against a test-mapping document
type MappingFinder struct {
	Base
	doc    *mapping.Document
	runner string
}

// NewMappingFinder creates a MappingFinder whose results dispatch to runner
func NewMappingFinder(doc *mapping.Document, runner string) *MappingFinder {
	return &MappingFinder{Base: NewBase(MappingFinderName), doc: doc, runner: runner}
}

// FindByName resolves a token equal to a test name in the document
func (f *MappingFinder) FindByName(token string) ([]*domain.TestInfo, error) {
	if strings.HasPrefix(token, GroupPrefix) {
		return nil, nil
	}
	return f.infos(f.doc.Lookup(token))
}

// FindByGroup resolves "@group" to every test of that group
func (f *MappingFinder) FindByGroup(token string) ([]*domain.TestInfo, error) {
	group, ok := strings.CutPrefix(token, GroupPrefix)
	if !ok {
		return nil, nil
	}
	details, ok := f.doc.Group(group)
	if !ok {
		return nil, nil
	}
	return f.infos(details)
}

func (f *MappingFinder) infos(details []mapping.TestDetail) ([]*domain.TestInfo, error) {
	var out []*domain.TestInfo
	for _, d := range details {
		ti, err := domain.NewTestInfo(d.Name(), f.runner)
		if err != nil {
			return nil, err
		}
		if opts := d.OptionStrings(); len(opts) > 0 {
			ti.Data[domain.DataOptions] = opts
		}
		out = append(out, ti)
	}
	return out, nil
}

var mappingRegistry = MustRegistry(
	Method[*MappingFinder]{Name: "FindByName", Find: (*MappingFinder).FindByName},
	Method[*MappingFinder]{Name: "FindByGroup", Find: (*MappingFinder).FindByGroup},
)

// MappingClass returns the finder class for a loaded document
func MappingClass(doc *mapping.Document, runner string) Class {
	return NewClass(MappingFinderName, func() (*MappingFinder, error) {
		return NewMappingFinder(doc, runner), nil
	}, mappingRegistry)
}
