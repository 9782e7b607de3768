package finder

import (
	"path/filepath"
	"strings"

	"tfd/internal/discovery"
	"tfd/internal/domain"
)

const (
	// PHPUnitFinderName is the NAME of PHPUnitFinder
	PHPUnitFinderName = "PHPUNIT"
	// PHPUnitRunnerName is the runner tag PHPUnitFinder emits
	PHPUnitRunnerName = "PHPUnitRunner"
)

// PHPUnitFinder resolves PHPUnit test classes below a test root.
// Accepted tokens: "UserTest", "*Payment*" and "UserTest#testA,testB".
type PHPUnitFinder struct {
	Base
	root    string
	scanner *discovery.Scanner
	parser  *discovery.Parser
}

// NewPHPUnitFinder creates a PHPUnitFinder searching root, skipping skipDirs
func NewPHPUnitFinder(root string, skipDirs []string) *PHPUnitFinder {
	return &PHPUnitFinder{
		Base:    NewBase(PHPUnitFinderName),
		root:    root,
		scanner: discovery.NewScanner(skipDirs),
		parser:  discovery.NewParser(),
	}
}

// FindTestClass resolves a class name or wildcard pattern to every matching test file
func (f *PHPUnitFinder) FindTestClass(token string) ([]*domain.TestInfo, error) {
	if strings.Contains(token, "#") || !looksLikeClass(token) {
		return nil, nil
	}
	files, err := f.scanner.Locate(f.root, token)
	if err != nil {
		// An unreadable test root means nothing here can be resolved.
		return nil, nil
	}
	var out []*domain.TestInfo
	for _, file := range files {
		ti, err := f.info(file)
		if err != nil {
			return nil, err
		}
		out = append(out, ti)
	}
	return out, nil
}

// FindTestMethods resolves "Class#m1,m2"; every method must exist in the class.
func (f *PHPUnitFinder) FindTestMethods(token string) ([]*domain.TestInfo, error) {
	class, methodList, ok := strings.Cut(token, "#")
	if !ok || discovery.HasWildcard(class) || !looksLikeClass(class) {
		return nil, nil
	}
	methods := strings.Split(methodList, ",")
	for i := range methods {
		methods[i] = strings.TrimSpace(methods[i])
	}

	files, err := f.scanner.Locate(f.root, class)
	if err != nil {
		return nil, nil
	}
	var out []*domain.TestInfo
	for _, file := range files {
		missing, err := f.parser.MissingTestCases(file, methods)
		if err != nil || len(missing) > 0 {
			continue
		}
		filter, err := domain.NewTestFilter(class, methods...)
		if err != nil {
			return nil, nil
		}
		ti, err := f.info(file)
		if err != nil {
			return nil, err
		}
		ti.Data[domain.DataFilter] = []domain.TestFilter{filter}
		out = append(out, ti)
	}
	return out, nil
}

func (f *PHPUnitFinder) info(file string) (*domain.TestInfo, error) {
	rel, err := filepath.Rel(f.root, file)
	if err != nil {
		rel = file
	}
	name := filepath.ToSlash(strings.TrimSuffix(rel, ".php"))
	ti, err := domain.NewTestInfo(name, PHPUnitRunnerName)
	if err != nil {
		return nil, err
	}
	ti.Data[domain.DataPath] = file
	return ti, nil
}

// looksLikeClass rejects tokens that cannot name a PHP class
func looksLikeClass(token string) bool {
	if token == "" || strings.ContainsAny(token, " /\\@") {
		return false
	}
	return true
}

var phpunitRegistry = MustRegistry(
	Method[*PHPUnitFinder]{Name: "FindTestClass", Find: (*PHPUnitFinder).FindTestClass},
	Method[*PHPUnitFinder]{Name: "FindTestMethods", Find: (*PHPUnitFinder).FindTestMethods},
)

// PHPUnitClass returns the finder class searching root
func PHPUnitClass(root string, skipDirs []string) Class {
	return NewClass(PHPUnitFinderName, func() (*PHPUnitFinder, error) {
		return NewPHPUnitFinder(root, skipDirs), nil
	}, phpunitRegistry)
}
