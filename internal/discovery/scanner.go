package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultSuffix is the file suffix of PHPUnit test classes
const DefaultSuffix = "Test.php"

// Scanner locates test class files below a root directory
type Scanner struct {
	skipDirs map[string]bool
	suffix   string
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap, suffix: DefaultSuffix}
}

// Locate returns the test files under root whose class name matches pattern.
// See MatchName for the pattern syntax.
func (s *Scanner) Locate(root, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, nil
	}
	files, err := s.Scan(root)
	if err != nil {
		return nil, err
	}
	return FilterByName(files, pattern), nil
}

// Scan finds all test files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string
	err := s.walk(root, func(path string) {
		testfiles = append(testfiles, path)
	})
	return testfiles, err
}

func (s *Scanner) walk(root string, visit func(path string)) error {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return errors.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return errors.Errorf("test path is not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Hidden directories are never searched
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), s.suffix) {
			visit(path)
		}
		return nil
	})
}

// ClassName returns the class a test file declares by convention: its base name without ".php"
func ClassName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".php")
}
