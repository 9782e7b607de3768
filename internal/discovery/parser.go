package discovery

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// public function testCreateUser(), final protected static function test_it_works()
	testMethodPattern = regexp.MustCompile(`(?m)^\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(test\w+)\s*\(`)

	// methods annotated with @test, either in a docblock or on the line before
	annotatedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)@test\s*\n\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(\w+)\s*\(`),
		regexp.MustCompile(`(?m)/\*\*(?:[^*]|\*[^/])*?@test(?:[^*]|\*[^/])*?\*/\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(\w+)\s*\(`),
	}

	// #[Test] attribute on the preceding line
	attributePattern = regexp.MustCompile(`(?m)#\[(?:\\?PHPUnit\\Framework\\Attributes\\)?Test\]\s*\n\s*(?:(?:public|protected|private|static|final)\s+)*function\s+(\w+)\s*\(`)
)

// Parser extracts test methods from PHPUnit test classes
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases returns the sorted, unique test methods declared in a test file
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read test file %s", filePath)
	}
	source := string(content)

	methods := make(map[string]bool)
	for _, match := range testMethodPattern.FindAllStringSubmatch(source, -1) {
		methods[match[1]] = true
	}
	for _, pattern := range append(annotatedPatterns, attributePattern) {
		for _, match := range pattern.FindAllStringSubmatch(source, -1) {
			methods[match[1]] = true
		}
	}

	testCases := make([]string, 0, len(methods))
	for m := range methods {
		testCases = append(testCases, m)
	}
	sort.Strings(testCases)
	return testCases, nil
}

// MissingTestCases returns the requested methods that the file does not declare
func (p *Parser) MissingTestCases(filePath string, methods []string) ([]string, error) {
	declared, err := p.FindTestCases(filePath)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(declared))
	for _, m := range declared {
		have[m] = true
	}
	var missing []string
	for _, m := range methods {
		if !have[strings.TrimSpace(m)] {
			missing = append(missing, m)
		}
	}
	return missing, nil
}
