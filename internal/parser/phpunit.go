package parser

import (
	"regexp"
	"strconv"

	"github.com/acarl005/stripansi"
)

var (
	okPattern       = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests?`)
	testsPattern    = regexp.MustCompile(`Tests:\s*(\d+)`)
	failuresPattern = regexp.MustCompile(`Failures:\s*(\d+)`)
	errorsPattern   = regexp.MustCompile(`Errors:\s*(\d+)`)
)

// PHPUnitParser reads summary lines from PHPUnit output
type PHPUnitParser struct{}

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

// ParseTestCounts extracts passed and failed test case counts from PHPUnit output.
// ok is false when the output carries no summary.
func (p *PHPUnitParser) ParseTestCounts(output string) (passed, failed int, ok bool) {
	// --colors=always wraps the summary in escape codes
	output = stripansi.Strip(output)

	// OK (N tests, M assertions)
	if m := okPattern.FindStringSubmatch(output); m != nil {
		return atoi(m[1]), 0, true
	}

	// FAILURES! / ERRORS!  Tests: N, Assertions: A, Failures: F, Errors: E.
	total := firstInt(testsPattern, output)
	failed = firstInt(failuresPattern, output) + firstInt(errorsPattern, output)
	if total >= failed {
		passed = total - failed
	}
	if passed == 0 && failed == 0 {
		return 0, 0, false
	}
	return passed, failed, true
}

func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
