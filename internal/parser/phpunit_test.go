package parser

import "testing"

func TestPHPUnitParser_ParseTestCounts(t *testing.T) {
	p := NewPHPUnitParser()

	tests := []struct {
		name   string
		output string
		passed int
		failed int
		ok     bool
	}{
		{
			name:   "all passed",
			output: "PHPUnit 10.5.0\n\n....                4 / 4 (100%)\n\nOK (4 tests, 9 assertions)\n",
			passed: 4,
			ok:     true,
		},
		{
			name:   "single test",
			output: "OK (1 test, 1 assertion)",
			passed: 1,
			ok:     true,
		},
		{
			name:   "failures and errors",
			output: "FAILURES!\nTests: 10, Assertions: 20, Failures: 2, Errors: 1.\n",
			passed: 7,
			failed: 3,
			ok:     true,
		},
		{
			name:   "colored summary",
			output: "\x1b[30;42mOK (3 tests, 5 assertions)\x1b[0m\n",
			passed: 3,
			ok:     true,
		},
		{
			name:   "colored failures",
			output: "\x1b[37;41mFAILURES!\x1b[0m\n\x1b[37;41mTests: 4, Assertions: 4, Failures: 1.\x1b[0m\n",
			passed: 3,
			failed: 1,
			ok:     true,
		},
		{
			name:   "no summary",
			output: "PHP Fatal error: Uncaught Error",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, failed, ok := p.ParseTestCounts(tt.output)
			if passed != tt.passed || failed != tt.failed || ok != tt.ok {
				t.Errorf("got (%d, %d, %v), want (%d, %d, %v)", passed, failed, ok, tt.passed, tt.failed, tt.ok)
			}
		})
	}
}
