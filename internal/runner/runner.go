package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"tfd/internal/domain"
	"tfd/internal/execution"
)

// ErrNoExecutor is returned by Run when no executor was injected
var ErrNoExecutor = errors.New("runner has no executor")

// Runner turns TestInfos into external command invocations
type Runner interface {
	// Name is the runner tag found in TestInfo.TestRunner
	Name() string
	// RunTests issues one or more invocations covering every info, in input order
	RunTests(ctx context.Context, infos []*domain.TestInfo, extraArgs map[string]string) error
	// HostEnvCheck fails with *HostEnvError when a host prerequisite is missing
	HostEnvCheck(ctx context.Context) error
	// BuildReqs names the build artifacts needed before RunTests, sorted
	BuildReqs() []string
	// SetExecutor injects the default command executor, used when the context carries none
	SetExecutor(exec execution.Executor)
}

// CaseCounter is implemented by runners that read test case counts from harness output
type CaseCounter interface {
	CountCases(output string) (passed, failed int, ok bool)
}

// Vars maps placeholder names to the words substituted for them
type Vars map[string][]string

// Base implements the plumbing shared by runners: naming, templating and command execution.
type Base struct {
	name       string
	executable string
	template   string
	executor   execution.Executor
}

// NewBase creates a Base; template uses {placeholder} fields such as "{exe} {test} {args}".
func NewBase(name, executable, template string) Base {
	return Base{name: name, executable: executable, template: template}
}

// Name returns the runner tag
func (b *Base) Name() string {
	return b.name
}

// Executable returns the program the runner invokes
func (b *Base) Executable() string {
	return b.executable
}

// SetExecutor injects the default command executor
func (b *Base) SetExecutor(exec execution.Executor) {
	b.executor = exec
}

// HostEnvCheck succeeds; runners with prerequisites override it.
func (b *Base) HostEnvCheck(context.Context) error {
	return nil
}

// BuildReqs returns no requirements; runners override it.
func (b *Base) BuildReqs() []string {
	return nil
}

// Run hands command to the executor carried by ctx, or to the injected one.
// Runners never start processes themselves.
func (b *Base) Run(ctx context.Context, test, command string) (domain.InvocationResult, error) {
	exec, ok := execution.ExecutorFrom(ctx)
	if !ok {
		exec = b.executor
	}
	if exec == nil {
		err := errors.Wrapf(ErrNoExecutor, "runner %s", b.name)
		return domain.InvocationResult{Runner: b.name, Test: test, Command: command, ExitCode: -1, Status: domain.StatusError, Err: err}, err
	}
	ctx = execution.WithInvocation(ctx, execution.Invocation{Runner: b.name, Test: test})
	result, err := exec.Execute(ctx, command)
	result.Runner = b.name
	result.Test = test
	return result, err
}

// Render fills the runner template. {exe} defaults to the executable.
// Fields that render empty are dropped; unknown placeholders are an error.
func (b *Base) Render(vars Vars) (string, error) {
	if _, ok := vars["exe"]; !ok {
		vars = withExe(vars, b.executable)
	}
	return Render(b.template, vars)
}

func withExe(vars Vars, exe string) Vars {
	out := make(Vars, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	out["exe"] = []string{exe}
	return out
}

// Render substitutes {name} placeholders in template with shell-quoted words from vars.
func Render(template string, vars Vars) (string, error) {
	var fields []string
	for _, field := range strings.Fields(template) {
		rendered, err := renderField(field, vars)
		if err != nil {
			return "", err
		}
		if rendered != "" {
			fields = append(fields, rendered)
		}
	}
	return strings.Join(fields, " "), nil
}

func renderField(field string, vars Vars) (string, error) {
	var b strings.Builder
	rest := field
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", errors.Errorf("template field %q: unterminated placeholder", field)
		}
		name := rest[open+1 : open+end]
		words, ok := vars[name]
		if !ok {
			return "", errors.Errorf("template field %q: unknown placeholder {%s}", field, name)
		}
		b.WriteString(rest[:open])
		b.WriteString(shellquote.Join(words...))
		rest = rest[open+end+1:]
	}
}

// ExtraArgWords renders extra arguments as "--key value" words sorted by key.
// An empty value yields a bare "--key".
func ExtraArgWords(extraArgs map[string]string) []string {
	keys := make([]string, 0, len(extraArgs))
	for k := range extraArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var words []string
	for _, k := range keys {
		flag := k
		if !strings.HasPrefix(flag, "-") {
			flag = "--" + flag
		}
		words = append(words, flag)
		if v := extraArgs[k]; v != "" {
			words = append(words, v)
		}
	}
	return words
}

// OptionWords renders the "key: value" harness options of ti as "--key value" words,
// in the order they were given. An empty value yields a bare "--key".
func OptionWords(ti *domain.TestInfo) []string {
	opts, _ := ti.Data[domain.DataOptions].([]string)
	var words []string
	for _, opt := range opts {
		k, v, _ := strings.Cut(opt, ": ")
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		if !strings.HasPrefix(k, "-") {
			k = "--" + k
		}
		words = append(words, k)
		if v != "" {
			words = append(words, v)
		}
	}
	return words
}

// CommandBuilder renders the command line for one TestInfo
type CommandBuilder func(ti *domain.TestInfo) (string, error)

// RunEach issues one invocation per info in order. Failed invocations do not stop the
// loop; a cancelled context does. The error, if any, is an *InvocationError.
func (b *Base) RunEach(ctx context.Context, infos []*domain.TestInfo, build CommandBuilder) error {
	invErr := &InvocationError{Runner: b.name}
	for _, ti := range infos {
		if ctx.Err() != nil {
			invErr.Canceled = true
			break
		}
		command, err := build(ti)
		if err != nil {
			return errors.Wrapf(err, "runner %s: build command for %s", b.name, ti.TestName)
		}
		result, err := b.Run(ctx, ti.TestName, command)
		if err != nil {
			invErr.Failed = append(invErr.Failed, result)
			if result.Status == domain.StatusCanceled {
				invErr.Canceled = true
				break
			}
		}
	}
	if len(invErr.Failed) == 0 && !invErr.Canceled {
		return nil
	}
	return invErr
}

// HostEnvError reports a missing host prerequisite
type HostEnvError struct {
	Runner string
	Reason string
	Err    error
}

func (e *HostEnvError) Error() string {
	msg := fmt.Sprintf("host environment check failed for %s: %s", e.Runner, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HostEnvError) Unwrap() error {
	return e.Err
}

// InvocationError lists the invocations of one runner that did not pass
type InvocationError struct {
	Runner   string
	Failed   []domain.InvocationResult
	Canceled bool
}

func (e *InvocationError) Error() string {
	tests := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		tests = append(tests, fmt.Sprintf("%s (%s)", r.Test, r.Status))
	}
	msg := fmt.Sprintf("%s: %d invocation(s) failed", e.Runner, len(e.Failed))
	if len(tests) > 0 {
		msg += ": " + strings.Join(tests, ", ")
	}
	if e.Canceled {
		msg += "; remaining invocations canceled"
	}
	return msg
}

// Unwrap exposes the per-invocation errors to errors.Is
func (e *InvocationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, r := range e.Failed {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
