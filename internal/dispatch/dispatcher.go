package dispatch

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"github.com/pkg/errors"

	"tfd/internal/domain"
	"tfd/internal/execution"
	"tfd/internal/finder"
	"tfd/internal/runner"
)

// Observer is notified as a dispatch executes its invocations
type Observer interface {
	Started(total int)
	Invoked(result domain.InvocationResult)
	Finished()
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithBestEffort keeps dispatching when some tokens cannot be resolved
func WithBestEffort() Option {
	return func(d *Dispatcher) {
		d.bestEffort = true
	}
}

// WithObserver registers an observer of invocations
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithLogger sets the debug logger; the default discards everything
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dispatcher resolves user tokens to tests and hands them to runners.
// It is not safe for concurrent use; create one Dispatcher per dispatch stream.
type Dispatcher struct {
	classes    []finder.Class
	runners    map[string]runner.Runner
	exec       execution.Executor
	bestEffort bool
	observer   Observer
	logger     *log.Logger
}

// New creates a Dispatcher. Runners are shared, not modified: each dispatch hands its
// intercepting executor to them through the context.
func New(classes []finder.Class, runners map[string]runner.Runner, exec execution.Executor, opts ...Option) (*Dispatcher, error) {
	if classes == nil {
		return nil, errors.Wrap(ErrMissingCollaborator, "finder classes")
	}
	if runners == nil {
		return nil, errors.Wrap(ErrMissingCollaborator, "runner table")
	}
	if exec == nil {
		return nil, errors.Wrap(ErrMissingCollaborator, "executor")
	}
	for tag, r := range runners {
		if r == nil {
			return nil, errors.Wrapf(ErrMissingCollaborator, "runner for tag %s", tag)
		}
	}

	d := &Dispatcher{
		classes: append([]finder.Class(nil), classes...),
		runners: make(map[string]runner.Runner, len(runners)),
		exec:    exec,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	for tag, r := range runners {
		d.runners[tag] = r
	}
	return d, nil
}

// intercept wraps the executor for runner r: it logs the command, labels the
// result and records it in report.
func (d *Dispatcher) intercept(tag string, r runner.Runner, report *Report) execution.Executor {
	counter, _ := r.(runner.CaseCounter)
	return execution.ExecutorFunc(func(ctx context.Context, command string) (domain.InvocationResult, error) {
		d.logger.Printf("[%s] %s", tag, command)
		result, err := d.exec.Execute(ctx, command)
		result.Runner = tag
		if inv, ok := execution.InvocationFrom(ctx); ok {
			result.Test = inv.Test
		}
		if counter != nil {
			if passed, failed, ok := counter.CountCases(result.Output()); ok {
				result.CasesPassed, result.CasesFailed = passed, failed
			}
		}
		d.logger.Printf("[%s] %s: %s in %s", tag, result.Test, result.Status, result.Duration)
		report.Results = append(report.Results, result)
		if d.observer != nil {
			d.observer.Invoked(result)
		}
		return result, err
	})
}

// Dispatch resolves tokens, partitions the tests by runner, checks every runner's
// host environment and then runs each partition. The report is returned even on error.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, extraArgs map[string]string) (*Report, error) {
	start := time.Now()
	report := newReport()
	defer func() {
		report.Duration = time.Since(start)
	}()
	d.logger.Printf("dispatch %s: tokens %v", report.RunID, tokens)

	infos, unresolved, err := d.resolve(ctx, tokens)
	report.Infos = infos
	report.Unresolved = unresolved
	if err != nil {
		return report, err
	}

	partitions, err := d.partition(infos)
	if err != nil {
		return report, err
	}
	report.Partitions = partitions

	for _, p := range partitions {
		d.logger.Printf("[%s] host environment check", p.Runner)
		if err := p.runner.HostEnvCheck(ctx); err != nil {
			return report, err
		}
	}

	if d.observer != nil {
		d.observer.Started(len(infos))
		defer d.observer.Finished()
	}

	failed := &FailedError{}
	for _, p := range partitions {
		if ctx.Err() != nil {
			break
		}
		d.logger.Printf("[%s] running %d test(s)", p.Runner, len(p.Infos))
		rctx := execution.WithExecutor(ctx, d.intercept(p.Runner, p.runner, report))
		err := p.runner.RunTests(rctx, p.Infos, extraArgs)
		if err == nil {
			continue
		}
		var invErr *runner.InvocationError
		if !errors.As(err, &invErr) {
			return report, errors.Wrapf(err, "runner %s", p.Runner)
		}
		failed.Partitions = append(failed.Partitions, invErr)
	}
	if len(failed.Partitions) > 0 {
		return report, failed
	}
	if err := ctx.Err(); err != nil {
		return report, errors.Wrap(execution.ErrCanceled, err.Error())
	}
	return report, nil
}

// Resolve maps tokens to deduplicated TestInfos without running anything.
// In best-effort mode unresolved tokens are returned instead of failing.
func (d *Dispatcher) Resolve(ctx context.Context, tokens []string) ([]*domain.TestInfo, []string, error) {
	return d.resolve(ctx, tokens)
}

func (d *Dispatcher) resolve(ctx context.Context, tokens []string) ([]*domain.TestInfo, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, ErrNoTokens
	}

	var records []finder.Record
	for _, c := range d.classes {
		rs, err := c.Instantiate()
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rs...)
	}

	var found []*domain.TestInfo
	var unresolved []string
	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(execution.ErrCanceled, err.Error())
		}
		var matched []*domain.TestInfo
		for _, rec := range records {
			infos, err := rec.Find(token)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s.%s(%q)", rec.FinderName, rec.MethodName, token)
			}
			for _, ti := range infos {
				if ti != nil {
					matched = append(matched, ti)
				}
			}
			if len(infos) > 0 {
				d.logger.Printf("%q resolved by %s.%s: %d test(s)", token, rec.FinderName, rec.MethodName, len(infos))
			}
		}
		if len(matched) == 0 {
			if !d.bestEffort {
				return nil, nil, &UnresolvedError{Token: token}
			}
			d.logger.Printf("%q unresolved, skipping", token)
			unresolved = append(unresolved, token)
			continue
		}
		found = append(found, matched...)
	}
	if len(found) == 0 {
		return nil, unresolved, &UnresolvedError{Token: unresolved[0]}
	}
	return dedup(found), unresolved, nil
}

// dedup merges infos sharing a (name, runner) key; later data wins, build targets
// are united and the order is that of first appearance. Inputs are not modified.
func dedup(infos []*domain.TestInfo) []*domain.TestInfo {
	index := make(map[domain.TestKey]*domain.TestInfo, len(infos))
	var out []*domain.TestInfo
	for _, ti := range infos {
		if seen, ok := index[ti.Key()]; ok {
			seen.Merge(ti)
			continue
		}
		c := ti.Clone()
		index[ti.Key()] = c
		out = append(out, c)
	}
	return out
}

// partition groups infos by runner tag in order of first appearance
func (d *Dispatcher) partition(infos []*domain.TestInfo) ([]Partition, error) {
	index := make(map[string]int)
	var partitions []Partition
	for _, ti := range infos {
		i, ok := index[ti.TestRunner]
		if !ok {
			i = len(partitions)
			index[ti.TestRunner] = i
			partitions = append(partitions, Partition{Runner: ti.TestRunner, runner: d.runners[ti.TestRunner]})
		}
		partitions[i].Infos = append(partitions[i].Infos, ti)
	}
	for _, p := range partitions {
		if p.runner == nil {
			return nil, &UnknownRunnerError{Runner: p.Runner, Tests: p.Tests()}
		}
	}
	return partitions, nil
}

// BuildReqs returns the sorted union of the build requirements of the runners
// involved and the build targets of infos.
func (d *Dispatcher) BuildReqs(infos []*domain.TestInfo) ([]string, error) {
	partitions, err := d.partition(infos)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, p := range partitions {
		for _, req := range p.runner.BuildReqs() {
			set[req] = struct{}{}
		}
	}
	for _, ti := range infos {
		for target := range ti.BuildTargets {
			set[target] = struct{}{}
		}
	}
	reqs := make([]string, 0, len(set))
	for req := range set {
		reqs = append(reqs, req)
	}
	sort.Strings(reqs)
	return reqs, nil
}

// Runners returns the runner tags of the table, sorted
func (d *Dispatcher) Runners() []string {
	tags := make([]string, 0, len(d.runners))
	for tag := range d.runners {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Runner returns the runner registered for tag
func (d *Dispatcher) Runner(tag string) (runner.Runner, bool) {
	r, ok := d.runners[tag]
	return r, ok
}
