package runner

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tfd/internal/config"
	"tfd/internal/database"
	"tfd/internal/domain"
	"tfd/internal/parser"
)

const (
	// PHPUnitRunnerName is the NAME of PHPUnitRunner
	PHPUnitRunnerName = "PHPUnitRunner"
	// PHPUnitTemplate is the command template of PHPUnitRunner
	PHPUnitTemplate = "{env} {exe} {filter} {path} {args}"
	// PHPUnitWorkerID selects the test database; dispatch is sequential so one suffices
	PHPUnitWorkerID = 1
)

// PHPUnitRunner runs PHPUnit test classes, optionally narrowed to methods
type PHPUnitRunner struct {
	Base
	config *config.Config
	db     *database.Manager
	parser *parser.PHPUnitParser
}

// NewPHPUnitRunner creates a PHPUnitRunner; db may be nil when no database is used
func NewPHPUnitRunner(cfg *config.Config, db *database.Manager) *PHPUnitRunner {
	return &PHPUnitRunner{
		Base:   NewBase(PHPUnitRunnerName, cfg.GetPHPUnitPath(), PHPUnitTemplate),
		config: cfg,
		db:     db,
		parser: parser.NewPHPUnitParser(),
	}
}

// RunTests runs one PHPUnit process per test class
func (r *PHPUnitRunner) RunTests(ctx context.Context, infos []*domain.TestInfo, extraArgs map[string]string) error {
	args := ExtraArgWords(extraArgs)
	var env []string
	if r.databaseEnabled() {
		env = []string{"DB_DATABASE=" + r.config.GetDatabaseName(PHPUnitWorkerID)}
	}
	return r.RunEach(ctx, infos, func(ti *domain.TestInfo) (string, error) {
		path, _ := ti.Data[domain.DataPath].(string)
		if path == "" {
			path = ti.TestName
		}
		return r.Render(Vars{
			"env":    env,
			"filter": filterWords(ti.Filters()),
			"path":   {path},
			"args":   args,
		})
	})
}

// filterWords renders method filters as a PHPUnit --filter pattern
func filterWords(filters []domain.TestFilter) []string {
	var methods []string
	for _, f := range filters {
		for _, m := range f.Methods() {
			methods = append(methods, regexp.QuoteMeta(m))
		}
	}
	if len(methods) == 0 {
		return nil
	}
	return []string{"--filter", "/::(" + strings.Join(methods, "|") + ")( with data set .*)?$/"}
}

// HostEnvCheck requires an executable phpunit and, when configured, the test database
func (r *PHPUnitRunner) HostEnvCheck(ctx context.Context) error {
	exe := r.Executable()
	info, err := os.Stat(exe)
	if err != nil {
		return &HostEnvError{Runner: r.Name(), Reason: "phpunit not found at " + exe, Err: err}
	}
	if info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return &HostEnvError{Runner: r.Name(), Reason: exe + " is not executable"}
	}

	if !r.databaseEnabled() {
		return nil
	}
	name := r.config.GetDatabaseName(PHPUnitWorkerID)
	missing, err := r.db.CheckDatabases(ctx, name)
	if err != nil {
		return &HostEnvError{Runner: r.Name(), Reason: "test database server unavailable", Err: err}
	}
	if len(missing) > 0 {
		return &HostEnvError{Runner: r.Name(), Reason: "missing test database " + strings.Join(missing, ", ")}
	}
	return nil
}

// BuildReqs names the phpunit binary, relative to the project when possible
func (r *PHPUnitRunner) BuildReqs() []string {
	exe := r.Executable()
	if rel, err := filepath.Rel(r.config.ProjectPath, exe); err == nil && !strings.HasPrefix(rel, "..") {
		exe = rel
	}
	return []string{filepath.ToSlash(exe)}
}

// CountCases reads test case counts from PHPUnit's summary line
func (r *PHPUnitRunner) CountCases(output string) (passed, failed int, ok bool) {
	return r.parser.ParseTestCounts(output)
}

func (r *PHPUnitRunner) databaseEnabled() bool {
	return r.db != nil && r.db.Enabled()
}
