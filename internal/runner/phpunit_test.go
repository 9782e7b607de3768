package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd/internal/config"
	"tfd/internal/database"
	"tfd/internal/domain"
	"tfd/internal/execution"
)

func phpunitConfig(project string) *config.Config {
	cfg := config.New()
	cfg.ProjectPath = project
	return cfg
}

func TestPHPUnitRunner_RunTests(t *testing.T) {
	cfg := phpunitConfig("/project")
	r := NewPHPUnitRunner(cfg, nil)
	rec := execution.NewRecorder()
	r.SetExecutor(rec)

	whole := domain.MustTestInfo("Unit/UserTest", PHPUnitRunnerName)
	whole.Data[domain.DataPath] = "/project/tests/Unit/UserTest.php"

	narrowed := domain.MustTestInfo("Unit/OrderTest", PHPUnitRunnerName)
	narrowed.Data[domain.DataPath] = "/project/tests/Unit/OrderTest.php"
	filter, err := domain.NewTestFilter("OrderTest", "testTotal", "testCancel")
	require.NoError(t, err)
	narrowed.Data[domain.DataFilter] = []domain.TestFilter{filter}

	err = r.RunTests(context.Background(), []*domain.TestInfo{whole, narrowed}, map[string]string{"stop-on-failure": ""})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/project/vendor/bin/phpunit /project/tests/Unit/UserTest.php --stop-on-failure",
		"/project/vendor/bin/phpunit --filter '/::(testCancel|testTotal)( with data set .*)?$/' /project/tests/Unit/OrderTest.php --stop-on-failure",
	}, rec.Commands())
}

func TestPHPUnitRunner_DatabaseEnv(t *testing.T) {
	cfg := phpunitConfig("/project")
	cfg.Database.Enabled = true
	cfg.Database.Prefix = "suite"
	r := NewPHPUnitRunner(cfg, database.NewManager(cfg))
	rec := execution.NewRecorder()
	r.SetExecutor(rec)

	ti := domain.MustTestInfo("Feature/LoginTest", PHPUnitRunnerName)
	require.NoError(t, r.RunTests(context.Background(), []*domain.TestInfo{ti}, nil))
	assert.Equal(t, []string{"DB_DATABASE=suite_1 /project/vendor/bin/phpunit Feature/LoginTest"}, rec.Commands())
}

func TestPHPUnitRunner_HostEnvCheck(t *testing.T) {
	project := t.TempDir()
	cfg := phpunitConfig(project)
	r := NewPHPUnitRunner(cfg, nil)

	err := r.HostEnvCheck(context.Background())
	var envErr *HostEnvError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, PHPUnitRunnerName, envErr.Runner)
	assert.Contains(t, envErr.Reason, "phpunit not found")

	bin := filepath.Join(project, "vendor", "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "phpunit"), []byte("#!/bin/sh\n"), 0644))
	err = r.HostEnvCheck(context.Background())
	require.ErrorAs(t, err, &envErr)
	assert.Contains(t, envErr.Reason, "not executable")

	require.NoError(t, os.Chmod(filepath.Join(bin, "phpunit"), 0755))
	assert.NoError(t, r.HostEnvCheck(context.Background()))
	assert.NoError(t, r.HostEnvCheck(context.Background()))
}

func TestPHPUnitRunner_BuildReqs(t *testing.T) {
	r := NewPHPUnitRunner(phpunitConfig("/project"), nil)
	assert.Equal(t, []string{"vendor/bin/phpunit"}, r.BuildReqs())

	cfg := phpunitConfig("/project")
	cfg.PHPUnitPath = "/usr/local/bin/phpunit"
	r = NewPHPUnitRunner(cfg, nil)
	assert.Equal(t, []string{"/usr/local/bin/phpunit"}, r.BuildReqs())
}

func TestPHPUnitRunner_CountCases(t *testing.T) {
	r := NewPHPUnitRunner(phpunitConfig("/project"), nil)

	passed, failed, ok := r.CountCases("OK (5 tests, 12 assertions)")
	require.True(t, ok)
	assert.Equal(t, 5, passed)
	assert.Equal(t, 0, failed)

	passed, failed, ok = r.CountCases("FAILURES!\nTests: 6, Assertions: 9, Failures: 2.")
	require.True(t, ok)
	assert.Equal(t, 4, passed)
	assert.Equal(t, 2, failed)

	_, _, ok = r.CountCases("segmentation fault")
	assert.False(t, ok)
}
