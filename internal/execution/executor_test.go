package execution

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd/internal/domain"
)

func TestShellExecutor(t *testing.T) {
	dir := t.TempDir()

	t.Run("success captures output", func(t *testing.T) {
		e := NewShellExecutor(dir, 0, "TFD_GREETING=hello")
		res, err := e.Execute(context.Background(), `echo "$TFD_GREETING"; echo oops >&2`)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPassed, res.Status)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hello\n", res.Stdout)
		assert.Equal(t, "oops\n", res.Stderr)
	})

	t.Run("runs in the working directory", func(t *testing.T) {
		e := NewShellExecutor(dir, 0)
		res, err := e.Execute(context.Background(), "pwd")
		require.NoError(t, err)
		assert.Contains(t, res.Stdout, dir)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		e := NewShellExecutor(dir, 0)
		res, err := e.Execute(context.Background(), "exit 3")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonZeroExit)
		assert.Equal(t, domain.StatusFailed, res.Status)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("timeout is a distinct kind", func(t *testing.T) {
		e := NewShellExecutor(dir, 50*time.Millisecond)
		start := time.Now()
		res, err := e.Execute(context.Background(), "sleep 5")
		assert.Less(t, time.Since(start), 2*time.Second)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.NotErrorIs(t, err, ErrNonZeroExit)
		assert.Equal(t, domain.StatusTimeout, res.Status)
	})

	t.Run("timeout kills child processes", func(t *testing.T) {
		marker := filepath.Join(dir, "marker")
		e := NewShellExecutor(dir, 100*time.Millisecond)
		start := time.Now()
		res, err := e.Execute(context.Background(), "sleep 2; touch marker")
		assert.Less(t, time.Since(start), time.Second)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, domain.StatusTimeout, res.Status)

		time.Sleep(2500 * time.Millisecond)
		assert.NoFileExists(t, marker)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewShellExecutor(dir, 0)
		res, err := e.Execute(ctx, "true")
		assert.ErrorIs(t, err, ErrCanceled)
		assert.Equal(t, domain.StatusCanceled, res.Status)
	})
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.FailWith("false", 1)

	_, err := r.Execute(context.Background(), "echo a")
	require.NoError(t, err)
	res, err := r.Execute(context.Background(), "false")
	assert.ErrorIs(t, err, ErrNonZeroExit)
	assert.Equal(t, 1, res.ExitCode)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Execute(ctx, "echo b")
	assert.ErrorIs(t, err, ErrCanceled)

	assert.Equal(t, []string{"echo a", "false"}, r.Commands())
}

func TestDryRunExecutor(t *testing.T) {
	var buf bytes.Buffer
	e := NewDryRunExecutor(&buf)
	res, err := e.Execute(context.Background(), "rm -rf /tmp/nothing")
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Contains(t, buf.String(), "rm -rf /tmp/nothing")
}

func TestInvocationLabel(t *testing.T) {
	_, ok := InvocationFrom(context.Background())
	assert.False(t, ok)

	ctx := WithInvocation(context.Background(), Invocation{Runner: "R", Test: "T"})
	inv, ok := InvocationFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, Invocation{Runner: "R", Test: "T"}, inv)

	_, ok = ExecutorFrom(ctx)
	assert.False(t, ok)
	rec := NewRecorder()
	exec, ok := ExecutorFrom(WithExecutor(ctx, rec))
	require.True(t, ok)
	assert.Same(t, rec, exec)
}
