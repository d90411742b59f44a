package system

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found in PATH, skipping exec test")
	}
	return path
}

func TestExecRunner_CapturesOutputAndExitZero(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)

	r := NewExecRunner(nil)
	res, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "echo hello"}})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Output)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)

	r := NewExecRunner(nil)
	res, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "echo oops; exit 3"}})

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "oops\n", res.Output)
}

func TestExecRunner_StreamsCombinedOutput(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)

	var stream strings.Builder
	r := NewExecRunner(nil)
	res, err := r.Run(context.Background(), Command{
		Path:   sh,
		Args:   []string{"-c", "echo out; echo err >&2"},
		Stream: &stream,
	})

	require.NoError(t, err)
	assert.Contains(t, stream.String(), "out")
	assert.Contains(t, stream.String(), "err")
	assert.Equal(t, stream.String(), res.Output)
}

func TestExecRunner_EchoAndSilence(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)

	var lines []string
	r := NewExecRunner(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	_, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "+ "+sh)

	restore := r.Silence()
	_, err = r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	// Restore is idempotent even when called more than once.
	restore()
	restore()

	_, err = r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestExecRunner_SilenceNests(t *testing.T) {
	t.Parallel()
	sh := requireShell(t)

	var lines []string
	r := NewExecRunner(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	outer := r.Silence()
	inner := r.Silence()
	inner()

	_, err := r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	assert.Empty(t, lines)

	outer()
	_, err = r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "true"}})
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	r := NewExecRunner(nil)
	res, err := r.Run(context.Background(), Command{Path: "/nonexistent/gatewayboot-test-binary"})

	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}
