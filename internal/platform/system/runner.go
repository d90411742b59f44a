package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Command describes one external binary invocation.
type Command struct {
	// Path is the binary name or absolute path.
	Path string

	// Args are discrete argument tokens, never shell-joined.
	Args []string

	// Env holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string

	// Stream, if set, receives the combined stdout+stderr while the
	// command runs (used to interleave installer output into the
	// install log). Output is captured in the Result either way.
	Stream io.Writer
}

// Result carries the structured outcome of a command.
type Result struct {
	ExitCode int
	Output   string
}

// Runner executes external commands. Implementations must be safe for
// sequential reuse across provisioning phases.
type Runner interface {
	// Run executes cmd and returns its result. A non-zero exit status
	// is returned as an error wrapping *ExitError, with Result still
	// populated.
	Run(ctx context.Context, cmd Command) (Result, error)

	// Silence suppresses command-line echo until the returned restore
	// function is called. Calls nest; echo resumes when every restore
	// has run.
	Silence() (restore func())
}

// ExitError reports a command that ran to completion with a non-zero
// status.
type ExitError struct {
	Path string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Path, e.Code)
}

// ExecRunner runs commands via os/exec and echoes each command line to a
// trace function unless silenced.
type ExecRunner struct {
	trace func(format string, v ...any)

	mu    sync.Mutex
	quiet int
}

// NewExecRunner creates a runner that echoes command lines through trace.
// A nil trace disables echo entirely.
func NewExecRunner(trace func(format string, v ...any)) *ExecRunner {
	return &ExecRunner{trace: trace}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	r.echo(cmd)

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	var out strings.Builder
	var sink io.Writer = &out
	if cmd.Stream != nil {
		sink = io.MultiWriter(&out, cmd.Stream)
	}
	c.Stdout = sink
	c.Stderr = sink

	err := c.Run()
	res := Result{Output: out.String()}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("run %s: %w", cmd.Path, &ExitError{Path: cmd.Path, Code: res.ExitCode})
	}

	res.ExitCode = -1
	return res, fmt.Errorf("run %s: %w", cmd.Path, err)
}

// Silence implements Runner.
func (r *ExecRunner) Silence() func() {
	r.mu.Lock()
	r.quiet++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			r.quiet--
			r.mu.Unlock()
		})
	}
}

func (r *ExecRunner) echo(cmd Command) {
	if r.trace == nil {
		return
	}
	r.mu.Lock()
	quiet := r.quiet > 0
	r.mu.Unlock()
	if quiet {
		return
	}
	if len(cmd.Args) == 0 {
		r.trace("+ %s", cmd.Path)
		return
	}
	r.trace("+ %s %s", cmd.Path, strings.Join(cmd.Args, " "))
}
