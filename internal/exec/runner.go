// Package exec provides a stub-friendly interface for running external commands.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/tacogips/autopilot/internal/debug"
)

// ErrNotFound is returned when the executable is not on PATH.
var ErrNotFound = exec.ErrNotFound

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r CmdResult) Success() bool {
	return r.ExitCode == 0
}

// RunOpts holds optional parameters for command execution.
type RunOpts struct {
	Dir   string            // working directory (optional)
	Env   map[string]string // extra environment variables (overlay)
	Stdin string            // data written to standard input (optional)
}

// CommandRunner is the interface for running external commands.
type CommandRunner interface {
	// Run executes a command and returns the result.
	// Returns CmdResult with ExitCode set if the process exits (even non-zero).
	// Returns error only for execution failures (binary not found, ctx canceled, io failure).
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)

	// LookPath reports the resolved path of an executable.
	LookPath(name string) (string, error)
}

// RealRunner is the production implementation of CommandRunner using os/exec.
type RealRunner struct {
	// Timeout bounds every command. Zero means no timeout.
	Timeout time.Duration
}

// NewRealRunner creates a new RealRunner.
func NewRealRunner(timeout time.Duration) *RealRunner {
	return &RealRunner{Timeout: timeout}
}

// Run executes the command and captures stdout/stderr.
func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	debug.Debug("[exec] %s %s", name, redact(args))
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()

	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			debug.Debug("[exec] %s exited %d", name, result.ExitCode)
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}

	return result, nil
}

// LookPath resolves name on PATH.
func (r *RealRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// redact hides values following flags that carry secrets.
func redact(args []string) string {
	out := make([]string, len(args))
	hide := false
	for i, a := range args {
		switch {
		case hide:
			out[i] = "***"
			hide = false
		case a == "--body" || a == "-b":
			out[i] = a
			hide = true
		default:
			out[i] = a
		}
	}
	return strings.Join(out, " ")
}
