package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one invocation seen by FakeRunner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
	Dir   string
}

// Line returns the command line as "name arg1 arg2".
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeResponse is the scripted answer for a command line prefix.
type FakeResponse struct {
	Result CmdResult
	Err    error
}

// FakeRunner is a scripted CommandRunner for tests. Responses are matched
// by the longest registered prefix of the command line; unmatched commands
// fail with exit code 1.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	missing   map[string]bool
	calls     []Call
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]FakeResponse),
		missing:   make(map[string]bool),
	}
}

// On scripts the result for commands starting with prefix.
func (f *FakeRunner) On(prefix string, result CmdResult) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = FakeResponse{Result: result}
	return f
}

// OnStdout scripts a successful command printing stdout.
func (f *FakeRunner) OnStdout(prefix, stdout string) *FakeRunner {
	return f.On(prefix, CmdResult{Stdout: stdout})
}

// OnError scripts an execution failure for commands starting with prefix.
func (f *FakeRunner) OnError(prefix string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = FakeResponse{Err: err}
	return f
}

// Missing makes LookPath and Run fail for the named executable.
func (f *FakeRunner) Missing(name string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

// Calls returns the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Called reports whether any invocation started with prefix.
func (f *FakeRunner) Called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c.Line(), prefix) {
			return true
		}
	}
	return false
}

// Run implements CommandRunner.
func (f *FakeRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	if err := ctx.Err(); err != nil {
		return CmdResult{}, err
	}

	call := Call{Name: name, Args: append([]string(nil), args...), Stdin: opts.Stdin, Dir: opts.Dir}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	if f.missing[name] {
		return CmdResult{}, fmt.Errorf("exec: %q: %w", name, ErrNotFound)
	}

	line := call.Line()
	best := ""
	found := false
	for prefix := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best = prefix
			found = true
		}
	}
	if !found {
		return CmdResult{ExitCode: 1, Stderr: "unexpected command: " + line}, nil
	}
	resp := f.responses[best]
	return resp.Result, resp.Err
}

// LookPath implements CommandRunner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: %w", name, ErrNotFound)
	}
	return "/usr/bin/" + name, nil
}
