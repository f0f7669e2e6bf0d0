package executor

import (
	"context"
	"strings"
	"sync"

	"github.com/deskforge/deskforge/pkg/errors"
)

// Call records one command the fake was asked to run
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call the way it would appear on a shell command line
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Fake is a scripted Runner for tests. Responses are matched by command-line
// prefix; unmatched commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	responses []fakeResponse
}

type fakeResponse struct {
	prefix  string
	result  Result
	fail    bool
	handler func(Call) (*Result, error)
}

// NewFake creates an empty scripted runner
func NewFake() *Fake {
	return &Fake{}
}

// Respond registers output for any command line starting with prefix
func (f *Fake) Respond(prefix, stdout string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{
		prefix: prefix,
		result: Result{Stdout: stdout},
	})
	return f
}

// Fail registers a non-zero exit for any command line starting with prefix
func (f *Fake) Fail(prefix, stderr string, exitCode int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{
		prefix: prefix,
		result: Result{Stderr: stderr, ExitCode: exitCode},
		fail:   true,
	})
	return f
}

// Handle registers a callback invoked for any command line starting with
// prefix. Useful for simulating command side effects such as extraction.
func (f *Fake) Handle(prefix string, handler func(Call) (*Result, error)) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{prefix: prefix, handler: handler})
	return f
}

// Calls returns every command run so far
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLines returns the recorded commands as rendered lines
func (f *Fake) CallLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// CountPrefix returns how many recorded commands start with prefix
func (f *Fake) CountPrefix(prefix string) int {
	n := 0
	for _, line := range f.CallLines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	return f.RunInDir(ctx, "", name, args...)
}

func (f *Fake) RunInDir(_ context.Context, dir, name string, args ...string) (*Result, error) {
	call := Call{Dir: dir, Name: name, Args: args}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	responses := f.responses
	f.mu.Unlock()

	line := call.Line()
	for _, resp := range responses {
		if strings.HasPrefix(line, resp.prefix) {
			if resp.handler != nil {
				return resp.handler(call)
			}
			result := resp.result
			if resp.fail {
				return &result, errors.Newf(errors.ErrCommandFailed,
					"command %s failed with exit code %d", name, result.ExitCode)
			}
			return &result, nil
		}
	}
	return &Result{}, nil
}

var _ Runner = (*Fake)(nil)
