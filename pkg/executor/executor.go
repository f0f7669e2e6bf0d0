// Package executor runs external commands on behalf of the engine: package
// manager invocations, archive tools, the desktop settings client, interpreter
// environments and anything else that lives outside the process. Callers
// depend on the Runner interface so tests can substitute a scripted fake.
package executor

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deskforge/deskforge/pkg/errors"
	"github.com/deskforge/deskforge/pkg/logging"
)

// Result holds the output of a completed command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands
type Runner interface {
	// Run executes a command and captures its output. A non-zero exit
	// status is returned as an error carrying ErrCommandFailed.
	Run(ctx context.Context, name string, args ...string) (*Result, error)

	// RunInDir is Run with an explicit working directory.
	RunInDir(ctx context.Context, dir, name string, args ...string) (*Result, error)
}

// osRunner is the production Runner backed by os/exec
type osRunner struct {
	logger zerolog.Logger
	// Quiet suppresses passthrough of child output to the console
	quiet bool
}

// New creates a Runner backed by the operating system
func New(quiet bool) Runner {
	return &osRunner{
		logger: logging.GetLogger("executor"),
		quiet:  quiet,
	}
}

func (r *osRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	return r.RunInDir(ctx, "", name, args...)
}

func (r *osRunner) RunInDir(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if !r.quiet {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		r.logger.Debug().
			Str("command", name).
			Int("exit", result.ExitCode).
			Str("stderr", firstLine(result.Stderr)).
			Msg("Command failed")
		return result, errors.Wrapf(err, errors.ErrCommandFailed,
			"command %s failed with exit code %d", name, result.ExitCode)
	}

	return result, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
