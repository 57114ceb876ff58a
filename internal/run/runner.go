// Package run executes external commands (git and the bundled Graphite CLI)
// with context-based timeouts and structured errors.
package run

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
)

// DefaultCommandTimeout is the default timeout for external commands
const DefaultCommandTimeout = 5 * time.Minute

// Runner handles execution of a single external program
type Runner struct {
	program string
}

// NewRunner creates a Runner for the given program
func NewRunner(program string) *Runner {
	return &Runner{program: program}
}

// Run executes the program with the given arguments and returns trimmed stdout.
// A default timeout is applied when the context carries no deadline.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, true, args...)
}

// RunRaw executes the program and returns stdout without trimming
func (r *Runner) RunRaw(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, false, args...)
}

// RunLines executes the program and returns stdout split into lines
func (r *Runner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

func (r *Runner) run(ctx context.Context, trim bool, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", wraperrors.NewCommandError(r.program, args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", wraperrors.NewCommandError(r.program, args, stdout.String(), stderr.String(), err)
	}
	if trim {
		return strings.TrimSpace(stdout.String()), nil
	}
	return stdout.String(), nil
}

// RunInteractive executes the program with stdin/stdout/stderr connected to
// the terminal. Used for commands whose output should stream directly to the
// operator (restack, passthrough).
func (r *Runner) RunInteractive(args ...string) error {
	cmd := exec.Command(r.program, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ExitCode extracts the process exit code from an error returned by
// RunInteractive, defaulting to 1 for non-exec errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
