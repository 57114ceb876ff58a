// Package graphite wraps the bundled Graphite CLI (gt). The wrapper only
// consumes gt's text output and invokes it as an opaque command; restack,
// delete, and the rest of stack mutation stay delegated to gt itself.
package graphite

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/claycoleman/graphite-cli-wrapper/internal/run"
)

// bundledCLIPath is where the Graphite CLI lives relative to the installed
// wrapper binary (npm package layout).
const bundledCLIPath = "../node_modules/@withgraphite/graphite-cli/graphite.js"

// CLI invokes the Graphite command line tool
type CLI struct {
	runner *run.Runner
}

// New creates a CLI wrapper for the given gt executable path
func New(path string) *CLI {
	return &CLI{runner: run.NewRunner(path)}
}

// NewWithRunner creates a CLI wrapper around an existing runner (used in tests)
func NewWithRunner(runner *run.Runner) *CLI {
	return &CLI{runner: runner}
}

// Locate finds the bundled Graphite CLI next to the wrapper executable,
// falling back to a gt binary on PATH.
func Locate() (*CLI, error) {
	exe, err := os.Executable()
	if err == nil {
		if resolved, rerr := filepath.EvalSymlinks(exe); rerr == nil {
			exe = resolved
		}
		bundled := filepath.Join(filepath.Dir(exe), bundledCLIPath)
		if _, serr := os.Stat(bundled); serr == nil {
			return New(bundled), nil
		}
	}

	if path, perr := exec.LookPath("gt"); perr == nil {
		return New(path), nil
	}

	return nil, fmt.Errorf("could not find the bundled Graphite CLI at %s and no gt on PATH", bundledCLIPath)
}

// Trunk returns the name of the trunk branch
func (c *CLI) Trunk(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "trunk")
	if err != nil {
		return "", err
	}
	return FilterVersionWarning(output), nil
}

// StackListing returns the raw output of the stack listing, bottom to top
func (c *CLI) StackListing(ctx context.Context) (string, error) {
	output, err := c.runner.RunRaw(ctx, "ls", "--stack", "--reverse")
	if err != nil {
		return "", err
	}
	return FilterVersionWarning(output), nil
}

// ClassicBranches returns all local branch names known to gt, trunk excluded.
// The classic listing marks each branch line with an arrow-dollar prefix.
func (c *CLI) ClassicBranches(ctx context.Context, trunk string) (map[string]bool, error) {
	output, err := c.runner.Run(ctx, "ls", "--classic")
	if err != nil {
		return nil, err
	}

	branches := make(map[string]bool)
	for _, line := range strings.Split(FilterVersionWarning(output), "\n") {
		marker := "↱ $ "
		idx := strings.Index(line, marker)
		if idx == -1 {
			continue
		}
		fields := strings.Fields(line[idx+len(marker):])
		if len(fields) == 0 {
			continue
		}
		branches[fields[0]] = true
	}
	delete(branches, trunk)
	return branches, nil
}

// Restack runs gt restack with the terminal attached
func (c *CLI) Restack() error {
	return c.runner.RunInteractive("restack")
}

// DeleteBranch deletes a branch through gt so stack relationships survive
func (c *CLI) DeleteBranch(ctx context.Context, branch string) error {
	_, err := c.runner.Run(ctx, "delete", branch)
	return err
}

// Version returns the bundled Graphite CLI version
func (c *CLI) Version(ctx context.Context) string {
	output, err := c.runner.Run(ctx, "--version")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(FilterVersionWarning(output))
}

// Help returns gt's help text with the AUTHENTICATING…TERMS section removed
func (c *CLI) Help(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "--help")
	if err != nil {
		return "", err
	}

	pre, rest, found := strings.Cut(output, "AUTHENTICATING")
	if !found {
		return output, nil
	}
	_, post, found := strings.Cut(rest, "TERMS")
	if !found {
		return output, nil
	}
	return pre + "TERMS" + post, nil
}

// Passthrough runs an arbitrary gt command with the terminal attached
func (c *CLI) Passthrough(args ...string) error {
	return c.runner.RunInteractive(args...)
}
