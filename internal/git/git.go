// Package git wraps the git operations the wrapper needs. All mutations go
// through plain command invocation; only the exit status and stdout are
// observed.
package git

import (
	"context"
	"errors"
	"strings"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/run"
)

// Git executes git commands through a run.Runner
type Git struct {
	runner *run.Runner
}

// New creates a Git wrapper using the git binary on PATH
func New() *Git {
	return &Git{runner: run.NewRunner("git")}
}

// NewWithRunner creates a Git wrapper around an existing runner (used in tests)
func NewWithRunner(runner *run.Runner) *Git {
	return &Git{runner: runner}
}

// CurrentBranch returns the branch HEAD is on
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return g.runner.Run(ctx, "branch", "--show-current")
}

// Checkout switches the working tree to the given branch
func (g *Git) Checkout(ctx context.Context, branch string) error {
	_, err := g.runner.Run(ctx, "checkout", branch)
	return err
}

// Pull fast-forwards the current branch from its upstream
func (g *Git) Pull(ctx context.Context) error {
	_, err := g.runner.Run(ctx, "pull")
	return err
}

// HasUncommittedChanges reports whether the working tree is dirty
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	output, err := g.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// Push pushes a branch to origin. When forceWithLease is set, a lease token
// guards against clobbering remote commits the local view has not seen; a
// rejected lease surfaces as ErrStaleRemoteInfo.
func (g *Git) Push(ctx context.Context, branch string, forceWithLease bool) error {
	args := []string{"push", "origin", branch}
	if forceWithLease {
		args = append(args, "--force-with-lease")
	}
	_, err := g.runner.Run(ctx, args...)
	if err != nil {
		var cmdErr *wraperrors.CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "stale info") {
			return wraperrors.ErrStaleRemoteInfo
		}
		return err
	}
	return nil
}

// RemoteBranchNames enumerates branch heads on origin
func (g *Git) RemoteBranchNames(ctx context.Context) (map[string]bool, error) {
	lines, err := g.runner.RunLines(ctx, "ls-remote", "--heads", "origin")
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(lines))
	for _, line := range lines {
		if idx := strings.Index(line, "refs/heads/"); idx != -1 {
			names[line[idx+len("refs/heads/"):]] = true
		}
	}
	return names, nil
}

// CommitSubjects returns the subjects of the commits on branch that are not
// on base, oldest first.
func (g *Git) CommitSubjects(ctx context.Context, base, branch string) ([]string, error) {
	return g.runner.RunLines(ctx, "log", "--reverse", "--pretty=%s", base+".."+branch)
}

// IsAlias reports whether the given command is a configured git alias
func (g *Git) IsAlias(ctx context.Context, command string) bool {
	_, err := g.runner.Run(ctx, "config", "--get", "alias."+command)
	return err == nil
}

// RunInteractive runs a git command with the terminal attached, used for
// alias passthrough.
func (g *Git) RunInteractive(args ...string) error {
	return g.runner.RunInteractive(args...)
}
