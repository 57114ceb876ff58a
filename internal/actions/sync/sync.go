// Package sync pulls trunk, deletes local branches whose pull requests have
// merged, and restacks what remains.
package sync

import (
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/runtime"
	"github.com/claycoleman/graphite-cli-wrapper/internal/stack"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// Options contains options for the sync command
type Options struct {
	DryRun       bool
	SkipRestack  bool
	CurrentStack bool
	Yes          bool
}

// Action performs the sync operation
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog

	dirty, err := ctx.Git.HasUncommittedChanges(ctx.Context)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("there are local changes, commit or stash them before syncing")
	}

	initialBranch, err := ctx.Git.CurrentBranch(ctx.Context)
	if err != nil {
		return err
	}
	trunk, err := ctx.Graphite.Trunk(ctx.Context)
	if err != nil {
		return err
	}

	// The stack listing depends on the checked-out branch, so resolve the
	// current stack before switching to trunk.
	var stackBranches []string
	if opts.CurrentStack {
		if initialBranch == trunk || initialBranch == "main" {
			return fmt.Errorf("cannot sync current stack from %s: %w", initialBranch, wraperrors.ErrTrunkOperation)
		}
		listing, err := ctx.Graphite.StackListing(ctx.Context)
		if err != nil {
			return fmt.Errorf("error parsing stack: %w", err)
		}
		stackBranches, err = stack.Read(listing, trunk)
		if err != nil {
			return fmt.Errorf("error parsing stack: %w", err)
		}
	}

	splog.Newline()
	splog.Print(tui.ColorBlue(fmt.Sprintf("🔄 Switching to '%s' and pulling the latest changes...", trunk)))
	if err := ctx.Git.Checkout(ctx.Context, trunk); err != nil {
		return err
	}
	if err := ctx.Git.Pull(ctx.Context); err != nil {
		return err
	}

	candidates, err := cleanupCandidates(ctx, opts, trunk, stackBranches)
	if err != nil {
		return err
	}

	splog.Newline()
	splog.Print(tui.ColorBlue("🔍 Fetching merged PR branches from GitHub..."))
	if err := ctx.EnsureGitHub(); err != nil {
		return err
	}
	mergedHeads, err := ctx.GitHub.MergedPullRequestHeads(ctx.Context)
	if err != nil {
		return err
	}
	mergedSet := make(map[string]bool, len(mergedHeads))
	for _, head := range mergedHeads {
		mergedSet[head] = true
	}

	var merged, unmerged []string
	for branch := range candidates {
		if mergedSet[branch] {
			merged = append(merged, branch)
		} else {
			unmerged = append(unmerged, branch)
		}
	}
	sort.Strings(merged)
	sort.Strings(unmerged)

	if len(unmerged) > 0 {
		splog.Newline()
		splog.Print(tui.ColorYellow("Unmerged branches:"))
		for _, branch := range unmerged {
			splog.Info("🔀  %s", branch)
		}
	}

	deleted := make(map[string]bool)
	if len(merged) == 0 {
		splog.Newline()
		splog.Print(tui.ColorGreen("✨ No merged branches to clean up!"))
	} else {
		splog.Newline()
		splog.Print(tui.ColorYellow("Found merged branches:"))
		for _, branch := range merged {
			ok, err := confirmDelete(branch, trunk, opts.Yes)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if opts.DryRun {
				splog.Info("[dry-run] would delete branch: %s", branch)
			} else if err := ctx.Graphite.DeleteBranch(ctx.Context, branch); err != nil {
				return err
			}
			splog.Info("🗑️  Deleted branch: %s", tui.ColorRed(branch))
			deleted[branch] = true
		}
	}

	if opts.SkipRestack {
		splog.Newline()
		splog.Print(tui.ColorYellow("⏩ Skipping 'gt restack' as requested."))
	} else {
		splog.Newline()
		splog.Print(tui.ColorBlue("🔄 Running 'gt restack'..."))
		if opts.DryRun {
			splog.Info("[dry-run] would run: gt restack")
		} else if err := ctx.Graphite.Restack(); err != nil {
			return err
		}
	}

	if !deleted[initialBranch] {
		if err := ctx.Git.Checkout(ctx.Context, initialBranch); err != nil {
			return err
		}
		splog.Newline()
		splog.Print(tui.ColorBlue("↩️  Returned to branch: " + initialBranch))
	}

	return nil
}

// cleanupCandidates returns the set of branches eligible for deletion: the
// branches of the current stack, or every local branch gt knows about.
func cleanupCandidates(ctx *runtime.Context, opts Options, trunk string, stackBranches []string) (map[string]bool, error) {
	if opts.CurrentStack {
		candidates := make(map[string]bool, len(stackBranches))
		for _, branch := range stackBranches {
			candidates[branch] = true
		}
		return candidates, nil
	}

	ctx.Splog.Newline()
	ctx.Splog.Print(tui.ColorBlue("📋 Fetching local branches..."))
	return ctx.Graphite.ClassicBranches(ctx.Context, trunk)
}

// confirmDelete asks before deleting a merged branch, defaulting to yes
func confirmDelete(branch, trunk string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !tui.Interactive() {
		return false, wraperrors.ErrNotInteractive
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Branch '%s' is merged into %s. Delete it?", branch, trunk),
		Default: true,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
