// Package submit pushes stack branches and creates or updates their pull
// requests, then rewrites the stack comments across the chain.
package submit

import (
	"errors"
	"fmt"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/git"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/runtime"
	"github.com/claycoleman/graphite-cli-wrapper/internal/stack"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// Options contains options for the submit command
type Options struct {
	Mode   Mode
	DryRun bool
}

type submitStatus string

const (
	statusCreated  submitStatus = "created"
	statusUpdated  submitStatus = "updated"
	statusToCreate submitStatus = "to-create"
)

type submitResult struct {
	Branch string
	URL    string
	Status submitStatus
}

// Action performs the submit operation
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog

	currentBranch, err := ctx.Git.CurrentBranch(ctx.Context)
	if err != nil {
		return err
	}
	trunk, err := ctx.Graphite.Trunk(ctx.Context)
	if err != nil {
		return err
	}
	if currentBranch == trunk || currentBranch == "main" {
		return wraperrors.ErrTrunkOperation
	}

	splog.Info("Parsing the stack...")
	listing, err := ctx.Graphite.StackListing(ctx.Context)
	if err != nil {
		return err
	}
	branches, err := stack.Read(listing, trunk)
	if err != nil {
		return err
	}
	if stack.IndexOf(branches, currentBranch) == -1 {
		return fmt.Errorf("current branch %s is not in the stack", currentBranch)
	}

	printStack(splog, branches, currentBranch, trunk)

	mode, err := resolveMode(opts.Mode, len(branches))
	if err != nil {
		return err
	}

	if err := ctx.EnsureGitHub(); err != nil {
		return err
	}
	dir, err := github.FetchDirectory(ctx.Context, ctx.GitHub)
	if err != nil {
		return err
	}

	planned, err := Plan(branches, currentBranch, mode)
	if err != nil {
		return err
	}
	if mode == ModeSingle || mode == ModeUpstack {
		if err := ValidateReadiness(branches, planned, dir); err != nil {
			return err
		}
	}

	noun := "branches"
	if len(planned) == 1 {
		noun = "branch"
	}
	splog.Newline()
	splog.Info("Submitting %d %s in %s mode...", len(planned), noun, mode)

	remoteBranches, err := ctx.Git.RemoteBranchNames(ctx.Context)
	if err != nil {
		return err
	}

	var results []submitResult
	submitted := make([]string, 0, len(planned))
	for _, pb := range planned {
		if pb.Branch == trunk || pb.Branch == "main" {
			return wraperrors.ErrTrunkOperation
		}

		if !opts.DryRun {
			if err := ctx.Git.Checkout(ctx.Context, pb.Branch); err != nil {
				return err
			}
		}

		parent := trunk
		if pb.Index > 0 {
			parent = branches[pb.Index-1]
		}

		result, err := submitBranch(ctx, pb.Branch, parent, dir, remoteBranches, opts.DryRun)
		if err != nil {
			return err
		}
		results = append(results, result)
		submitted = append(submitted, pb.Branch)
	}

	splog.Newline()
	splog.Info("Updating stack references...")
	sync := NewCommentSynchronizer(ctx.GitHub, splog, opts.DryRun)
	if err := sync.Sync(ctx.Context, branches, submitted); err != nil {
		return err
	}

	if !opts.DryRun {
		if err := ctx.Git.Checkout(ctx.Context, currentBranch); err != nil {
			return err
		}
	}
	splog.Newline()
	splog.Print(tui.ColorBlue("↩️  Returned to branch: " + currentBranch))

	printResults(splog, results)
	return nil
}

// resolveMode fills in an unset mode: a single-branch stack needs no choice,
// anything larger prompts the operator.
func resolveMode(mode Mode, stackSize int) (Mode, error) {
	if mode != ModeUnset {
		return mode, nil
	}
	if stackSize == 1 {
		return ModeSingle, nil
	}

	choice, err := tui.PromptSelect("Submit mode:", []tui.SelectOption{
		{Key: "s", Label: "single      submit only the current branch"},
		{Key: "u", Label: "upstack     submit this branch and all branches above it"},
		{Key: "d", Label: "downstack   submit this branch and all branches below it"},
		{Key: "w", Label: "whole-stack submit all branches in the stack"},
	})
	if err != nil {
		if errors.Is(err, wraperrors.ErrNotInteractive) {
			return ModeUnset, fmt.Errorf("a submit mode flag is required when not running interactively: %w", err)
		}
		return ModeUnset, err
	}

	switch choice {
	case "s":
		return ModeSingle, nil
	case "u":
		return ModeUpstack, nil
	case "d":
		return ModeDownstack, nil
	case "w":
		return ModeWholeStack, nil
	}
	return ModeUnset, fmt.Errorf("unknown submit mode selection %q", choice)
}

// submitBranch pushes one branch and creates or retargets its pull request
func submitBranch(ctx *runtime.Context, branch, parent string, dir *github.Directory, remoteBranches map[string]bool, dryRun bool) (submitResult, error) {
	splog := ctx.Splog

	if dryRun {
		splog.Info("[dry-run] would push branch: %s", branch)
	} else if err := pushBranch(ctx, branch, remoteBranches); err != nil {
		return submitResult{}, err
	}

	if record, ok := dir.Record(branch); ok {
		if record.Base != parent {
			splog.Info("Updating PR base branch from '%s' to '%s'...", record.Base, parent)
			if dryRun {
				splog.Info("[dry-run] would retarget PR #%d onto %s", record.Number, parent)
			} else if err := ctx.GitHub.UpdatePullRequestBase(ctx.Context, record.Number, parent); err != nil {
				return submitResult{}, err
			}
		}
		return submitResult{Branch: branch, URL: record.URL, Status: statusUpdated}, nil
	}

	splog.Info("Creating PR for branch: %s", branch)
	if dryRun {
		splog.Info("[dry-run] would create a draft PR for %s onto %s", branch, parent)
		return submitResult{Branch: branch, URL: "(pending)", Status: statusToCreate}, nil
	}

	title, body, err := prContents(ctx, branch, parent)
	if err != nil {
		return submitResult{}, err
	}

	if _, err := ctx.GitHub.CreatePullRequest(ctx.Context, github.CreatePROptions{
		Head:  branch,
		Base:  parent,
		Title: title,
		Body:  body,
		Draft: true,
	}); err != nil {
		return submitResult{}, err
	}

	created, err := github.FetchBranchDirectory(ctx.Context, ctx.GitHub, branch)
	if err != nil {
		return submitResult{}, err
	}
	record, ok := created.Record(branch)
	if !ok {
		return submitResult{}, fmt.Errorf("PR creation failed for branch %s", branch)
	}
	return submitResult{Branch: branch, URL: record.URL, Status: statusCreated}, nil
}

// pushBranch pushes plainly when the branch is new on the remote, with a
// lease otherwise so a stale local view cannot clobber a newer remote push.
func pushBranch(ctx *runtime.Context, branch string, remoteBranches map[string]bool) error {
	exists := remoteBranches[branch]
	if err := ctx.Git.Push(ctx.Context, branch, exists); err != nil {
		if errors.Is(err, wraperrors.ErrStaleRemoteInfo) {
			return fmt.Errorf("remote %s has commits your local view is missing, pull or restack before submitting: %w", branch, err)
		}
		return err
	}
	if exists {
		ctx.Splog.Info("Force-pushed branch: %s", branch)
	} else {
		ctx.Splog.Info("Pushed branch: %s", branch)
	}
	return nil
}

// prContents derives the new PR's title and body. The title is the subject of
// the branch's first commit; the body comes from the repository's PR template
// when one exists.
func prContents(ctx *runtime.Context, branch, parent string) (string, string, error) {
	title := ""
	subjects, err := ctx.Git.CommitSubjects(ctx.Context, parent, branch)
	if err == nil && len(subjects) > 0 {
		title = subjects[0]
	}
	if title == "" {
		if tui.Interactive() {
			title, err = tui.PromptTextInput("PR title:", branch)
			if err != nil {
				return "", "", err
			}
		}
		if title == "" {
			title = branch
		}
	}

	body := ""
	if root, err := git.RepoRoot(); err == nil {
		if template, ok := FindPRTemplate(root); ok {
			body = template
		}
	}

	return title, body, nil
}

func printStack(splog *tui.Splog, branches []string, currentBranch, trunk string) {
	splog.Newline()
	splog.Info("Stack to submit:")
	for i := len(branches) - 1; i >= 0; i-- {
		if branches[i] == currentBranch {
			splog.Info("> %s", branches[i])
		} else {
			splog.Info("  %s", branches[i])
		}
	}
	splog.Info("  %s", trunk)
}

func printResults(splog *tui.Splog, results []submitResult) {
	splog.Newline()
	splog.Info("Pull Requests:")
	for _, result := range results {
		switch result.Status {
		case statusUpdated:
			splog.Info("📝 Updated PR %s: %s", result.Branch, tui.ColorBlue(result.URL))
		case statusCreated:
			splog.Info("✅ Created PR %s: %s", result.Branch, tui.ColorGreen(result.URL))
		case statusToCreate:
			splog.Info("➕ To create PR %s: %s", result.Branch, tui.ColorYellow(result.URL))
		}
	}
	splog.Newline()
	splog.Info("All branches submitted successfully.")
}
