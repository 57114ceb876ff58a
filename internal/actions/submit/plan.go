package submit

import (
	"fmt"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/stack"
)

// Mode selects which slice of the stack a submit run covers
type Mode int

const (
	ModeUnset Mode = iota
	ModeSingle
	ModeUpstack
	ModeDownstack
	ModeWholeStack
)

// String returns the flag-style name of the mode
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeUpstack:
		return "upstack"
	case ModeDownstack:
		return "downstack"
	case ModeWholeStack:
		return "whole-stack"
	default:
		return "unset"
	}
}

// PlannedBranch is one branch scheduled for submission, with its position in
// the full stack.
type PlannedBranch struct {
	Index  int
	Branch string
}

// Plan selects the branches to submit, ordered bottom to top. The current
// branch must be a member of the stack.
func Plan(branches []string, currentBranch string, mode Mode) ([]PlannedBranch, error) {
	idx := stack.IndexOf(branches, currentBranch)
	if idx == -1 {
		return nil, fmt.Errorf("current branch %s is not part of the stack", currentBranch)
	}

	var lo, hi int
	switch mode {
	case ModeSingle:
		lo, hi = idx, idx+1
	case ModeUpstack:
		lo, hi = idx, len(branches)
	case ModeDownstack:
		lo, hi = 0, idx+1
	case ModeWholeStack:
		lo, hi = 0, len(branches)
	default:
		return nil, fmt.Errorf("no submit mode selected")
	}

	planned := make([]PlannedBranch, 0, hi-lo)
	for i := lo; i < hi; i++ {
		planned = append(planned, PlannedBranch{Index: i, Branch: branches[i]})
	}
	return planned, nil
}

// ValidateReadiness checks that every branch below the planned range already
// has an open pull request. Single and upstack submissions depend on those
// PRs existing as bases; downstack and whole-stack create them themselves and
// never need this check.
func ValidateReadiness(branches []string, planned []PlannedBranch, dir *github.Directory) error {
	if len(planned) == 0 {
		return nil
	}

	var missing []string
	for _, branch := range branches[:planned[0].Index] {
		if !dir.HasPR(branch) {
			missing = append(missing, branch)
		}
	}
	if len(missing) > 0 {
		return wraperrors.NewStackNotReadyError(missing)
	}
	return nil
}
