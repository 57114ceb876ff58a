package submit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycoleman/graphite-cli-wrapper/internal/actions/submit"
	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
)

func branchNames(planned []submit.PlannedBranch) []string {
	names := make([]string, 0, len(planned))
	for _, pb := range planned {
		names = append(names, pb.Branch)
	}
	return names
}

func TestPlan(t *testing.T) {
	stack := []string{"a", "b", "c"}

	t.Run("single plans only the current branch", func(t *testing.T) {
		planned, err := submit.Plan(stack, "b", submit.ModeSingle)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, branchNames(planned))
		assert.Equal(t, 1, planned[0].Index)
	})

	t.Run("upstack plans the current branch and above", func(t *testing.T) {
		planned, err := submit.Plan(stack, "b", submit.ModeUpstack)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, branchNames(planned))
	})

	t.Run("downstack plans the current branch and below", func(t *testing.T) {
		planned, err := submit.Plan(stack, "b", submit.ModeDownstack)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, branchNames(planned))
	})

	t.Run("whole stack plans everything", func(t *testing.T) {
		planned, err := submit.Plan(stack, "b", submit.ModeWholeStack)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, branchNames(planned))
	})

	t.Run("positions index into the full stack", func(t *testing.T) {
		planned, err := submit.Plan(stack, "b", submit.ModeUpstack)
		require.NoError(t, err)
		assert.Equal(t, 1, planned[0].Index)
		assert.Equal(t, 2, planned[1].Index)
	})

	t.Run("current branch outside the stack fails", func(t *testing.T) {
		_, err := submit.Plan(stack, "missing", submit.ModeSingle)
		assert.Error(t, err)
	})

	t.Run("unset mode fails", func(t *testing.T) {
		_, err := submit.Plan(stack, "b", submit.ModeUnset)
		assert.Error(t, err)
	})
}

func TestValidateReadiness(t *testing.T) {
	stack := []string{"a", "b", "c"}

	t.Run("missing downstack PRs are named", func(t *testing.T) {
		dir := &github.Directory{Branches: map[string]github.PullRequestRecord{}}
		planned, err := submit.Plan(stack, "b", submit.ModeSingle)
		require.NoError(t, err)

		err = submit.ValidateReadiness(stack, planned, dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, wraperrors.ErrStackNotReady)

		var notReady *wraperrors.StackNotReadyError
		require.ErrorAs(t, err, &notReady)
		assert.Equal(t, []string{"a"}, notReady.Missing)
	})

	t.Run("passes when downstack PRs exist", func(t *testing.T) {
		dir := &github.Directory{Branches: map[string]github.PullRequestRecord{
			"a": {Number: 1},
		}}
		planned, err := submit.Plan(stack, "b", submit.ModeUpstack)
		require.NoError(t, err)

		assert.NoError(t, submit.ValidateReadiness(stack, planned, dir))
	})

	t.Run("downstack plan needs no readiness", func(t *testing.T) {
		dir := &github.Directory{Branches: map[string]github.PullRequestRecord{}}
		planned, err := submit.Plan(stack, "b", submit.ModeDownstack)
		require.NoError(t, err)

		assert.NoError(t, submit.ValidateReadiness(stack, planned, dir))
	})
}
