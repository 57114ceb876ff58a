package sync_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycoleman/graphite-cli-wrapper/internal/actions/sync"
	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/git"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/graphite"
	"github.com/claycoleman/graphite-cli-wrapper/internal/run"
	"github.com/claycoleman/graphite-cli-wrapper/internal/runtime"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// fakeClient is an in-memory github.Client; only the merged-heads query
// matters to the sync flow.
type fakeClient struct {
	merged []string
}

func (f *fakeClient) OwnerRepo() (string, string) { return "testuser", "testrepo" }

func (f *fakeClient) OpenPullRequests(_ context.Context) (map[string]github.PullRequestRecord, error) {
	return map[string]github.PullRequestRecord{}, nil
}

func (f *fakeClient) PullRequestForBranch(_ context.Context, _ string) (*github.PullRequestRecord, error) {
	return nil, nil
}

func (f *fakeClient) MergedPullRequestHeads(_ context.Context) ([]string, error) {
	return f.merged, nil
}

func (f *fakeClient) CreatePullRequest(_ context.Context, _ github.CreatePROptions) (*github.PullRequestRecord, error) {
	return nil, nil
}

func (f *fakeClient) UpdatePullRequestBase(_ context.Context, _ int, _ string) error {
	return nil
}

func (f *fakeClient) ListComments(_ context.Context, _ int) ([]github.Comment, error) {
	return nil, nil
}

func (f *fakeClient) CreateComment(_ context.Context, _ int, _ string) error { return nil }

func (f *fakeClient) UpdateComment(_ context.Context, _ int64, _ string) error { return nil }

// gitStub answers the few git queries sync makes. The current branch and a
// dirty working tree are injected through the environment.
const gitStub = `#!/bin/sh
case "$1" in
status)
	[ -n "$GTW_TEST_DIRTY" ] && printf ' M file.go\n'
	;;
branch)
	printf '%s\n' "$GTW_TEST_CURRENT_BRANCH"
	;;
esac
exit 0
`

// gtStub serves a two-branch stack on trunk main and records every
// invocation so tests can assert which branches were deleted.
const gtStub = `#!/bin/sh
printf '%s\n' "$*" >> "$GTW_TEST_GT_LOG"
case "$1" in
trunk)
	printf 'main\n'
	;;
ls)
	if [ "$2" = "--classic" ]; then
		printf '  ↱ $ feature_a\n  ↱ $ feature_b\n  ↱ $ main\n'
	else
		printf '◉ main\n◯ feature_a\n◯ feature_b\n'
	fi
	;;
esac
exit 0
`

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// newTestContext builds a runtime context backed by stub executables and a
// fake GitHub client.
func newTestContext(t *testing.T, client github.Client) (*runtime.Context, string) {
	t.Helper()
	dir := t.TempDir()
	gtLog := filepath.Join(dir, "gt.log")
	t.Setenv("GTW_TEST_GT_LOG", gtLog)
	t.Setenv("GTW_TEST_DIRTY", "")

	return &runtime.Context{
		Context:  context.Background(),
		Splog:    tui.NewSplog(),
		Git:      git.NewWithRunner(run.NewRunner(writeStub(t, dir, "git", gitStub))),
		Graphite: graphite.NewWithRunner(run.NewRunner(writeStub(t, dir, "gt", gtStub))),
		GitHub:   client,
	}, gtLog
}

func gtInvocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestSyncAction(t *testing.T) {
	t.Run("rejects current-stack sync from trunk", func(t *testing.T) {
		ctx, _ := newTestContext(t, &fakeClient{})
		t.Setenv("GTW_TEST_CURRENT_BRANCH", "main")

		err := sync.Action(ctx, sync.Options{CurrentStack: true})
		require.Error(t, err)
		assert.ErrorIs(t, err, wraperrors.ErrTrunkOperation)
	})

	t.Run("dirty working tree blocks the sync", func(t *testing.T) {
		ctx, gtLog := newTestContext(t, &fakeClient{})
		t.Setenv("GTW_TEST_CURRENT_BRANCH", "feature_b")
		t.Setenv("GTW_TEST_DIRTY", "1")

		err := sync.Action(ctx, sync.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "local changes")
		assert.Empty(t, gtInvocations(t, gtLog))
	})

	t.Run("deletes only merged branches of the current stack", func(t *testing.T) {
		client := &fakeClient{merged: []string{"feature_a", "unrelated_branch"}}
		ctx, gtLog := newTestContext(t, client)
		t.Setenv("GTW_TEST_CURRENT_BRANCH", "feature_b")

		err := sync.Action(ctx, sync.Options{CurrentStack: true, Yes: true, SkipRestack: true})
		require.NoError(t, err)

		invocations := gtInvocations(t, gtLog)
		assert.Contains(t, invocations, "delete feature_a")
		assert.NotContains(t, invocations, "delete feature_b")
		assert.NotContains(t, invocations, "delete unrelated_branch")
		assert.NotContains(t, invocations, "restack")
	})

	t.Run("whole-repo candidates come from the classic listing", func(t *testing.T) {
		client := &fakeClient{merged: []string{"feature_a"}}
		ctx, gtLog := newTestContext(t, client)
		t.Setenv("GTW_TEST_CURRENT_BRANCH", "feature_b")

		err := sync.Action(ctx, sync.Options{Yes: true, SkipRestack: true})
		require.NoError(t, err)

		invocations := gtInvocations(t, gtLog)
		assert.Contains(t, invocations, "ls --classic")
		assert.Contains(t, invocations, "delete feature_a")
		assert.NotContains(t, invocations, "delete feature_b")
	})

	t.Run("dry run deletes nothing and skips the restack", func(t *testing.T) {
		client := &fakeClient{merged: []string{"feature_a"}}
		ctx, gtLog := newTestContext(t, client)
		t.Setenv("GTW_TEST_CURRENT_BRANCH", "feature_b")

		err := sync.Action(ctx, sync.Options{DryRun: true, Yes: true})
		require.NoError(t, err)

		for _, invocation := range gtInvocations(t, gtLog) {
			assert.NotContains(t, invocation, "delete")
			assert.NotContains(t, invocation, "restack")
		}
	})
}
