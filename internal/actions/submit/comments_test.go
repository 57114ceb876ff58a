package submit_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycoleman/graphite-cli-wrapper/internal/actions/submit"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// fakeClient is an in-memory github.Client for exercising the synchronizer
type fakeClient struct {
	open     map[string]github.PullRequestRecord
	comments map[int][]github.Comment

	createdComments map[int][]string
	updatedComments map[int64]string
}

func newFakeClient(open map[string]github.PullRequestRecord, comments map[int][]github.Comment) *fakeClient {
	if comments == nil {
		comments = map[int][]github.Comment{}
	}
	return &fakeClient{
		open:            open,
		comments:        comments,
		createdComments: map[int][]string{},
		updatedComments: map[int64]string{},
	}
}

func (f *fakeClient) OwnerRepo() (string, string) { return "testuser", "testrepo" }

func (f *fakeClient) OpenPullRequests(_ context.Context) (map[string]github.PullRequestRecord, error) {
	return f.open, nil
}

func (f *fakeClient) PullRequestForBranch(_ context.Context, branch string) (*github.PullRequestRecord, error) {
	if record, ok := f.open[branch]; ok {
		return &record, nil
	}
	return nil, nil
}

func (f *fakeClient) MergedPullRequestHeads(_ context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeClient) CreatePullRequest(_ context.Context, _ github.CreatePROptions) (*github.PullRequestRecord, error) {
	return nil, nil
}

func (f *fakeClient) UpdatePullRequestBase(_ context.Context, _ int, _ string) error {
	return nil
}

func (f *fakeClient) ListComments(_ context.Context, number int) ([]github.Comment, error) {
	return f.comments[number], nil
}

func (f *fakeClient) CreateComment(_ context.Context, number int, body string) error {
	f.createdComments[number] = append(f.createdComments[number], body)
	return nil
}

func (f *fakeClient) UpdateComment(_ context.Context, commentID int64, body string) error {
	f.updatedComments[commentID] = body
	return nil
}

func pullRecord(number int, base, title string) github.PullRequestRecord {
	return github.PullRequestRecord{
		Number: number,
		URL:    "https://github.com/testuser/testrepo/pull/" + strconv.Itoa(number),
		Base:   base,
		Title:  title,
	}
}

func TestCommentSynchronizer(t *testing.T) {
	ctx := context.Background()
	splog := tui.NewSplog()

	t.Run("updates existing comments and creates missing ones", func(t *testing.T) {
		client := newFakeClient(map[string]github.PullRequestRecord{
			"feature_a": pullRecord(1, "main", "First"),
			"feature_b": pullRecord(2, "feature_a", "Second"),
		}, map[int][]github.Comment{
			1: {
				{ID: 5, Body: "unrelated comment"},
				{ID: 11, Body: "### Stack\nmain\n└─ First (#1)"},
			},
		})

		sync := submit.NewCommentSynchronizer(client, splog, false)
		err := sync.Sync(ctx, []string{"feature_a", "feature_b"}, []string{"feature_a", "feature_b"})
		require.NoError(t, err)

		// feature_a's PR had a stack comment: edited in place
		require.Contains(t, client.updatedComments, int64(11))
		assert.Contains(t, client.updatedComments[11], "**First (#1) ⬅️**")
		assert.Contains(t, client.updatedComments[11], "Second (#2)")

		// feature_b's PR had none: a new comment is created
		require.Len(t, client.createdComments[2], 1)
		assert.Contains(t, client.createdComments[2][0], "First (#1)")
		assert.Contains(t, client.createdComments[2][0], "**Second (#2) ⬅️**")
	})

	t.Run("no PRs means no mutations", func(t *testing.T) {
		client := newFakeClient(map[string]github.PullRequestRecord{}, nil)

		sync := submit.NewCommentSynchronizer(client, splog, false)
		err := sync.Sync(ctx, []string{"feature_a", "feature_b"}, []string{"feature_a"})
		require.NoError(t, err)

		assert.Empty(t, client.createdComments)
		assert.Empty(t, client.updatedComments)
	})

	t.Run("historical lineage from the lowest PR is folded in", func(t *testing.T) {
		client := newFakeClient(map[string]github.PullRequestRecord{
			"feature_a": pullRecord(1, "main", "First"),
			"feature_b": pullRecord(2, "feature_a", "Second"),
		}, map[int][]github.Comment{
			1: {
				{ID: 11, Body: "### Stack\nmain\n├─ Old merged thing (#104)\n└─ First (#1)"},
			},
		})

		sync := submit.NewCommentSynchronizer(client, splog, false)
		err := sync.Sync(ctx, []string{"feature_a", "feature_b"}, []string{"feature_b"})
		require.NoError(t, err)

		// Both comments show the same extended view
		body := client.updatedComments[11]
		assert.Contains(t, body, "Old merged thing (#104)")
		assert.Contains(t, body, "First (#1)")
		assert.Contains(t, body, "Second (#2)")

		require.Len(t, client.createdComments[2], 1)
		assert.Contains(t, client.createdComments[2][0], "Old merged thing (#104)")
	})

	t.Run("downstack branches of the submitted set are refreshed", func(t *testing.T) {
		client := newFakeClient(map[string]github.PullRequestRecord{
			"feature_a": pullRecord(1, "main", "First"),
			"feature_b": pullRecord(2, "feature_a", "Second"),
			"feature_c": pullRecord(3, "feature_b", "Third"),
		}, nil)

		sync := submit.NewCommentSynchronizer(client, splog, false)
		err := sync.Sync(ctx, []string{"feature_a", "feature_b", "feature_c"}, []string{"feature_c"})
		require.NoError(t, err)

		// All three have PRs: the submitted branch plus both downstack ones
		assert.Len(t, client.createdComments[1], 1)
		assert.Len(t, client.createdComments[2], 1)
		assert.Len(t, client.createdComments[3], 1)
	})

	t.Run("historical entries are never update targets", func(t *testing.T) {
		// A merged-out PR can still show up as open in a stale directory
		// snapshot; its synthetic entry must render in bodies without its
		// own comment ever being rewritten.
		client := newFakeClient(map[string]github.PullRequestRecord{
			"historical_104": pullRecord(104, "main", "Old merged thing"),
			"feature_a":      pullRecord(1, "main", "First"),
		}, nil)

		sync := submit.NewCommentSynchronizer(client, splog, false)
		err := sync.Sync(ctx, []string{"historical_104", "feature_a"}, []string{"feature_a"})
		require.NoError(t, err)

		require.Len(t, client.createdComments[1], 1)
		assert.NotContains(t, client.createdComments, 104)
		assert.Empty(t, client.updatedComments)
	})

	t.Run("dry run mutates nothing", func(t *testing.T) {
		client := newFakeClient(map[string]github.PullRequestRecord{
			"feature_a": pullRecord(1, "main", "First"),
		}, nil)

		sync := submit.NewCommentSynchronizer(client, splog, true)
		err := sync.Sync(ctx, []string{"feature_a"}, []string{"feature_a"})
		require.NoError(t, err)

		assert.Empty(t, client.createdComments)
		assert.Empty(t, client.updatedComments)
	})
}
