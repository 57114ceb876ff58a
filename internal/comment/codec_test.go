package comment_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claycoleman/graphite-cli-wrapper/internal/comment"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
)

func testDirectory(branches map[string]github.PullRequestRecord) *github.Directory {
	return &github.Directory{
		Owner:    "testuser",
		Repo:     "testrepo",
		Branches: branches,
	}
}

func record(number int, base, title string) github.PullRequestRecord {
	return github.PullRequestRecord{
		Number: number,
		URL:    "https://github.com/testuser/testrepo/pull/" + strconv.Itoa(number),
		Base:   base,
		Title:  title,
	}
}

func TestFormat(t *testing.T) {
	t.Run("single branch stack", func(t *testing.T) {
		dir := testDirectory(map[string]github.PullRequestRecord{
			"x": record(7, "main", "Fix"),
		})

		body := comment.Format([]string{"x"}, dir, "x")

		assert.Equal(t, "### Stack\nmain\n└─ **Fix (#7) ⬅️**", body)
	})

	t.Run("multi branch stack with current marker", func(t *testing.T) {
		dir := testDirectory(map[string]github.PullRequestRecord{
			"feature_a": record(101, "main", "Fix bug"),
			"feature_b": record(102, "feature_a", "Add feature"),
			"feature_c": record(103, "feature_b", "Add tests"),
		})

		body := comment.Format([]string{"feature_a", "feature_b", "feature_c"}, dir, "feature_b")

		assert.Equal(t, "### Stack\nmain\n├─ Fix bug (#101)\n├── **Add feature (#102) ⬅️**\n└─── Add tests (#103)", body)
	})

	t.Run("branch without PR renders placeholder", func(t *testing.T) {
		dir := testDirectory(map[string]github.PullRequestRecord{
			"feature_a": record(101, "main", "Fix bug"),
		})

		body := comment.Format([]string{"feature_a", "feature_b"}, dir, "feature_b")

		assert.Contains(t, body, "├─ Fix bug (#101)")
		assert.Contains(t, body, "└── **PR pending ⬅️**")
	})
}

func TestParse(t *testing.T) {
	t.Run("rejects text without the header", func(t *testing.T) {
		assert.Nil(t, comment.Parse("just some comment"))
		assert.Nil(t, comment.Parse(""))
	})

	t.Run("parses entries in order", func(t *testing.T) {
		body := "### Stack\nmain\n├─ Fix login bug (#101)\n├─ Add validation (#102)\n└─ Update tests (#103)"

		entries := comment.Parse(body)

		require.Len(t, entries, 3)
		assert.Equal(t, comment.Entry{Number: 101, Title: "Fix login bug"}, entries[0])
		assert.Equal(t, comment.Entry{Number: 102, Title: "Add validation"}, entries[1])
		assert.Equal(t, comment.Entry{Number: 103, Title: "Update tests"}, entries[2])
	})

	t.Run("recovers the current branch flag", func(t *testing.T) {
		body := "### Stack\nmain\n├─ Fix login bug (#101)\n├─ **Add validation (#102) ⬅️**\n└─ Update tests (#103)"

		entries := comment.Parse(body)

		require.Len(t, entries, 3)
		assert.False(t, entries[0].Current)
		assert.True(t, entries[1].Current)
		assert.Equal(t, "Add validation", entries[1].Title)
		assert.False(t, entries[2].Current)
	})

	t.Run("malformed bold marker still yields the title", func(t *testing.T) {
		body := "### Stack\nmain\n└─ **Fix login bug (#101)**"

		entries := comment.Parse(body)

		require.Len(t, entries, 1)
		assert.Equal(t, 101, entries[0].Number)
		assert.Equal(t, "Fix login bug", entries[0].Title)
		assert.False(t, entries[0].Current)
	})

	t.Run("anchors on the last PR reference", func(t *testing.T) {
		body := "### Stack\nmain\n└─ Fix parser (see (#12) and more) (#34)"

		entries := comment.Parse(body)

		require.Len(t, entries, 1)
		assert.Equal(t, 34, entries[0].Number)
		assert.Equal(t, "Fix parser (see (#12) and more)", entries[0].Title)
	})

	t.Run("skips placeholder and malformed lines", func(t *testing.T) {
		body := "### Stack\nmain\n├─ PR pending\n├─ No reference here\n├─ Bad reference (#12x)\n├─ Empty reference (#)\n└─ Real entry (#5)"

		entries := comment.Parse(body)

		require.Len(t, entries, 1)
		assert.Equal(t, 5, entries[0].Number)
		assert.Equal(t, "Real entry", entries[0].Title)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("titles survive format then parse", func(t *testing.T) {
		titles := []string{
			"Plain title",
			"Ampersand & \"quotes\"",
			"Emoji 🎉 rocket 🚀",
			"Nested (parens (deep)) title",
			"Wrapped\ntitle with a newline",
		}

		stack := []string{"b0", "b1", "b2", "b3", "b4"}
		branches := make(map[string]github.PullRequestRecord, len(stack))
		for i, branch := range stack {
			branches[branch] = record(100+i, "main", titles[i])
		}
		dir := testDirectory(branches)

		body := comment.Format(stack, dir, "b2")
		entries := comment.Parse(body)

		require.Len(t, entries, len(stack))
		currentCount := 0
		for i, entry := range entries {
			assert.Equal(t, 100+i, entry.Number)
			assert.Equal(t, titles[i], entry.Title)
			if entry.Current {
				currentCount++
				assert.Equal(t, 102, entry.Number)
			}
		}
		assert.Equal(t, 1, currentCount)
	})
}
