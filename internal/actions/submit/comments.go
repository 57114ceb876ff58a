package submit

import (
	"context"
	"strings"

	"github.com/claycoleman/graphite-cli-wrapper/internal/comment"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// CommentSynchronizer keeps the stack comments on a chain of pull requests
// consistent with the live stack, folding in historical lineage recovered
// from previously posted comments.
type CommentSynchronizer struct {
	client github.Client
	splog  *tui.Splog
	dryRun bool
}

// NewCommentSynchronizer creates a synchronizer
func NewCommentSynchronizer(client github.Client, splog *tui.Splog, dryRun bool) *CommentSynchronizer {
	return &CommentSynchronizer{client: client, splog: splog, dryRun: dryRun}
}

// Sync refreshes the directory and rewrites the stack comment on every pull
// request that needs it: the branches submitted this run plus every branch
// below the lowest submitted one that already has a PR. All comment bodies in
// one run are generated from the same extended stack and directory so every
// PR in the chain shows an identical view.
func (s *CommentSynchronizer) Sync(ctx context.Context, stack []string, submitted []string) error {
	dir, err := github.FetchDirectory(ctx, s.client)
	if err != nil {
		return err
	}

	extendedStack, extendedDir, err := s.extend(ctx, stack, dir)
	if err != nil {
		return err
	}

	targets := updateTargets(stack, submitted, dir)
	if len(targets) == 0 {
		s.splog.Info("No branches with PRs to update")
		return nil
	}
	s.splog.Info("Updating stack comments for: %s", strings.Join(targets, ", "))

	for _, branch := range targets {
		record, _ := dir.Record(branch)
		body := comment.Format(extendedStack, extendedDir, branch)

		if s.dryRun {
			s.splog.Info("[dry-run] would update stack comment on PR #%d", record.Number)
			continue
		}

		commentID, _, err := s.findStackComment(ctx, record.Number)
		if err != nil {
			return err
		}
		if commentID != 0 {
			err = s.client.UpdateComment(ctx, commentID, body)
		} else {
			err = s.client.CreateComment(ctx, record.Number, body)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// extend recovers historical lineage from the lowest PR'd branch's existing
// stack comment and prepends it to the stack. Live directory entries win on
// key collision.
func (s *CommentSynchronizer) extend(ctx context.Context, stack []string, dir *github.Directory) ([]string, *github.Directory, error) {
	var lowest string
	for _, branch := range stack {
		if dir.HasPR(branch) {
			lowest = branch
			break
		}
	}
	if lowest == "" {
		return stack, dir, nil
	}

	s.splog.Info("Using %s as source of truth for historical context", lowest)
	record, _ := dir.Record(lowest)
	_, body, err := s.findStackComment(ctx, record.Number)
	if err != nil {
		return nil, nil, err
	}
	if body == "" {
		return stack, dir, nil
	}

	historical, records := comment.Reconcile(body, dir)
	if len(historical) == 0 {
		return stack, dir, nil
	}

	extended := make([]string, 0, len(historical)+len(stack))
	extended = append(extended, historical...)
	extended = append(extended, stack...)
	return extended, dir.WithHistorical(records), nil
}

// findStackComment returns the id and body of the PR's stack comment, or
// zero values if the PR has none.
func (s *CommentSynchronizer) findStackComment(ctx context.Context, number int) (int64, string, error) {
	comments, err := s.client.ListComments(ctx, number)
	if err != nil {
		return 0, "", err
	}
	for _, c := range comments {
		if strings.HasPrefix(c.Body, comment.Header) {
			return c.ID, c.Body, nil
		}
	}
	return 0, "", nil
}

// updateTargets computes the branches whose comments need rewriting: the
// submitted set plus everything below the lowest submitted branch, filtered
// to branches with PRs, in stack order. Synthetic historical entries render
// inside comment bodies but their merged PRs are never touched.
func updateTargets(stack []string, submitted []string, dir *github.Directory) []string {
	submittedSet := make(map[string]bool, len(submitted))
	for _, branch := range submitted {
		submittedSet[branch] = true
	}

	lowestSubmitted := len(stack)
	for i, branch := range stack {
		if submittedSet[branch] {
			lowestSubmitted = i
			break
		}
	}

	var targets []string
	for i, branch := range stack {
		if comment.IsHistoricalKey(branch) || !dir.HasPR(branch) {
			continue
		}
		if submittedSet[branch] || i < lowestSubmitted {
			targets = append(targets, branch)
		}
	}
	return targets
}
