// Package github provides the code-host client and the per-invocation
// pull request directory.
package github

import "context"

// PullRequestRecord describes one open pull request, keyed by head branch
type PullRequestRecord struct {
	Number int
	URL    string
	Base   string
	Title  string
}

// Comment is an issue comment on a pull request
type Comment struct {
	ID   int64
	Body string
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Head  string
	Base  string
	Title string
	Body  string
	Draft bool
}

// Client is the interface for GitHub API interactions
type Client interface {
	// OwnerRepo returns the repository owner and name
	OwnerRepo() (owner, repo string)

	// OpenPullRequests lists all open pull requests keyed by head branch
	OpenPullRequests(ctx context.Context) (map[string]PullRequestRecord, error)

	// PullRequestForBranch returns the open pull request for a branch, or nil
	PullRequestForBranch(ctx context.Context, branch string) (*PullRequestRecord, error)

	// MergedPullRequestHeads lists head branch names of merged pull requests,
	// most recently updated first, excluding bot-authored branches
	MergedPullRequestHeads(ctx context.Context) ([]string, error)

	// CreatePullRequest opens a new pull request
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestRecord, error)

	// UpdatePullRequestBase retargets an existing pull request
	UpdatePullRequestBase(ctx context.Context, number int, base string) error

	// ListComments returns a pull request's comments with their ids
	ListComments(ctx context.Context, number int) ([]Comment, error)

	// CreateComment adds a comment to a pull request
	CreateComment(ctx context.Context, number int, body string) error

	// UpdateComment replaces the body of an existing comment by id
	UpdateComment(ctx context.Context, commentID int64, body string) error
}
