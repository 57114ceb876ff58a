package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	wraperrors "github.com/claycoleman/graphite-cli-wrapper/internal/errors"
	"github.com/claycoleman/graphite-cli-wrapper/internal/run"
)

// botBranchPrefix marks automation-owned branches that never belong to a
// human stack and are skipped during merged-branch reconciliation.
const botBranchPrefix = "renovate/"

// mergedListLimit bounds how many merged PRs are scanned during sync
const mergedListLimit = 125

// RealClient implements Client using the GitHub API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewRealClient creates a RealClient authenticated from the environment.
// The repository owner and name are resolved from the origin remote.
func NewRealClient(ctx context.Context) (*RealClient, error) {
	token, err := githubToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	owner, repo, err := repoInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &RealClient{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// OwnerRepo returns the repository owner and name
func (c *RealClient) OwnerRepo() (string, string) {
	return c.owner, c.repo
}

// OpenPullRequests lists all open pull requests keyed by head branch
func (c *RealClient) OpenPullRequests(ctx context.Context) (map[string]PullRequestRecord, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	})
	if err != nil {
		return nil, wraperrors.NewHostQueryError("list open pull requests", err)
	}

	records := make(map[string]PullRequestRecord, len(prs))
	for _, pr := range prs {
		record := toRecord(pr)
		if record.Number == 0 {
			continue
		}
		if pr.Head != nil && pr.Head.Ref != nil {
			records[*pr.Head.Ref] = record
		}
	}
	return records, nil
}

// PullRequestForBranch returns the open pull request for a branch, or nil
func (c *RealClient) PullRequestForBranch(ctx context.Context, branch string) (*PullRequestRecord, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branch),
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, wraperrors.NewHostQueryError("view pull request for "+branch, err)
	}

	if len(prs) == 0 {
		return nil, nil
	}
	record := toRecord(prs[0])
	return &record, nil
}

// MergedPullRequestHeads lists head branch names of merged pull requests
func (c *RealClient) MergedPullRequestHeads(ctx context.Context) ([]string, error) {
	opts := &github.PullRequestListOptions{
		State:     "closed",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var heads []string
	seen := 0
	for seen < mergedListLimit {
		prs, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, wraperrors.NewHostQueryError("list merged pull requests", err)
		}

		for _, pr := range prs {
			if seen >= mergedListLimit {
				break
			}
			seen++
			if pr.MergedAt == nil {
				continue
			}
			if pr.Head == nil || pr.Head.Ref == nil {
				continue
			}
			if strings.HasPrefix(*pr.Head.Ref, botBranchPrefix) {
				continue
			}
			heads = append(heads, *pr.Head.Ref)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return heads, nil
}

// CreatePullRequest opens a new pull request
func (c *RealClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestRecord, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}
	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	created, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, wraperrors.NewHostQueryError("create pull request for "+opts.Head, err)
	}

	record := toRecord(created)
	return &record, nil
}

// UpdatePullRequestBase retargets an existing pull request
func (c *RealClient) UpdatePullRequestBase(ctx context.Context, number int, base string) error {
	update := &github.PullRequest{
		Base: &github.PullRequestBranch{
			Ref: github.String(base),
		},
	}
	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, update)
	if err != nil {
		return wraperrors.NewHostQueryError(fmt.Sprintf("edit base of pull request #%d", number), err)
	}
	return nil
}

// ListComments returns a pull request's comments with their ids
func (c *RealClient) ListComments(ctx context.Context, number int) ([]Comment, error) {
	ghComments, _, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, number, &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	})
	if err != nil {
		return nil, wraperrors.NewHostQueryError(fmt.Sprintf("list comments of pull request #%d", number), err)
	}

	comments := make([]Comment, 0, len(ghComments))
	for _, comment := range ghComments {
		if comment.ID == nil || comment.Body == nil {
			continue
		}
		comments = append(comments, Comment{ID: *comment.ID, Body: *comment.Body})
	}
	return comments, nil
}

// CreateComment adds a comment to a pull request
func (c *RealClient) CreateComment(ctx context.Context, number int, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return wraperrors.NewHostQueryError(fmt.Sprintf("comment on pull request #%d", number), err)
	}
	return nil
}

// UpdateComment replaces the body of an existing comment by id
func (c *RealClient) UpdateComment(ctx context.Context, commentID int64, body string) error {
	_, _, err := c.client.Issues.EditComment(ctx, c.owner, c.repo, commentID, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return wraperrors.NewHostQueryError(fmt.Sprintf("update comment %d", commentID), err)
	}
	return nil
}

func toRecord(pr *github.PullRequest) PullRequestRecord {
	record := PullRequestRecord{}
	if pr == nil {
		return record
	}
	if pr.Number != nil {
		record.Number = *pr.Number
	}
	if pr.HTMLURL != nil {
		record.URL = *pr.HTMLURL
	}
	if pr.Title != nil {
		record.Title = *pr.Title
	}
	if pr.Base != nil && pr.Base.Ref != nil {
		record.Base = *pr.Base.Ref
	}
	return record
}

// githubToken gets the GitHub token from the environment or the gh CLI
func githubToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}

	output, err := run.NewRunner("gh").Run(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("no GITHUB_TOKEN set and gh auth token failed: %w", err)
	}
	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}

// repoInfo resolves owner and repository name from the origin remote URL,
// handling both https and ssh formats.
func repoInfo(ctx context.Context) (string, string, error) {
	url, err := run.NewRunner("git").Run(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", "", err
	}

	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid remote URL %q", url)
	}

	repo := parts[len(parts)-1]
	var owner string
	if strings.Contains(url, "@") && strings.Contains(url, ":") {
		// SSH format: git@github.com:owner/repo
		_, path, _ := strings.Cut(url, ":")
		pathParts := strings.Split(path, "/")
		if len(pathParts) < 2 {
			return "", "", fmt.Errorf("invalid SSH remote URL %q", url)
		}
		owner = pathParts[0]
	} else {
		// HTTPS format: https://github.com/owner/repo
		owner = parts[len(parts)-2]
	}

	return owner, repo, nil
}
