package github

import (
	"context"
	"fmt"
)

// Directory is an in-memory snapshot of all open pull requests, keyed by head
// branch. It is built fresh at the start of each top-level operation and
// discarded at the end; the only durable state lives on the host itself.
type Directory struct {
	Owner    string
	Repo     string
	Branches map[string]PullRequestRecord
}

// FetchDirectory builds a Directory from one bulk open-PR query
func FetchDirectory(ctx context.Context, client Client) (*Directory, error) {
	branches, err := client.OpenPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	owner, repo := client.OwnerRepo()
	return &Directory{
		Owner:    owner,
		Repo:     repo,
		Branches: branches,
	}, nil
}

// FetchBranchDirectory builds a Directory holding at most the one pull
// request for the given branch. Used right after creating a PR to learn its
// assigned URL without a second bulk fetch.
func FetchBranchDirectory(ctx context.Context, client Client, branch string) (*Directory, error) {
	owner, repo := client.OwnerRepo()
	dir := &Directory{
		Owner:    owner,
		Repo:     repo,
		Branches: map[string]PullRequestRecord{},
	}

	record, err := client.PullRequestForBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if record != nil {
		dir.Branches[branch] = *record
	}
	return dir, nil
}

// Record returns the pull request record for a branch
func (d *Directory) Record(branch string) (PullRequestRecord, bool) {
	record, ok := d.Branches[branch]
	return record, ok
}

// HasPR reports whether the branch has an open pull request
func (d *Directory) HasPR(branch string) bool {
	_, ok := d.Branches[branch]
	return ok
}

// PullURL builds the canonical URL of a pull request in this repository
func (d *Directory) PullURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", d.Owner, d.Repo, number)
}

// URLSet returns the set of URLs of all pull requests in the directory
func (d *Directory) URLSet() map[string]bool {
	urls := make(map[string]bool, len(d.Branches))
	for _, record := range d.Branches {
		urls[record.URL] = true
	}
	return urls
}

// WithHistorical returns a new Directory with the historical records folded
// in at lower precedence: a live entry always wins on key collision. The
// receiver is never mutated.
func (d *Directory) WithHistorical(records map[string]PullRequestRecord) *Directory {
	merged := &Directory{
		Owner:    d.Owner,
		Repo:     d.Repo,
		Branches: make(map[string]PullRequestRecord, len(d.Branches)+len(records)),
	}
	for key, record := range records {
		merged.Branches[key] = record
	}
	for key, record := range d.Branches {
		merged.Branches[key] = record
	}
	return merged
}
