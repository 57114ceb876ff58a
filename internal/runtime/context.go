// Package runtime carries the shared dependencies every action needs.
package runtime

import (
	"context"

	"github.com/claycoleman/graphite-cli-wrapper/internal/git"
	"github.com/claycoleman/graphite-cli-wrapper/internal/github"
	"github.com/claycoleman/graphite-cli-wrapper/internal/graphite"
	"github.com/claycoleman/graphite-cli-wrapper/internal/tui"
)

// Context bundles the dependencies threaded through every action
type Context struct {
	Context  context.Context
	Splog    *tui.Splog
	Git      *git.Git
	Graphite *graphite.CLI
	GitHub   github.Client
}

// New creates a runtime context with real git and gt backends. The GitHub
// client is attached lazily by actions that talk to the host, so commands
// that never leave the local repository work without a token.
func New(ctx context.Context) (*Context, error) {
	gt, err := graphite.Locate()
	if err != nil {
		return nil, err
	}

	return &Context{
		Context:  ctx,
		Splog:    tui.NewSplog(),
		Git:      git.New(),
		Graphite: gt,
	}, nil
}

// EnsureGitHub attaches a real GitHub client if none is attached yet
func (c *Context) EnsureGitHub() error {
	if c.GitHub != nil {
		return nil
	}
	client, err := github.NewRealClient(c.Context)
	if err != nil {
		return err
	}
	c.GitHub = client
	return nil
}
