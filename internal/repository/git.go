package repository

import (
	"context"
	"fmt"
	"time"
)

// TagRepository defines the tag operations performed against one working copy.

type TagRepository interface {
	// ListTagsSorted returns all tag names, highest version first.
	ListTagsSorted(ctx context.Context) ([]string, error)
	CreateTag(ctx context.Context, tag string) error
	PushTag(ctx context.Context, tag string) error
}

// DefaultRemote is the remote tags are pushed to when none is configured.
const DefaultRemote = "origin"

// Backend names a TagRepository implementation.
type Backend string

const (
	// BackendGitCLI shells out to the git executable.
	BackendGitCLI Backend = "git"
	// BackendGoGit operates on the repository in-process.
	BackendGoGit Backend = "go-git"
)

// GitOptions configures how repositories are opened.
type GitOptions struct {
	Backend Backend
	// Binary is the git executable used by BackendGitCLI.
	Binary string
	// Remote is the remote tags are pushed to.
	Remote string
	// Timeout bounds each git subprocess. Zero means no timeout.
	Timeout time.Duration
	// Token enables HTTP basic auth for BackendGoGit pushes.
	Token string
}

// Opener opens the TagRepository rooted at path.
type Opener func(path string, opts GitOptions) (TagRepository, error)

// OpenTagRepository opens path with the backend selected in opts.
func OpenTagRepository(path string, opts GitOptions) (TagRepository, error) {
	switch opts.Backend {
	case BackendGitCLI, "":
		return NewGitCLIRepository(path, opts), nil
	case BackendGoGit:
		return NewGoGitRepository(path, opts)
	default:
		return nil, fmt.Errorf("unknown git backend: %s", opts.Backend)
	}
}
