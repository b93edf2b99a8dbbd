package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// goGitRepository is the go-git implementation of the TagRepository interface.

type goGitRepository struct {
	repo   *git.Repository
	remote string
	token  string
}

// NewGoGitRepository opens the repository at path in-process.
func NewGoGitRepository(path string, opts GitOptions) (TagRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository %s: %w", path, err)
	}
	remote := opts.Remote
	if remote == "" {
		remote = DefaultRemote
	}
	return &goGitRepository{repo: repo, remote: remote, token: strings.TrimSpace(opts.Token)}, nil
}

// ListTagsSorted returns tags in descending version order. Only v-prefixed names
// count as versions, as with git's v:refname sort; other tags follow, by name
// descending.
func (r *goGitRepository) ListTagsSorted(_ context.Context) ([]string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return sortTagsByVersion(tags), nil
}

type versionedTag struct {
	name    string
	version *semver.Version
}

func sortTagsByVersion(tags []string) []string {
	entries := make([]versionedTag, 0, len(tags))
	for _, name := range tags {
		if !strings.HasPrefix(name, "v") {
			entries = append(entries, versionedTag{name: name})
			continue
		}
		v, err := semver.NewVersion(name)
		if err != nil {
			entries = append(entries, versionedTag{name: name})
			continue
		}
		entries = append(entries, versionedTag{name: name, version: v})
	}
	slices.SortStableFunc(entries, func(a, b versionedTag) int {
		switch {
		case a.version != nil && b.version != nil:
			if c := b.version.Compare(a.version); c != 0 {
				return c
			}
		case a.version != nil:
			return -1
		case b.version != nil:
			return 1
		}
		return cmp.Compare(b.name, a.name)
	})
	sorted := make([]string, len(entries))
	for i, e := range entries {
		sorted[i] = e.name
	}
	return sorted
}

// CreateTag creates a lightweight tag at HEAD.
func (r *goGitRepository) CreateTag(_ context.Context, tag string) error {
	if err := sanitizeTag(tag); err != nil {
		return err
	}
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	if _, err := r.repo.CreateTag(tag, head.Hash(), nil); err != nil {
		if errors.Is(err, git.ErrTagExists) {
			return fmt.Errorf("failed to create tag %s: %w", tag, domain.ErrTagExists)
		}
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// getAuth returns basic auth when a token is configured. Without one, go-git falls
// back to its defaults (ssh-agent for ssh remotes).
func (r *goGitRepository) getAuth() transport.AuthMethod {
	if r.token == "" {
		return nil
	}
	// Use x-access-token as username for token authentication
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.token,
	}
}

// PushTag pushes the tag to the configured remote.
func (r *goGitRepository) PushTag(ctx context.Context, tag string) error {
	if err := sanitizeTag(tag); err != nil {
		return err
	}
	ref := fmt.Sprintf("refs/tags/%s:refs/tags/%s", tag, tag)
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref)},
		Auth:       r.getAuth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push tag %s to %s: %w", tag, r.remote, err)
	}
	return nil
}
