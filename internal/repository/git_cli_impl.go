package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/compozy/create-app-tag/internal/domain"
)

const defaultGitBinary = "git"

// validTagName allows only characters git accepts in tag names we create or push.
var validTagName = regexp.MustCompile(`^[a-zA-Z0-9._/\-]+$`)

// gitCLIRepository implements TagRepository by running the git executable.
type gitCLIRepository struct {
	path    string
	binary  string
	remote  string
	timeout time.Duration
}

// NewGitCLIRepository creates a TagRepository that runs git inside path.
func NewGitCLIRepository(path string, opts GitOptions) TagRepository {
	binary := opts.Binary
	if binary == "" {
		binary = defaultGitBinary
	}
	remote := opts.Remote
	if remote == "" {
		remote = DefaultRemote
	}
	return &gitCLIRepository{
		path:    path,
		binary:  binary,
		remote:  remote,
		timeout: opts.Timeout,
	}
}

// sanitizeTag rejects names that could be read as options or escape refs/tags.
func sanitizeTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if strings.HasPrefix(tag, "-") {
		return fmt.Errorf("invalid tag: %s", tag)
	}
	if !validTagName.MatchString(tag) {
		return fmt.Errorf("invalid tag format: %s", tag)
	}
	if strings.Contains(tag, "..") {
		return fmt.Errorf("invalid tag: contains directory traversal")
	}
	if len(tag) > 255 {
		return fmt.Errorf("tag too long: maximum 255 characters")
	}
	return nil
}

// executeCommand runs git in the repository and returns its stdout.
func (r *gitCLIRepository) executeCommand(ctx context.Context, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.path
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("git %s timed out after %v", args[0], r.timeout)
		}
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return nil, fmt.Errorf("git %s failed: %w (stderr: %s)", args[0], err, errMsg)
		}
		return nil, fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}

// ListTagsSorted lists tags with git's own version sort, descending.
func (r *gitCLIRepository) ListTagsSorted(ctx context.Context) ([]string, error) {
	out, err := r.executeCommand(ctx, "tag", "--list", "--sort=-v:refname")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(string(out), "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// CreateTag creates a lightweight tag at HEAD.
func (r *gitCLIRepository) CreateTag(ctx context.Context, tag string) error {
	if err := sanitizeTag(tag); err != nil {
		return err
	}
	if _, err := r.executeCommand(ctx, "tag", tag); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create tag %s: %w: %v", tag, domain.ErrTagExists, err)
		}
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes refs/tags/<tag> to the configured remote.
func (r *gitCLIRepository) PushTag(ctx context.Context, tag string) error {
	if err := sanitizeTag(tag); err != nil {
		return err
	}
	if _, err := r.executeCommand(ctx, "push", r.remote, "refs/tags/"+tag); err != nil {
		return fmt.Errorf("failed to push tag %s to %s: %w", tag, r.remote, err)
	}
	return nil
}
