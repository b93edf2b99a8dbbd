package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testHarness struct {
	fs     afero.Fs
	opener *fakeOpener
	locker *mockLocker
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	orch   *TagReleaseOrchestrator
}

func newTestHarness(t *testing.T, gitRepos ...string) *testHarness {
	t.Helper()
	h := &testHarness{
		fs:     afero.NewMemMapFs(),
		opener: newFakeOpener(),
		locker: new(mockLocker),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	for _, path := range gitRepos {
		require.NoError(t, h.fs.MkdirAll(path+"/.git", 0o755))
	}
	require.NoError(t, h.fs.MkdirAll("/work/notes", 0o755))
	h.locker.On("Lock", mock.Anything, mock.Anything).Return(func() error { return nil }, nil)
	h.orch = NewTagReleaseOrchestrator(h.fs, h.opener.Open, h.locker, Options{
		Git:    repository.GitOptions{Backend: repository.BackendGitCLI},
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
	return h
}

func (h *testHarness) addRepo(path string, tags []string) *mockTagRepository {
	repo := new(mockTagRepository)
	repo.On("ListTagsSorted", mock.Anything).Return(tags, nil)
	h.opener.add(path, repo)
	return repo
}

func TestTagReleaseOrchestrator_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Should bump patch with the minor flag and report progress", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		repo := h.addRepo("/work/api", []string{"v1.23.1", "v1.23.0"})
		repo.On("CreateTag", mock.Anything, "v1.23.2").Return(nil)
		repo.On("PushTag", mock.Anything, "v1.23.2").Return(nil)
		results, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpPatch})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.Tagged("/work/api", "v1.23.1", "v1.23.2"), results[0])
		assert.Equal(t,
			"Processing /work/api...\n  Latest tag: v1.23.1\n  Creating new tag: v1.23.2\n  Pushed v1.23.2 to origin\n\n",
			h.stdout.String())
		assert.Empty(t, h.stderr.String())
		repo.AssertExpectations(t)
		h.locker.AssertCalled(t, "Lock", mock.Anything, "/work/api")
	})
	t.Run("Should bump minor and reset patch with the major flag", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		repo := h.addRepo("/work/api", []string{"v1.23.1"})
		repo.On("CreateTag", mock.Anything, "v1.24.0").Return(nil)
		repo.On("PushTag", mock.Anything, "v1.24.0").Return(nil)
		results, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpMinor})
		require.NoError(t, err)
		assert.Equal(t, "v1.24.0", results[0].NewTag)
		repo.AssertExpectations(t)
	})
	t.Run("Should trust the listing order for the latest tag", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		repo := h.addRepo("/work/api", []string{"v1.3.0", "v1.2.9", "v1.2.0"})
		repo.On("CreateTag", mock.Anything, "v1.3.1").Return(nil)
		repo.On("PushTag", mock.Anything, "v1.3.1").Return(nil)
		results, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpPatch})
		require.NoError(t, err)
		assert.Equal(t, "v1.3.0", results[0].LatestTag)
	})
	t.Run("Should skip paths without .git and continue", func(t *testing.T) {
		h := newTestHarness(t, "/work/api", "/work/web")
		api := h.addRepo("/work/api", []string{"v0.1.0"})
		api.On("CreateTag", mock.Anything, "v0.1.1").Return(nil)
		api.On("PushTag", mock.Anything, "v0.1.1").Return(nil)
		web := h.addRepo("/work/web", []string{"v2.0.9"})
		web.On("CreateTag", mock.Anything, "v2.0.10").Return(nil)
		web.On("PushTag", mock.Anything, "v2.0.10").Return(nil)
		results, err := h.orch.Execute(ctx, TagReleaseConfig{
			Repositories: []string{"/work/api", "/work/notes", "/work/web"},
			Mode:         domain.BumpPatch,
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, domain.OutcomeTagged, results[0].Outcome)
		assert.Equal(t, domain.OutcomeSkipped, results[1].Outcome)
		assert.Equal(t, domain.OutcomeTagged, results[2].Outcome)
		assert.Equal(t, "Skipping /work/notes: not a Git repository\n", h.stderr.String())
		assert.Equal(t, []string{"/work/api", "/work/web"}, h.opener.opened)
		api.AssertExpectations(t)
		web.AssertExpectations(t)
	})
	t.Run("Should abort the whole run when a repository has no tags", func(t *testing.T) {
		h := newTestHarness(t, "/work/api", "/work/web")
		api := h.addRepo("/work/api", nil)
		web := h.addRepo("/work/web", []string{"v1.0.0"})
		results, err := h.orch.Execute(ctx, TagReleaseConfig{
			Repositories: []string{"/work/api", "/work/web"},
			Mode:         domain.BumpPatch,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoTags)
		assert.Contains(t, err.Error(), "/work/api")
		assert.Empty(t, results)
		assert.Equal(t, []string{"/work/api"}, h.opener.opened)
		api.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything)
		api.AssertNotCalled(t, "PushTag", mock.Anything, mock.Anything)
		web.AssertNotCalled(t, "ListTagsSorted", mock.Anything)
		web.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything)
	})
	t.Run("Should keep abort logs below the default warn level", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		h.addRepo("/work/api", nil)
		core, logs := observer.New(zapcore.DebugLevel)
		orch := NewTagReleaseOrchestrator(h.fs, h.opener.Open, h.locker, Options{
			Stdout: h.stdout,
			Stderr: h.stderr,
			Logger: zap.New(core),
		})
		_, err := orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpPatch})
		require.ErrorIs(t, err, domain.ErrNoTags)
		assert.Equal(t, 1, logs.FilterMessage("aborting tag run").Len())
		assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		assert.Empty(t, h.stderr.String())
	})
	t.Run("Should abort on malformed latest tag without tagging", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		api := h.addRepo("/work/api", []string{"release-2024"})
		_, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpMinor})
		assert.ErrorIs(t, err, domain.ErrMalformedTag)
		assert.Contains(t, err.Error(), "release-2024")
		api.AssertNotCalled(t, "CreateTag", mock.Anything, mock.Anything)
	})
	t.Run("Should abort after a failed push and keep completed repositories", func(t *testing.T) {
		h := newTestHarness(t, "/work/api", "/work/web", "/work/cli")
		api := h.addRepo("/work/api", []string{"v1.0.0"})
		api.On("CreateTag", mock.Anything, "v1.0.1").Return(nil)
		api.On("PushTag", mock.Anything, "v1.0.1").Return(nil)
		web := h.addRepo("/work/web", []string{"v3.1.4"})
		pushErr := errors.New("remote rejected")
		web.On("CreateTag", mock.Anything, "v3.1.5").Return(nil)
		web.On("PushTag", mock.Anything, "v3.1.5").Return(pushErr)
		h.addRepo("/work/cli", []string{"v0.0.1"})
		results, err := h.orch.Execute(ctx, TagReleaseConfig{
			Repositories: []string{"/work/api", "/work/web", "/work/cli"},
			Mode:         domain.BumpPatch,
		})
		assert.ErrorIs(t, err, pushErr)
		require.Len(t, results, 1)
		assert.Equal(t, "/work/api", results[0].Path)
		assert.Equal(t, []string{"/work/api", "/work/web"}, h.opener.opened)
		web.AssertCalled(t, "CreateTag", mock.Anything, "v3.1.5")
		assert.NotContains(t, h.stdout.String(), "Pushed v3.1.5")
	})
	t.Run("Should abort when the repository cannot be opened", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		_, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpPatch})
		assert.ErrorContains(t, err, "failed to open repository /work/api")
	})
	t.Run("Should reject invalid configuration before touching repositories", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		_, err := h.orch.Execute(ctx, TagReleaseConfig{Mode: domain.BumpPatch})
		assert.ErrorIs(t, err, domain.ErrNoRepositories)
		_, err = h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}})
		assert.ErrorIs(t, err, domain.ErrInvalidBumpMode)
		assert.Empty(t, h.opener.opened)
		assert.Empty(t, h.stdout.String())
	})
	t.Run("Should stop when the context is canceled", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := h.orch.Execute(canceled, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpPatch})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, h.opener.opened)
	})
	t.Run("Should pass git options and report the configured remote", func(t *testing.T) {
		h := newTestHarness(t, "/work/api")
		h.orch = NewTagReleaseOrchestrator(h.fs, h.opener.Open, h.locker, Options{
			Git:    repository.GitOptions{Backend: repository.BackendGoGit, Remote: "upstream"},
			Stdout: h.stdout,
			Stderr: h.stderr,
		})
		repo := h.addRepo("/work/api", []string{"v1.0.0"})
		repo.On("CreateTag", mock.Anything, "v1.1.0").Return(nil)
		repo.On("PushTag", mock.Anything, "v1.1.0").Return(nil)
		_, err := h.orch.Execute(ctx, TagReleaseConfig{Repositories: []string{"/work/api"}, Mode: domain.BumpMinor})
		require.NoError(t, err)
		require.Len(t, h.opener.opts, 1)
		assert.Equal(t, repository.BackendGoGit, h.opener.opts[0].Backend)
		assert.Contains(t, h.stdout.String(), "Pushed v1.1.0 to upstream")
	})
}

func TestValidateTagReleaseConfig(t *testing.T) {
	assert.NoError(t, ValidateTagReleaseConfig(TagReleaseConfig{Repositories: []string{"."}, Mode: domain.BumpPatch}))
	assert.ErrorIs(t, ValidateTagReleaseConfig(TagReleaseConfig{Mode: domain.BumpMinor}), domain.ErrNoRepositories)
	assert.ErrorIs(t,
		ValidateTagReleaseConfig(TagReleaseConfig{Repositories: []string{"."}, Mode: "patch"}),
		domain.ErrInvalidBumpMode)
}
