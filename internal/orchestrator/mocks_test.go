package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/stretchr/testify/mock"
)

// Mock for TagRepository
type mockTagRepository struct{ mock.Mock }

func (m *mockTagRepository) ListTagsSorted(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if tags := args.Get(0); tags != nil {
		return tags.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTagRepository) CreateTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *mockTagRepository) PushTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// Mock for Locker
type mockLocker struct{ mock.Mock }

func (m *mockLocker) Lock(ctx context.Context, repoPath string) (func() error, error) {
	args := m.Called(ctx, repoPath)
	if unlock := args.Get(0); unlock != nil {
		return unlock.(func() error), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeOpener hands out pre-registered repositories by path and records what was opened.
type fakeOpener struct {
	repos  map[string]repository.TagRepository
	opened []string
	opts   []repository.GitOptions
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{repos: map[string]repository.TagRepository{}}
}

func (f *fakeOpener) add(path string, repo repository.TagRepository) {
	f.repos[path] = repo
}

func (f *fakeOpener) Open(path string, opts repository.GitOptions) (repository.TagRepository, error) {
	f.opened = append(f.opened, path)
	f.opts = append(f.opts, opts)
	repo, ok := f.repos[path]
	if !ok {
		return nil, fmt.Errorf("no repository registered for %s", path)
	}
	return repo, nil
}
