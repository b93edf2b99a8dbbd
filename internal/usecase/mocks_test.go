package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
)

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

type mockLocker struct{ mock.Mock }

func (m *mockLocker) Lock(ctx context.Context, repoPath string) (func() error, error) {
	args := m.Called(ctx, repoPath)
	if unlock := args.Get(0); unlock != nil {
		return unlock.(func() error), args.Error(1)
	}
	return nil, args.Error(1)
}
