package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/compozy/create-app-tag/internal/repository"
)

// LatestTagUseCase reads the highest tag of one repository.

type LatestTagUseCase struct {
	GitRepo repository.TagRepository
}

// Execute returns the first tag of the version-sorted listing. The listing order is
// trusted as is.
func (uc *LatestTagUseCase) Execute(ctx context.Context, path string) (string, error) {
	tags, err := uc.GitRepo.ListTagsSorted(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list tags in %s: %w", path, err)
	}
	for _, tag := range tags {
		if tag != "" {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w in %s", domain.ErrNoTags, path)
}
