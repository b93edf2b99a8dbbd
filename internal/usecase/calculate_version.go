package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/create-app-tag/internal/domain"
)

// CalculateVersionUseCase computes the tag that follows the latest one.

type CalculateVersionUseCase struct {
	Mode domain.BumpMode
}

// Execute runs the use case.
func (uc *CalculateVersionUseCase) Execute(_ context.Context, latestTag string) (domain.Tag, error) {
	tag, err := domain.ParseTag(latestTag)
	if err != nil {
		return domain.Tag{}, err
	}
	next, err := tag.Bump(uc.Mode)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("failed to bump %s: %w", latestTag, err)
	}
	return next, nil
}
