package usecase

import (
	"context"

	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/compozy/create-app-tag/internal/repository"
)

// ValidateRepositoryUseCase decides whether a path is a Git working copy.

type ValidateRepositoryUseCase struct {
	FsRepo repository.FileSystemRepository
}

// Execute checks for a .git directory beneath path. Stat failures other than
// "not found" also yield an invalid target, so the path is skipped rather than
// failing the batch.
func (uc *ValidateRepositoryUseCase) Execute(_ context.Context, path string) domain.RepositoryTarget {
	ok, err := repository.HasGitDir(uc.FsRepo, path)
	return domain.RepositoryTarget{Path: path, Valid: err == nil && ok}
}
