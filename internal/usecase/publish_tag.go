package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/sethvargo/go-retry"
)

// DefaultPushRetryDelay is the initial backoff between push attempts.
const DefaultPushRetryDelay = time.Second

// PublishTagUseCase creates a tag and pushes it to the remote.

type PublishTagUseCase struct {
	GitRepo repository.TagRepository
	Locker  repository.Locker
	// PushRetries is the number of extra push attempts. Zero means exactly one.
	PushRetries    uint64
	PushRetryDelay time.Duration
}

// Execute creates tag locally, then pushes it. A tag that was created but failed to
// push is left in place.
func (uc *PublishTagUseCase) Execute(ctx context.Context, path, tag string) (err error) {
	if uc.Locker != nil {
		unlock, lockErr := uc.Locker.Lock(ctx, path)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if unlockErr := unlock(); unlockErr != nil && err == nil {
				err = fmt.Errorf("failed to release lock for %s: %w", path, unlockErr)
			}
		}()
	}
	if err := uc.GitRepo.CreateTag(ctx, tag); err != nil {
		return err
	}
	return uc.push(ctx, tag)
}

func (uc *PublishTagUseCase) push(ctx context.Context, tag string) error {
	delay := uc.PushRetryDelay
	if delay <= 0 {
		delay = DefaultPushRetryDelay
	}
	retryStrategy := retry.WithMaxRetries(uc.PushRetries, retry.NewExponential(delay))
	return retry.Do(ctx, retryStrategy, func(retryCtx context.Context) error {
		if err := uc.GitRepo.PushTag(retryCtx, tag); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
