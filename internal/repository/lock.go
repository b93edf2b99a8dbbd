package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// LockFileName is created inside the .git directory of each tagged repository.
	LockFileName = "create-app-tag.lock"
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// Locker serializes tag publishing on a single working copy across processes.
type Locker interface {
	Lock(ctx context.Context, repoPath string) (unlock func() error, err error)
}

// FileLocker implements Locker with an advisory flock on a file under .git.
type FileLocker struct {
	timeout       time.Duration
	retryInterval time.Duration
}

// NewFileLocker creates a FileLocker using the default timeout.
func NewFileLocker() *FileLocker {
	return &FileLocker{timeout: LockTimeout, retryInterval: LockRetryInterval}
}

// NewFileLockerWithTimeout creates a FileLocker that gives up after timeout.
func NewFileLockerWithTimeout(timeout time.Duration) *FileLocker {
	return &FileLocker{timeout: timeout, retryInterval: LockRetryInterval}
}

// Lock acquires the exclusive publish lock for repoPath.
func (l *FileLocker) Lock(ctx context.Context, repoPath string) (func() error, error) {
	lock := flock.New(filepath.Join(repoPath, ".git", LockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	locked, err := l.acquireLockWithContext(lockCtx, lock)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", repoPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock for %s within timeout", repoPath)
	}
	return lock.Unlock, nil
}

// acquireLockWithContext attempts to acquire an exclusive lock with context support
func (l *FileLocker) acquireLockWithContext(ctx context.Context, lock *flock.Flock) (bool, error) {
	locked, err := lock.TryLock()
	if err != nil || locked {
		return locked, err
	}
	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}
