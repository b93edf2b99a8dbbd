package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/compozy/create-app-tag/internal/domain"
	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/compozy/create-app-tag/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TagReleaseConfig is the immutable input of one tag run.
type TagReleaseConfig struct {
	Repositories []string
	Mode         domain.BumpMode
}

// Options carries the collaborators' settings shared by every repository in a run.
type Options struct {
	Git            repository.GitOptions
	PushRetries    uint64
	PushRetryDelay time.Duration
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         *zap.Logger
}

// TagReleaseOrchestrator validates, reads, bumps and publishes tags across repositories.
type TagReleaseOrchestrator struct {
	fsRepo         repository.FileSystemRepository
	open           repository.Opener
	locker         repository.Locker
	gitOpts        repository.GitOptions
	pushRetries    uint64
	pushRetryDelay time.Duration
	stdout         io.Writer
	stderr         io.Writer
	logger         *zap.Logger
}

// NewTagReleaseOrchestrator creates a new tag release orchestrator.
func NewTagReleaseOrchestrator(
	fsRepo repository.FileSystemRepository,
	open repository.Opener,
	locker repository.Locker,
	opts Options,
) *TagReleaseOrchestrator {
	o := &TagReleaseOrchestrator{
		fsRepo:         fsRepo,
		open:           open,
		locker:         locker,
		gitOpts:        opts.Git,
		pushRetries:    opts.PushRetries,
		pushRetryDelay: opts.PushRetryDelay,
		stdout:         opts.Stdout,
		stderr:         opts.Stderr,
		logger:         opts.Logger,
	}
	if o.open == nil {
		o.open = repository.OpenTagRepository
	}
	if o.stdout == nil {
		o.stdout = os.Stdout
	}
	if o.stderr == nil {
		o.stderr = os.Stderr
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.gitOpts.Remote == "" {
		o.gitOpts.Remote = repository.DefaultRemote
	}
	return o
}

// Execute processes the repositories in order. A repository without .git is skipped
// and reported in the results; any other failure stops the run and is returned along
// with the results gathered so far. Repositories after the failing one are untouched.
func (o *TagReleaseOrchestrator) Execute(ctx context.Context, cfg TagReleaseConfig) ([]domain.RepoResult, error) {
	if err := ValidateTagReleaseConfig(cfg); err != nil {
		return nil, err
	}
	log := o.logger.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("mode", string(cfg.Mode)),
		zap.String("backend", string(o.gitOpts.Backend)),
	)
	log.Info("starting tag run", zap.Int("repositories", len(cfg.Repositories)))
	results := make([]domain.RepoResult, 0, len(cfg.Repositories))
	for _, path := range cfg.Repositories {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("tag run canceled before %s: %w", path, err)
		}
		result, err := o.processRepository(ctx, log.With(zap.String("repo", path)), path, cfg.Mode)
		if err != nil {
			log.Debug("aborting tag run", zap.String("repo", path), zap.Error(err))
			return results, err
		}
		results = append(results, result)
	}
	log.Info("tag run completed", zap.Int("processed", len(results)))
	return results, nil
}

func (o *TagReleaseOrchestrator) processRepository(
	ctx context.Context,
	log *zap.Logger,
	path string,
	mode domain.BumpMode,
) (domain.RepoResult, error) {
	target := o.validateRepository(ctx, path)
	if !target.Valid {
		fmt.Fprintf(o.stderr, "Skipping %s: %s\n", path, domain.ErrNotRepository)
		log.Debug("skipped repository without .git directory")
		return domain.Skipped(path, domain.ErrNotRepository), nil
	}
	fmt.Fprintf(o.stdout, "Processing %s...\n", path)
	gitRepo, err := o.open(path, o.gitOpts)
	if err != nil {
		return domain.RepoResult{}, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	latest, err := o.latestTag(ctx, gitRepo, path)
	if err != nil {
		return domain.RepoResult{}, err
	}
	fmt.Fprintf(o.stdout, "  Latest tag: %s\n", latest)
	next, err := o.calculateVersion(ctx, mode, latest)
	if err != nil {
		return domain.RepoResult{}, err
	}
	log.Debug("computed next tag", zap.String("latest", latest), zap.Stringer("next", next))
	fmt.Fprintf(o.stdout, "  Creating new tag: %s\n", next)
	if err := o.publishTag(ctx, gitRepo, path, next.String()); err != nil {
		return domain.RepoResult{}, err
	}
	fmt.Fprintf(o.stdout, "  Pushed %s to %s\n\n", next, o.gitOpts.Remote)
	log.Info("tag published", zap.Stringer("tag", next), zap.String("remote", o.gitOpts.Remote))
	return domain.Tagged(path, latest, next.String()), nil
}

func (o *TagReleaseOrchestrator) validateRepository(ctx context.Context, path string) domain.RepositoryTarget {
	uc := &usecase.ValidateRepositoryUseCase{
		FsRepo: o.fsRepo,
	}
	return uc.Execute(ctx, path)
}

func (o *TagReleaseOrchestrator) latestTag(
	ctx context.Context,
	gitRepo repository.TagRepository,
	path string,
) (string, error) {
	uc := &usecase.LatestTagUseCase{
		GitRepo: gitRepo,
	}
	return uc.Execute(ctx, path)
}

func (o *TagReleaseOrchestrator) calculateVersion(
	ctx context.Context,
	mode domain.BumpMode,
	latest string,
) (domain.Tag, error) {
	uc := &usecase.CalculateVersionUseCase{
		Mode: mode,
	}
	return uc.Execute(ctx, latest)
}

func (o *TagReleaseOrchestrator) publishTag(
	ctx context.Context,
	gitRepo repository.TagRepository,
	path, tag string,
) error {
	uc := &usecase.PublishTagUseCase{
		GitRepo:        gitRepo,
		Locker:         o.locker,
		PushRetries:    o.pushRetries,
		PushRetryDelay: o.pushRetryDelay,
	}
	return uc.Execute(ctx, path, tag)
}
