package cmd

import (
	"io"

	"github.com/compozy/create-app-tag/internal/config"
	"github.com/compozy/create-app-tag/internal/logger"
	"github.com/compozy/create-app-tag/internal/orchestrator"
	"github.com/compozy/create-app-tag/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer

	fsRepo repository.FileSystemRepository
	locker repository.Locker
}

// newContainer creates a new container with all the dependencies.
func newContainer(flags *pflag.FlagSet, stdout, stderr io.Writer) (*container, error) {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, stderr)
	if err != nil {
		return nil, err
	}
	return &container{
		cfg:    cfg,
		logger: log,
		stdout: stdout,
		stderr: stderr,
		fsRepo: repository.FileSystemRepository(afero.NewOsFs()),
		locker: repository.NewFileLocker(),
	}, nil
}

func (c *container) gitOptions() repository.GitOptions {
	return repository.GitOptions{
		Backend: repository.Backend(c.cfg.Backend),
		Binary:  c.cfg.GitBinary,
		Remote:  c.cfg.Remote,
		Timeout: c.cfg.CommandTimeout,
		Token:   c.cfg.GithubToken,
	}
}

func (c *container) tagReleaseOrchestrator() *orchestrator.TagReleaseOrchestrator {
	return orchestrator.NewTagReleaseOrchestrator(
		c.fsRepo,
		repository.OpenTagRepository,
		c.locker,
		orchestrator.Options{
			Git:            c.gitOptions(),
			PushRetries:    uint64(c.cfg.PushRetries),
			PushRetryDelay: c.cfg.PushRetryDelay,
			Stdout:         c.stdout,
			Stderr:         c.stderr,
			Logger:         c.logger,
		},
	)
}

func (c *container) close() {
	// Sync fails on non-file writers such as terminals; nothing useful to do about it.
	_ = c.logger.Sync()
}
