package orchestrator

import (
	"fmt"

	"github.com/compozy/create-app-tag/internal/domain"
)

// ValidateTagReleaseConfig rejects runs that must fail before any repository is touched.
func ValidateTagReleaseConfig(cfg TagReleaseConfig) error {
	if len(cfg.Repositories) == 0 {
		return domain.ErrNoRepositories
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("%w: %q (expected --minor or --major)", domain.ErrInvalidBumpMode, string(cfg.Mode))
	}
	return nil
}
