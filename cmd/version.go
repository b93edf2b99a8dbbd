package cmd

import (
	"fmt"
	"strings"

	"github.com/compozy/create-app-tag/pkg/version"
)

const versionTemplate = "{{.Name}} {{.Version}}\n"

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)",
		safeValue(version.Summary(), "dev"),
		safeValue(version.CommitHash, "unknown"),
		safeValue(version.BuildDate, "unknown"),
	)
}

func safeValue(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
