package version

// Set at build time with -ldflags "-X github.com/compozy/create-app-tag/pkg/version.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns a human-friendly version string for CLI output.
func Summary() string {
	return Version
}
