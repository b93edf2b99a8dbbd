package domain

import "fmt"

// BumpMode selects which component of the latest tag is incremented.
//
// The values are named after the CLI flags that select them, and those flags do not
// follow semver terminology: --minor increments the patch component and --major
// increments the minor component. The major component is never incremented.
type BumpMode string

const (
	// BumpPatch is selected by --minor: v1.23.1 -> v1.23.2.
	BumpPatch BumpMode = "minor"
	// BumpMinor is selected by --major: v1.23.1 -> v1.24.0.
	BumpMinor BumpMode = "major"
)

// ParseBumpMode maps a flag name to its BumpMode.
func ParseBumpMode(s string) (BumpMode, error) {
	mode := BumpMode(s)
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q (expected minor or major)", ErrInvalidBumpMode, s)
	}
	return mode, nil
}

// Valid reports whether m is a known mode.
func (m BumpMode) Valid() bool {
	return m == BumpPatch || m == BumpMinor
}

// Describe returns a short human description, used in help text.
func (m BumpMode) Describe() string {
	switch m {
	case BumpPatch:
		return "Bump patch version (v1.23.1 -> v1.23.2)"
	case BumpMinor:
		return "Bump minor version (v1.23.1 -> v1.24.0)"
	default:
		return "unknown bump mode"
	}
}
