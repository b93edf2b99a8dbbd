package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// tagPattern is the only tag scheme the tool understands.
var tagPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

// Tag is an immutable v<major>.<minor>.<patch> release tag.
type Tag struct {
	v *semver.Version
}

// ParseTag parses s strictly against v<major>.<minor>.<patch>.
// Leading zeros are accepted and dropped, trailing characters are not.
func ParseTag(s string) (Tag, error) {
	m := tagPattern.FindStringSubmatch(s)
	if m == nil {
		return Tag{}, fmt.Errorf("%w: tag '%s' is not in v<major>.<minor>.<patch> format", ErrMalformedTag, s)
	}
	var parts [3]uint64
	for i, raw := range m[1:] {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Tag{}, fmt.Errorf("%w: tag '%s' has out of range component %s", ErrMalformedTag, s, raw)
		}
		parts[i] = n
	}
	return NewTag(parts[0], parts[1], parts[2]), nil
}

// NewTag builds a Tag from its components.
func NewTag(major, minor, patch uint64) Tag {
	return Tag{v: semver.New(major, minor, patch, "", "")}
}

// Major returns the major component.
func (t Tag) Major() uint64 { return t.version().Major() }

// Minor returns the minor component.
func (t Tag) Minor() uint64 { return t.version().Minor() }

// Patch returns the patch component.
func (t Tag) Patch() uint64 { return t.version().Patch() }

// Bump returns the tag that follows t under mode. t itself is left untouched.
func (t Tag) Bump(mode BumpMode) (Tag, error) {
	v := t.version()
	switch mode {
	case BumpPatch:
		if v.Patch() == math.MaxUint64 {
			return Tag{}, fmt.Errorf("%w: patch component of %s cannot be incremented", ErrMalformedTag, t)
		}
		next := v.IncPatch()
		return Tag{v: &next}, nil
	case BumpMinor:
		if v.Minor() == math.MaxUint64 {
			return Tag{}, fmt.Errorf("%w: minor component of %s cannot be incremented", ErrMalformedTag, t)
		}
		next := v.IncMinor()
		return Tag{v: &next}, nil
	default:
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidBumpMode, string(mode))
	}
}

// Compare compares two tags by version precedence.
func (t Tag) Compare(other Tag) int {
	return t.version().Compare(other.version())
}

// String renders the tag as v<major>.<minor>.<patch>.
func (t Tag) String() string {
	v := t.version()
	return fmt.Sprintf("v%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

func (t Tag) version() *semver.Version {
	if t.v == nil {
		return semver.New(0, 0, 0, "", "")
	}
	return t.v
}

// NextTag parses latest and returns the tag string that follows it under mode.
func NextTag(latest string, mode BumpMode) (string, error) {
	tag, err := ParseTag(latest)
	if err != nil {
		return "", err
	}
	next, err := tag.Bump(mode)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}
