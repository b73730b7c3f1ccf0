package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a parsed semantic version. Ordering and equality follow
// semver precedence, including pre-release rules.
type Version = semver.Version

// ParseVersion parses s as a strict semantic version
// (MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]). A leading "v" or missing
// components are rejected. Errors match ErrInvalidVersion.
func ParseVersion(s string) (*Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
// Intended for constants and tests.
func MustParseVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// CompareVersions returns -1, 0 or 1 comparing a and b by semver
// precedence. A nil version sorts before any non-nil version.
func CompareVersions(a, b *Version) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(b)
}
