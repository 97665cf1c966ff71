package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ResolveLatest returns the highest version in versions under semver
// ordering. Entries that do not parse as semver are ignored. When two entries
// compare equal the first one encountered wins.
func ResolveLatest(versions []string) (string, error) {
	var (
		best    *semver.Version
		bestRaw string
	)
	for _, raw := range versions {
		v, err := parseSemver(raw)
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	if best == nil {
		return "", ErrNoVersionsAvailable
	}
	return bestRaw, nil
}

// ResolveSatisfying returns the versions compatible with ^base that are newer
// than base, highest first. The head of the result is the next compatible
// release; an empty result means no update is available and is not an error.
func ResolveSatisfying(base string, versions []string) ([]string, error) {
	bv, err := parseSemver(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base version %q: %w", base, err)
	}
	constraint, err := semver.NewConstraint("^" + strings.TrimPrefix(base, "v"))
	if err != nil {
		return nil, fmt.Errorf("building constraint for %q: %w", base, err)
	}

	type candidate struct {
		raw string
		v   *semver.Version
	}
	var matches []candidate
	for _, raw := range versions {
		v, err := parseSemver(raw)
		if err != nil {
			continue
		}
		if v.GreaterThan(bv) && constraint.Check(v) {
			matches = append(matches, candidate{raw: raw, v: v})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].v.GreaterThan(matches[j].v)
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.raw
	}
	return out, nil
}

// IsNewer reports whether candidate is strictly greater than current.
func IsNewer(current, candidate string) (bool, error) {
	cv, err := parseSemver(current)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", current, err)
	}
	nv, err := parseSemver(candidate)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", candidate, err)
	}
	return nv.GreaterThan(cv), nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
