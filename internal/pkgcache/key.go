package pkgcache

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CacheKey returns the store-relative directory for one (name, version) pair
// as a slash-separated path. Scoped names produce one nested directory.
func CacheKey(name, version string) (string, error) {
	if version == "" || version == LatestVersion {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedVersion, name)
	}
	return "_" + strings.ReplaceAll(name, "/", "_") + "@" + version + "@" + name, nil
}

// ParseKey splits a key produced by CacheKey back into its name and version.
func ParseKey(key string) (name, version string, ok bool) {
	if !strings.HasPrefix(key, "_") {
		return "", "", false
	}
	rest := key[1:]
	// The escaped name may itself start with "@", so try every separator.
	for i := 1; i < len(rest); i++ {
		if rest[i] != '@' {
			continue
		}
		escaped, tail := rest[:i], rest[i+1:]
		j := strings.IndexByte(tail, '@')
		if j <= 0 {
			continue
		}
		version, name = tail[:j], tail[j+1:]
		if strings.ReplaceAll(name, "/", "_") != escaped {
			continue
		}
		if _, err := semver.NewVersion(version); err != nil {
			continue
		}
		return name, version, true
	}
	return "", "", false
}
