package pkgcache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Entry is one package tree present in a store directory.
type Entry struct {
	Name    string
	Version string
	Dir     string
}

// List returns the packages cached under storeDir, sorted by name then
// semantic version. A missing store directory yields no entries.
func List(storeDir string) ([]Entry, error) {
	top, err := os.ReadDir(storeDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	add := func(key string) {
		if name, version, ok := ParseKey(key); ok {
			entries = append(entries, Entry{
				Name:    name,
				Version: version,
				Dir:     filepath.Join(storeDir, filepath.FromSlash(key)),
			})
		}
	}

	for _, e := range top {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "_") {
			continue
		}
		if _, _, ok := ParseKey(e.Name()); ok {
			add(e.Name())
			continue
		}
		// Scoped names nest one level: _@scope_init@1.0.0@@scope/init.
		sub, err := os.ReadDir(filepath.Join(storeDir, e.Name()))
		if err != nil {
			continue
		}
		for _, s := range sub {
			if s.IsDir() {
				add(e.Name() + "/" + s.Name())
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return compareVersions(entries[i].Version, entries[j].Version) < 0
	})
	return entries, nil
}

// compareVersions orders by semver precedence. ParseKey only accepts keys
// whose version parses, so the string fallback is never reached from List.
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}
