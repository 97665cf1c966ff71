package dispatch

import (
	"sort"

	"github.com/magic-cli-dev/magic/internal/pkgcache"
)

// Command binds a sub-command name to the package that implements it.
type Command struct {
	Name    string
	Package string
	// Version is "latest" or an exact version. Empty means latest.
	Version string
	// Hooks are shell commands run in the package directory before the
	// entry file. Each must pass the allow-list.
	Hooks []string
}

// DefaultCommands returns the built-in command table.
func DefaultCommands() map[string]Command {
	return map[string]Command{
		"init": {Name: "init", Package: "@magic-cli-dev/init", Version: pkgcache.LatestVersion},
	}
}

// MergeCommands overlays extra onto base and returns a new table. Names in
// extra win.
func MergeCommands(base, extra map[string]Command) map[string]Command {
	out := make(map[string]Command, len(base)+len(extra))
	for name, c := range base {
		out[name] = c
	}
	for name, c := range extra {
		c.Name = name
		out[name] = c
	}
	return out
}

// CommandNames returns the sorted names in table.
func CommandNames(table map[string]Command) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
