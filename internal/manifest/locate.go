package manifest

import (
	"os"
	"path/filepath"
	"strings"
)

// FindPackageDir walks upward from start and returns the first directory
// containing a package.json.
func FindPackageDir(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Locate returns the absolute, forward-slash path of the entry file declared
// by the manifest governing root. It returns "" with a nil error when there is
// no manifest or the manifest has no main field.
func Locate(root string) (string, error) {
	dir, ok := FindPackageDir(root)
	if !ok {
		return "", nil
	}

	pkg, err := ReadPackage(filepath.Join(dir, FileName))
	if err != nil {
		return "", err
	}
	if pkg.Main == "" {
		return "", nil
	}

	entry := filepath.FromSlash(pkg.Main)
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, entry)
	}
	return FormatPath(entry), nil
}

// FormatPath rewrites the host path separator to "/". Paths on hosts that
// already use "/" are returned unchanged.
func FormatPath(p string) string {
	return formatPath(p, os.PathSeparator)
}

func formatPath(p string, sep rune) string {
	if sep == '/' {
		return p
	}
	return strings.ReplaceAll(p, string(sep), "/")
}
