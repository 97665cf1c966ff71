package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// linkMarker is written into a copied directory so RemoveLink knows it may
// delete the whole tree.
const linkMarker = ".magic-link-target"

// CreateDirLink makes link point at the directory target, replacing whatever
// link (or link fallback copy) is already there. Parent directories of link
// are created as needed.
//
// On Unix this is always a symlink. On Windows a symlink is attempted first
// (requires developer mode); otherwise target is copied and a marker file
// records where it came from.
func CreateDirLink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return fmt.Errorf("creating link parent: %w", err)
	}
	if err := RemoveLink(link); err != nil {
		return err
	}

	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	if err := CopyDir(target, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}
	// Non-fatal: the copy succeeded even if the marker cannot be written.
	_ = os.WriteFile(filepath.Join(link, linkMarker), []byte(target), 0644)
	return nil
}

// RemoveLink removes a link created by CreateDirLink. A missing path is not
// an error. A real directory that is not a fallback copy is left alone and
// reported.
func RemoveLink(link string) error {
	info, err := os.Lstat(link)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		return os.Remove(link)
	}
	if _, err := os.Stat(filepath.Join(link, linkMarker)); err != nil {
		return fmt.Errorf("%s is a directory, not a link", link)
	}
	return os.RemoveAll(link)
}
