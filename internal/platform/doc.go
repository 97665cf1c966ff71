// Package platform provides cross-platform filesystem operations: directory
// links and permission changes. On Unix systems it uses native symlinks and
// chmod directly. On Windows it falls back to copying the directory tree when
// symlinks are unavailable.
package platform
