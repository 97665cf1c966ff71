package pkgcache

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedVersion means a cache path was requested before the
	// version spec was resolved. It indicates a caller bug.
	ErrUnresolvedVersion = errors.New("version is unresolved")

	// ErrCacheDirectoryCreate means the store directory could not be created.
	ErrCacheDirectoryCreate = errors.New("cannot create cache directory")

	// ErrInstallFailure means the installer failed to materialize a package.
	ErrInstallFailure = errors.New("install failed")
)

// CacheDirError reports a store directory that could not be created.
type CacheDirError struct {
	Dir string
	Err error
}

func (e *CacheDirError) Error() string {
	return fmt.Sprintf("creating cache directory %s: %v", e.Dir, e.Err)
}

func (e *CacheDirError) Unwrap() error { return e.Err }

func (e *CacheDirError) Is(target error) bool { return target == ErrCacheDirectoryCreate }

// InstallError wraps an installer failure with the package it was installing.
type InstallError struct {
	Name    string
	Version string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing %s@%s: %v", e.Name, e.Version, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

func (e *InstallError) Is(target error) bool { return target == ErrInstallFailure }
