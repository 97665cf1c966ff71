package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryUnavailable is matched by every failure to obtain a usable
	// response from the registry.
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrNoVersionsAvailable means a version set held nothing to resolve.
	ErrNoVersionsAvailable = errors.New("no versions available")

	// ErrVersionNotFound means a concrete version is not published.
	ErrVersionNotFound = errors.New("version not found")
)

// UnavailableError reports a failed registry read. Err is the transport,
// status, or decode failure.
type UnavailableError struct {
	Package    string
	URL        string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry unavailable for %s: %s returned status %d", e.Package, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("registry unavailable for %s: %v", e.Package, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrRegistryUnavailable
}

// VersionNotFoundError names the package and version that could not be found.
type VersionNotFoundError struct {
	Package string
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s of %s not found in registry", e.Version, e.Package)
}

func (e *VersionNotFoundError) Is(target error) bool {
	return target == ErrVersionNotFound
}
