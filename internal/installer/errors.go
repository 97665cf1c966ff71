package installer

import (
	"errors"
	"fmt"
)

// ErrIntegrity is matched by every checksum mismatch.
var ErrIntegrity = errors.New("integrity check failed")

// IntegrityError reports a downloaded tarball whose digest does not match
// the registry's.
type IntegrityError struct {
	Package   string
	Algorithm string
	Expected  string
	Actual    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s digest mismatch: expected %s, got %s", e.Package, e.Algorithm, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// UnsafePathError reports an archive entry that would land outside the
// extraction directory.
type UnsafePathError struct {
	Entry string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("archive entry %q escapes the destination", e.Entry)
}
