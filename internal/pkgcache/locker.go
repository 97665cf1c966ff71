package pkgcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryInterval = 100 * time.Millisecond

// Locker hands out one advisory file lock per cache key.
type Locker struct {
	locksDir string
}

// NewLocker creates a Locker that stores lock files in locksDir.
func NewLocker(locksDir string) *Locker {
	return &Locker{locksDir: locksDir}
}

// lockPath flattens a cache key into a single file name.
func (l *Locker) lockPath(key string) string {
	name := strings.NewReplacer("/", "+", "\\", "+", ":", "-").Replace(key)
	return filepath.Join(l.locksDir, name+".lock")
}

// Lock blocks until the lock for key is held or ctx is done. The returned
// function releases it.
func (l *Locker) Lock(ctx context.Context, key string) (unlock func() error, err error) {
	if err := os.MkdirAll(l.locksDir, 0755); err != nil {
		return nil, fmt.Errorf("creating locks directory: %w", err)
	}

	fl := flock.New(l.lockPath(key))
	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock for %s: %w", key, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring lock for %s: %v", key, ctx.Err())
	}
	return fl.Unlock, nil
}
