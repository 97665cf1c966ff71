package platform

import (
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// NormalizeMode turns an archive entry's mode into the mode an extracted file
// gets: owner read/write always, execute bits kept only when the owner could
// execute, and no group/other write.
func NormalizeMode(mode int64) os.FileMode {
	if os.FileMode(mode)&0100 != 0 {
		return 0755
	}
	return 0644
}
