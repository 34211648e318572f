//go:build !unix

package cache

import (
	"fmt"
	"os"
	"time"
)

// lockFile on non-Unix platforms falls back to O_EXCL create-based
// locking, since syscall.Flock is Unix-only. kubectl-smart's supported
// deployment targets are Linux and macOS; this exists so the package still
// builds on Windows rather than to be a production-grade lock there.
func lockFile(path string) (func(), error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
		if err == nil {
			return func() { f.Close(); os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file %s: %w", path, err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock file %s: timed out waiting for lock", path)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
