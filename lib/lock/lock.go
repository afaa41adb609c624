package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"
)

// FileLock serializes cache regeneration across processes with exclusive lock
// files under the system temp directory.
type FileLock struct {
	logger *slog.Logger
}

// New creates a file-based lock instance.
func New(logger *slog.Logger) *FileLock {
	return &FileLock{logger: logger}
}

// TryLock attempts to acquire the lock for the given key, retrying until the
// timeout expires. Returns false without error on timeout. A lock file older
// than twice the timeout is considered abandoned and removed.
func (fl *FileLock) TryLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	lockFile := fl.path(key)

	if err := os.MkdirAll(filepath.Dir(lockFile), 0750); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		file, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			if os.IsExist(err) {
				if fl.isStale(lockFile, timeout*2) {
					fl.logger.Warn("Removing stale lock file", slog.String("file", lockFile))
					if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
						fl.logger.Error("Failed to remove stale lock file",
							slog.String("file", lockFile), slog.Any("error", err))
					}
					continue
				}

				select {
				case <-ctx.Done():
					return false, ctx.Err()
				case <-time.After(100 * time.Millisecond):
					continue
				}
			}
			return false, fmt.Errorf("failed to create lock file: %w", err)
		}

		if _, err := fmt.Fprintf(file, "%d\n%d\n", time.Now().Unix(), os.Getpid()); err != nil {
			_ = file.Close()
			return false, fmt.Errorf("failed to write lock file: %w", err)
		}
		if err := file.Close(); err != nil {
			return false, fmt.Errorf("failed to close lock file: %w", err)
		}

		fl.logger.Debug("Acquired lock", slog.String("key", key), slog.String("file", lockFile))
		return true, nil
	}

	return false, nil
}

// Unlock releases the lock for the given key. Releasing a lock that is not
// held is not an error.
func (fl *FileLock) Unlock(key string) error {
	if err := os.Remove(fl.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	fl.logger.Debug("Released lock", slog.String("key", key))
	return nil
}

// path maps a key, typically a cache file path, onto a flat lock file name.
func (fl *FileLock) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(os.TempDir(), "animeprep-locks", name+".lock")
}

func (fl *FileLock) isStale(lockFile string, staleAfter time.Duration) bool {
	info, err := os.Stat(lockFile)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > staleAfter
}
