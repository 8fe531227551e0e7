package build

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// IsProcessRunning checks if a process with given PID is still running
func IsProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, Signal(0) checks if process exists without actually sending a signal
	return process.Signal(syscall.Signal(0)) == nil
}

// AcquireLock takes the work directory lock for this process. A lock left
// behind by a dead process is removed first. It fails with ErrBuildLocked
// while another live build holds the lock.
func AcquireLock(paths *WorkPaths, logger hclog.Logger) (release func(), err error) {
	lockPath := paths.Lock()

	if data, err := os.ReadFile(lockPath); err == nil {
		oldPid, perr := strconv.Atoi(strings.TrimSpace(string(data)))
		switch {
		case perr != nil:
			logger.Info("🧹 Removing invalid lock file (couldn't parse PID)", "path", lockPath)
			os.Remove(lockPath)
		case !IsProcessRunning(oldPid):
			logger.Info("🧹 Removing stale lock from dead process", "pid", oldPid)
			os.Remove(lockPath)
		default:
			return nil, fmt.Errorf("%w: held by pid %d (%s)", sberrors.ErrBuildLocked, oldPid, lockPath)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", sberrors.ErrBuildLocked, lockPath)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer file.Close()

	pid := os.Getpid()
	if _, err := fmt.Fprintf(file, "%d\n", pid); err != nil {
		os.Remove(lockPath)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	logger.Debug("🔒 Acquired build lock", "pid", pid, "path", lockPath)

	return func() {
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			logger.Debug("⚠️ Failed to remove lock file", "error", err)
			return
		}
		logger.Debug("🔓 Released build lock")
	}, nil
}
