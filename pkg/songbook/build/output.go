package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// MoveToDestination moves the compiled PDF to its final location, creating
// the destination directory. os.Rename replaces dest atomically on the same
// filesystem; across filesystems the file is copied instead.
func MoveToDestination(pdfPath, destPath string, logger hclog.Logger) error {
	destDir := filepath.Dir(destPath)
	logger.Debug("📁 Ensuring output directory exists", "dir", destDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.Rename(pdfPath, destPath); err != nil {
		logger.Debug("Rename failed, copying instead", "error", err)
		if err := CopyFile(pdfPath, destPath); err != nil {
			return fmt.Errorf("failed to move %s to %s: %w", pdfPath, destPath, err)
		}
		os.Remove(pdfPath)
	}

	logger.Info("✅ Created", "output", destPath)
	return nil
}

// Clean removes the work directory unless keep is set.
func Clean(workDir string, keep bool, logger hclog.Logger) error {
	if keep {
		logger.Debug("📌 Keeping work directory", "dir", workDir)
		return nil
	}
	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("failed to remove work directory: %w", err)
	}
	logger.Debug("🧹 Removed work directory", "dir", workDir)
	return nil
}
