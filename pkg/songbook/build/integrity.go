package build

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// TemplateChecksum returns the MD5 of every regular, non-hidden file in dir
// concatenated in name order.
func TemplateChecksum(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &sberrors.SourceNotFoundError{Path: dir, Err: err}
		}
		return "", fmt.Errorf("failed to read template directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	h := md5.New()
	for _, name := range names {
		if err := hashFile(h, filepath.Join(dir, name)); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open template %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to hash template %s: %w", path, err)
	}
	return nil
}

// VerifyTemplates fails with ErrTemplateModified when the template directory
// does not match the expected checksum. An empty expectation accepts anything.
func VerifyTemplates(dir, expected string, logger hclog.Logger) error {
	if expected == "" {
		logger.Debug("⏭️  No template checksum configured, skipping integrity check")
		return nil
	}
	actual, err := TemplateChecksum(dir)
	if err != nil {
		return err
	}
	logger.Debug("🔐 Template checksum", "dir", dir, "actual", actual, "expected", expected)
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: checksum %s does not match %s (use --developer to build anyway)",
			sberrors.ErrTemplateModified, actual, expected)
	}
	logger.Debug("✅ Templates unmodified")
	return nil
}
