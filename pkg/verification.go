package pkg

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/songbook/go/songbook/internal/config"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/build"
	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// VerifyResult is the outcome of a template verification.
type VerifyResult struct {
	Checksum string
	Expected string
	Missing  []string
}

// OK reports whether every required template is present and the checksum
// matches. An empty expectation matches any checksum.
func (r VerifyResult) OK() bool {
	return len(r.Missing) == 0 && (r.Expected == "" || strings.EqualFold(r.Checksum, r.Expected))
}

// VerifyTemplatesWithLogger checks that the template directory holds every
// file a build needs and that it matches the configured checksum.
func VerifyTemplatesWithLogger(cfg config.Config, logger hclog.Logger) (VerifyResult, error) {
	result := VerifyResult{Expected: cfg.TemplateChecksum}
	paths := build.NewWorkPaths(cfg.TemplateDir, cfg.WorkDir)

	logger.Info("Verifying templates", "dir", cfg.TemplateDir)

	for _, path := range []string{paths.Template(), paths.LogoTemplate(), paths.Style()} {
		if _, err := os.Stat(path); err != nil {
			result.Missing = append(result.Missing, path)
			logger.Error("Template missing", "path", path)
		} else {
			logger.Info("✓ Template present", "path", path)
		}
	}

	sum, err := build.TemplateChecksum(cfg.TemplateDir)
	if err != nil {
		return result, err
	}
	result.Checksum = sum

	if err := build.VerifyTemplates(cfg.TemplateDir, cfg.TemplateChecksum, logger); err != nil {
		logger.Error("✗ Template checksum mismatch", "actual", sum, "expected", cfg.TemplateChecksum)
		return result, err
	}
	if len(result.Missing) > 0 {
		logger.Error("✗ Template verification failed", "missing", len(result.Missing))
		return result, &sberrors.SourceNotFoundError{
			Path: result.Missing[0],
			Err:  fmt.Errorf("%d template file(s) missing", len(result.Missing)),
		}
	}

	logger.Info("✓ Template verification passed", "checksum", sum)
	return result, nil
}

// VerifyTemplates verifies the templates of cfg using default logger settings.
func VerifyTemplates(cfg config.Config) (VerifyResult, error) {
	return VerifyTemplatesWithLogger(cfg, NewBuilderLogger(cfg.LogLevel))
}
