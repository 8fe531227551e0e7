package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
	"github.com/provide-io/songbook/go/songbook/internal/shellparse"
)

// Runner runs one compiler invocation in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) ([]byte, error)
}

// ExecRunner runs the compiler as a child process.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Compiler turns the master document into a PDF.
type Compiler struct {
	argv   []string
	passes int
	runner Runner
	logger hclog.Logger
}

// NewCompiler parses the configured compiler command line.
func NewCompiler(command string, passes int, runner Runner, logger hclog.Logger) (*Compiler, error) {
	argv, err := shellparse.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid compiler command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("compiler command is empty")
	}
	if passes < 1 {
		passes = 1
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Compiler{argv: argv, passes: passes, runner: runner, logger: logger}, nil
}

// Compile runs the compiler on texFile inside workDir once per pass so that
// the table of contents and song indexes settle. Compiler output is only
// logged when a pass fails.
func (c *Compiler) Compile(ctx context.Context, workDir, texFile string) error {
	argv := append(append([]string{}, c.argv...), texFile)
	for pass := 1; pass <= c.passes; pass++ {
		c.logger.Info("🚀 Running compiler", "pass", pass, "of", c.passes, "command", argv[0])
		c.logger.Debug("🚀 Full command with args", "args", argv[1:], "dir", workDir)

		out, err := c.runner.Run(ctx, workDir, argv)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("❌ Compiler failed", "pass", pass, "error", err)
			if len(out) > 0 {
				c.logger.Error("📜 Compiler output", "output", string(out))
			}
			return fmt.Errorf("%w: %s pass %d: %v", sberrors.ErrCompileFailed, argv[0], pass, err)
		}
		c.logger.Trace("📜 Compiler output", "pass", pass, "output", string(out))
	}
	c.logger.Info("✅ Compilation finished", "passes", c.passes)
	return nil
}

// CopyFile copies src to dst, creating dst's directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &sberrors.SourceNotFoundError{Path: src, Err: err}
		}
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// CopyTree copies every file below src into dst keeping relative paths.
// A missing src is not an error.
func CopyTree(src, dst string, logger hclog.Logger) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		logger.Debug("⏭️  Resource directory missing, nothing to copy", "dir", src)
		return 0, nil
	}
	copied := 0
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := CopyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to copy resources: %w", err)
	}
	logger.Debug("📁 Resources copied", "from", src, "files", copied)
	return copied, nil
}
