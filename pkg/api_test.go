package pkg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/songbook/go/songbook/internal/config"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/build"
	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

type pdfRunner struct{ runs int }

func (r *pdfRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, error) {
	r.runs++
	return nil, os.WriteFile(filepath.Join(dir, "book.pdf"), []byte("%PDF"), 0o644)
}

func project(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"template/template.tex":      "{{BODY}}",
		"template/logo_template.eps": "1 0 1 rg",
		"template/songs.sty":         "",
		"songs/a.tex":                "\\beginsong{A}\\endsong",
		"songlist.txt":               "a.tex\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Defaults()
	cfg.SongList = filepath.Join(root, "songlist.txt")
	cfg.SongDir = filepath.Join(root, "songs")
	cfg.TemplateDir = filepath.Join(root, "template")
	cfg.ResourceDir = filepath.Join(root, "res")
	cfg.WorkDir = filepath.Join(root, "work")
	cfg.Output = filepath.Join(root, "book")
	cfg.CompilerPasses = 1
	return cfg
}

func TestBuildSongbookWithLogger(t *testing.T) {
	cfg := project(t)
	runner := &pdfRunner{}

	err := BuildSongbookWithLogger(context.Background(), cfg, hclog.NewNullLogger(), build.WithRunner(runner))
	assert.True(t, errors.Is(err, sberrors.ErrTemplateModified), "stock checksum does not match test templates")
	assert.Zero(t, runner.runs)

	cfg.Developer = true
	require.NoError(t, BuildSongbookWithLogger(context.Background(), cfg, hclog.NewNullLogger(), build.WithRunner(runner)))
	assert.Equal(t, 1, runner.runs)
	assert.FileExists(t, cfg.OutputPath())
}

func TestPlanSongbook(t *testing.T) {
	cfg := project(t)
	cfg.CompilerPasses = 0
	_, err := PlanSongbook(context.Background(), cfg, hclog.NewNullLogger())
	assert.Error(t, err, "configuration is validated")

	cfg.CompilerPasses = 1
	plan, err := PlanSongbook(context.Background(), cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	require.Len(t, plan.Songs, 1)
	assert.Equal(t, "A", plan.Songs[0].Title)
}

func TestVerifyTemplatesWithLogger(t *testing.T) {
	cfg := project(t)

	result, err := VerifyTemplatesWithLogger(cfg, hclog.NewNullLogger())
	assert.True(t, errors.Is(err, sberrors.ErrTemplateModified))
	assert.False(t, result.OK())
	assert.Len(t, result.Checksum, 32)

	cfg.TemplateChecksum = result.Checksum
	result, err = VerifyTemplatesWithLogger(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.True(t, result.OK())

	require.NoError(t, os.Remove(filepath.Join(cfg.TemplateDir, build.StyleFile)))
	cfg.TemplateChecksum = ""
	result, err = VerifyTemplatesWithLogger(cfg, hclog.NewNullLogger())
	assert.True(t, errors.Is(err, sberrors.ErrSourceNotFound))
	assert.Equal(t, []string{filepath.Join(cfg.TemplateDir, build.StyleFile)}, result.Missing)
	assert.False(t, result.OK())
}
