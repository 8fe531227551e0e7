package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "missing source", err: &sberrors.SourceNotFoundError{Path: "x.tex", Err: os.ErrNotExist}, want: ExitSourceError},
		{name: "bad number", err: &sberrors.InvalidPositionError{Source: "x.tex", Value: "two"}, want: ExitSourceError},
		{name: "conflict", err: &sberrors.ConflictingPositionError{First: "A", Second: "B", Position: 1}, want: ExitPlacementError},
		{name: "unresolved", err: fmt.Errorf("plan: %w", sberrors.ErrUnresolvedPlacement), want: ExitPlacementError},
		{name: "template", err: sberrors.ErrTemplateModified, want: ExitTemplateError},
		{name: "color", err: &sberrors.InvalidColorSpecError{Role: "cover", Spec: "mauve"}, want: ExitInvalidArgs},
		{name: "compile", err: sberrors.ErrCompileFailed, want: ExitCompileError},
		{name: "locked", err: sberrors.ErrBuildLocked, want: ExitLocked},
		{name: "other", err: errors.New("boom"), want: ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "songbook.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: from-file\nauthors: File Author\n"), 0o644))

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", cfgPath,
		"-o", "from-flag",
		"--cover-color", "#000000",
		"-k", "-c",
		"--seed", "42",
	}))

	cfg, err := opts.load()
	require.NoError(t, err)
	assert.Equal(t, "from-flag.pdf", cfg.OutputPath())
	assert.Equal(t, "File Author", cfg.Authors)
	assert.Equal(t, "#000000", cfg.Colors.Cover)
	assert.Equal(t, "random", cfg.Colors.Logo)
	assert.True(t, cfg.Keep)
	assert.True(t, cfg.Chorded)
	assert.False(t, cfg.Developer)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"songs/b.tex":  "\\beginsong{Bravo}\n\\category{hymn}\n\\endsong\n",
		"songs/a.tex":  "\\beginsong{Alpha}\n\\songnumber{1}\n\\endsong\n",
		"songs/c.tex":  "\\beginsong{Charlie}\n\\category{hymn}\n\\endsong\n",
		"songlist.txt": "b.tex\na.tex\nc.tex\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestOrderCommand(t *testing.T) {
	root := writeProject(t)
	t.Setenv("SONGBOOK_LOG_PATH", filepath.Join(root, "songbook.log"))

	var out bytes.Buffer
	cmd := newRootCmd(&cliOptions{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"order", "--format", "yaml",
		"-l", filepath.Join(root, "songlist.txt"),
		"-s", filepath.Join(root, "songs"),
		"--logo-color", "10,20,30",
		"--cover-color", "255,255,255",
	})
	require.NoError(t, cmd.Execute())

	var report orderReport
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Songs, 3)
	assert.Equal(t, "Bravo", report.Songs[0].Title)
	assert.Equal(t, "Alpha", report.Songs[1].Title)
	assert.True(t, report.Songs[1].Forced)
	assert.Equal(t, "Charlie", report.Songs[2].Title)
	assert.Equal(t, []reportCategory{{Tag: "hymn", Songs: []int{1, 3}}}, report.Categories)
	assert.Equal(t, reportColor{RGB: "10,20,30", Hex: "#0a141e"}, report.Palette.Title)
	assert.Equal(t, "RKG", report.Authors)
}

func TestOrderCommand_TextAndErrors(t *testing.T) {
	root := writeProject(t)
	t.Setenv("SONGBOOK_LOG_PATH", filepath.Join(root, "songbook.log"))
	base := []string{"order", "-l", filepath.Join(root, "songlist.txt"), "-s", filepath.Join(root, "songs")}

	var out bytes.Buffer
	cmd := newRootCmd(&cliOptions{})
	cmd.SetOut(&out)
	cmd.SetArgs(base)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "  2  Alpha *\n")
	assert.Contains(t, out.String(), "[hymn] [1 3]")

	cmd = newRootCmd(&cliOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(append(base, "--back-color", "mauve"))
	err := cmd.Execute()
	assert.Equal(t, ExitInvalidArgs, exitCode(err))

	cmd = newRootCmd(&cliOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(append(base, "--format", "xml"))
	assert.Error(t, cmd.Execute())
}
