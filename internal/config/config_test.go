package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Sort())
	assert.Equal(t, "sangbog.pdf", cfg.OutputPath())
	assert.Equal(t, "sangbog.tex", cfg.TexName())
	assert.Equal(t, filepath.Join("work", "sangbog.tex"), cfg.TexPath())
	assert.Equal(t, filepath.Join("work", "sangbog.pdf"), cfg.PDFPath())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "songbook.yaml", `
song_list: lists/spring.txt
output: out/spring
colors:
  logo: "#336699"
  back: "255,255,255"
no_sort: true
compiler_passes: 2
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lists/spring.txt", cfg.SongList)
	assert.Equal(t, "#336699", cfg.Colors.Logo)
	assert.Equal(t, "255,255,255", cfg.Colors.Back)
	assert.True(t, cfg.NoSort)
	assert.Equal(t, 2, cfg.CompilerPasses)

	merged := Merge(Defaults(), cfg)
	assert.Equal(t, "out/spring.pdf", merged.OutputPath())
	assert.Equal(t, "spring.tex", merged.TexName())
	assert.Equal(t, "random", merged.Colors.Cover, "unset keys keep defaults")
	assert.False(t, merged.Sort())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, "bad.yaml", "song_lst: typo.txt\n")
	_, err = LoadFile(path)
	assert.Error(t, err, "unknown keys must be rejected")

	empty := writeFile(t, "empty.yaml", "")
	cfg, err := LoadFile(empty)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SONGBOOK_OUTPUT", "env.pdf")
	t.Setenv("SONGBOOK_COLOR_COVER", "#000000")
	t.Setenv("SONGBOOK_KEEP", "true")
	t.Setenv("SONGBOOK_SEED", "99")
	t.Setenv("SONGBOOK_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env.pdf", cfg.Output)
	assert.Equal(t, "#000000", cfg.Colors.Cover)
	assert.True(t, cfg.Keep)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "songbook.yaml", "output: file.pdf\nauthors: Alice\n")
	t.Setenv("SONGBOOK_OUTPUT", "env.pdf")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.pdf", cfg.Output, "env overrides file")
	assert.Equal(t, "Alice", cfg.Authors, "file overrides defaults")
	assert.Equal(t, "songlist.txt", cfg.SongList)

	flags := Config{Output: "flag.pdf"}
	assert.Equal(t, "flag.pdf", Merge(cfg, flags).Output)
}

func TestTexFileOverride(t *testing.T) {
	cfg := Defaults()
	cfg.TexFile = filepath.Join("build", "book.tex")
	assert.Equal(t, "book.tex", cfg.TexName())
	assert.Equal(t, filepath.Join("build", "book.tex"), cfg.TexPath())
	assert.Equal(t, filepath.Join("work", "book.pdf"), cfg.PDFPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no song list", mutate: func(c *Config) { c.SongList = " " }},
		{name: "no output", mutate: func(c *Config) { c.Output = "" }},
		{name: "no work dir", mutate: func(c *Config) { c.WorkDir = "" }},
		{name: "no template dir", mutate: func(c *Config) { c.TemplateDir = "" }},
		{name: "no compiler", mutate: func(c *Config) { c.Compiler = "" }},
		{name: "zero passes", mutate: func(c *Config) { c.CompilerPasses = 0 }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
