// Package config holds the songbook build configuration.
//
// A Config is assembled once, in increasing priority, from Defaults, an
// optional YAML file, SONGBOOK_* environment variables and command line
// flags. It is then passed by value to every stage of the build.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SONGBOOK_"

// Config is the complete configuration of one songbook build.
type Config struct {
	SongList    string `yaml:"song_list" env:"SONG_LIST"`
	Output      string `yaml:"output" env:"OUTPUT"`
	WorkDir     string `yaml:"work_dir" env:"WORK_DIR"`
	SongDir     string `yaml:"song_dir" env:"SONG_DIR"`
	TemplateDir string `yaml:"template_dir" env:"TEMPLATE_DIR"`
	ResourceDir string `yaml:"resource_dir" env:"RESOURCE_DIR"`
	TexFile     string `yaml:"tex_file" env:"TEX_FILE"`

	Colors Colors `yaml:"colors" envPrefix:"COLOR_"`

	Authors       string `yaml:"authors" env:"AUTHORS"`
	DefaultAuthor string `yaml:"default_author" env:"DEFAULT_AUTHOR"`

	NoSort    bool `yaml:"no_sort" env:"NO_SORT"`
	Keep      bool `yaml:"keep" env:"KEEP"`
	Chorded   bool `yaml:"chorded" env:"CHORDED"`
	Developer bool `yaml:"developer" env:"DEVELOPER"`

	Locale           string `yaml:"locale" env:"LOCALE"`
	Seed             uint64 `yaml:"seed" env:"SEED"`
	Concurrency      int    `yaml:"concurrency" env:"CONCURRENCY"`
	Compiler         string `yaml:"compiler" env:"COMPILER"`
	CompilerPasses   int    `yaml:"compiler_passes" env:"COMPILER_PASSES"`
	TemplateChecksum string `yaml:"template_checksum" env:"TEMPLATE_CHECKSUM"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Colors holds the raw colour specs of the four palette roles.
type Colors struct {
	Logo  string `yaml:"logo" env:"LOGO"`
	Title string `yaml:"title" env:"TITLE"`
	Cover string `yaml:"cover" env:"COVER"`
	Back  string `yaml:"back" env:"BACK"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() Config {
	return Config{
		SongList:    "songlist.txt",
		Output:      "sangbog.pdf",
		WorkDir:     "work/",
		SongDir:     "songs/",
		TemplateDir: "template/",
		ResourceDir: "res/",
		Colors: Colors{
			Logo:  "random",
			Cover: "random",
			Back:  "contrast",
		},
		DefaultAuthor:    "RKG",
		Locale:           "da",
		Concurrency:      4,
		Compiler:         "pdflatex -halt-on-error -file-line-error",
		CompilerPasses:   3,
		TemplateChecksum: "5f62b8505708c8f99a2ffbe105296d46",
	}
}

// LoadFile reads a YAML configuration file. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv reads the SONGBOOK_* environment variables. Unset variables leave
// the zero value so that Merge keeps the lower layer.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Merge returns base with every non-zero field of over applied on top.
// Boolean switches can only be turned on by a higher layer.
func Merge(base, over Config) Config {
	out := base
	setString(&out.SongList, over.SongList)
	setString(&out.Output, over.Output)
	setString(&out.WorkDir, over.WorkDir)
	setString(&out.SongDir, over.SongDir)
	setString(&out.TemplateDir, over.TemplateDir)
	setString(&out.ResourceDir, over.ResourceDir)
	setString(&out.TexFile, over.TexFile)

	setString(&out.Colors.Logo, over.Colors.Logo)
	setString(&out.Colors.Title, over.Colors.Title)
	setString(&out.Colors.Cover, over.Colors.Cover)
	setString(&out.Colors.Back, over.Colors.Back)

	setString(&out.Authors, over.Authors)
	setString(&out.DefaultAuthor, over.DefaultAuthor)

	out.NoSort = out.NoSort || over.NoSort
	out.Keep = out.Keep || over.Keep
	out.Chorded = out.Chorded || over.Chorded
	out.Developer = out.Developer || over.Developer

	setString(&out.Locale, over.Locale)
	if over.Seed != 0 {
		out.Seed = over.Seed
	}
	if over.Concurrency != 0 {
		out.Concurrency = over.Concurrency
	}
	setString(&out.Compiler, over.Compiler)
	if over.CompilerPasses != 0 {
		out.CompilerPasses = over.CompilerPasses
	}
	setString(&out.TemplateChecksum, over.TemplateChecksum)
	setString(&out.LogLevel, over.LogLevel)
	return out
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

// Load layers defaults, the optional YAML file at path and the environment.
// Command line flags are merged on top by the caller.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, file)
	}
	fromEnv, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	return Merge(cfg, fromEnv), nil
}

// Validate checks the fields every build needs.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.SongList) == "":
		return errors.New("song list must be set")
	case strings.TrimSpace(c.Output) == "":
		return errors.New("output must be set")
	case strings.TrimSpace(c.WorkDir) == "":
		return errors.New("work directory must be set")
	case strings.TrimSpace(c.TemplateDir) == "":
		return errors.New("template directory must be set")
	case strings.TrimSpace(c.Compiler) == "":
		return errors.New("compiler command must be set")
	case c.CompilerPasses < 1:
		return fmt.Errorf("compiler passes must be at least 1, got %d", c.CompilerPasses)
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// OutputPath is the PDF destination, always ending in .pdf.
func (c Config) OutputPath() string {
	if strings.HasSuffix(c.Output, ".pdf") {
		return c.Output
	}
	return c.Output + ".pdf"
}

// TexPath returns the path of the generated master document.
func (c Config) TexPath() string {
	if c.TexFile != "" {
		return c.TexFile
	}
	return filepath.Join(c.WorkDir, c.TexName())
}

// TexName is the file name of the master document, derived from the output
// name unless a tex file was given explicitly.
func (c Config) TexName() string {
	if c.TexFile != "" {
		return filepath.Base(c.TexFile)
	}
	base := filepath.Base(c.OutputPath())
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".tex"
}

// PDFPath is where the compiler leaves the PDF. The compiler always runs in
// the work directory.
func (c Config) PDFPath() string {
	name := c.TexName()
	return filepath.Join(c.WorkDir, strings.TrimSuffix(name, filepath.Ext(name))+".pdf")
}

// Sort reports whether songs without a forced number are alphabetized.
func (c Config) Sort() bool {
	return !c.NoSort
}
