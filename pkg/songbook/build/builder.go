// Package build turns a song list, song sources and a template into a
// compiled songbook.
//
// A build runs in two halves. Plan is pure apart from reading sources: it
// parses the colour specs, reads and orders the songs and derives the
// palette. Build then writes the work directory, runs the compiler and moves
// the PDF into place.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/songbook/go/songbook/internal/config"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/category"
	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/fragment"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/palette"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/placement"
)

// Plan is the resolved content of a songbook before any file is written.
type Plan struct {
	Songs      []*fragment.Fragment
	Categories *category.Index
	Palette    palette.Palette
	Authors    string
}

// Document returns the template values for the plan.
func (p *Plan) Document(chorded bool) Document {
	return Document{
		Songs:      p.Songs,
		Categories: p.Categories,
		Palette:    p.Palette,
		Authors:    p.Authors,
		Chorded:    chorded,
	}
}

// Builder builds songbooks for one configuration.
type Builder struct {
	cfg    config.Config
	logger hclog.Logger
	runner Runner
	rnd    palette.Source
}

// Option customises a Builder.
type Option func(*Builder)

// WithRunner replaces the compiler process runner.
func WithRunner(r Runner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithRandom replaces the random source used for random colours.
func WithRandom(src palette.Source) Option {
	return func(b *Builder) { b.rnd = src }
}

// NewBuilder validates cfg and returns a Builder for it.
func NewBuilder(cfg config.Config, logger hclog.Logger, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	b := &Builder{cfg: cfg, logger: logger, runner: ExecRunner{}}
	for _, opt := range opts {
		opt(b)
	}
	if b.rnd == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		b.rnd = palette.NewSource(seed)
	}
	return b, nil
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() config.Config {
	return b.cfg
}

// Plan resolves the palette and the final song order.
func (b *Builder) Plan(ctx context.Context) (*Plan, error) {
	cfg := b.cfg

	// Colours are checked first so a typo fails before any file is read.
	specs, err := palette.ParseSpecs(cfg.Colors.Logo, cfg.Colors.Title, cfg.Colors.Cover, cfg.Colors.Back)
	if err != nil {
		return nil, err
	}

	names, err := ReadSongList(cfg.SongList)
	if err != nil {
		return nil, err
	}
	b.logger.Info("📋 Song list read", "path", cfg.SongList, "songs", len(names))

	songs, err := LoadSongs(ctx, cfg.SongDir, names, cfg.Concurrency, b.logger.Named("loader"))
	if err != nil {
		return nil, err
	}

	categories := category.Build(songs)
	b.logger.Debug("🏷️ Categories indexed", "categories", categories.Len())

	collator, err := placement.NewCollator(cfg.Locale)
	if err != nil {
		return nil, err
	}
	ordered, err := placement.Order(songs, placement.Options{
		Alphabetize: cfg.Sort(),
		Collator:    collator,
	})
	if err != nil {
		return nil, err
	}
	b.logger.Debug("📚 Songs ordered", "count", len(ordered), "alphabetized", cfg.Sort())

	pal, err := palette.Resolve(specs, b.rnd)
	if err != nil {
		return nil, err
	}
	b.logPalette(pal)

	return &Plan{
		Songs:      ordered,
		Categories: categories,
		Palette:    pal,
		Authors:    FormatAuthors(cfg.Authors, cfg.DefaultAuthor),
	}, nil
}

func (b *Builder) logPalette(p palette.Palette) {
	b.logger.Info("🎨 Logo color", "rgb", p.Logo.String(), "hex", p.Logo.Hex())
	if p.Title != p.Logo {
		b.logger.Info("🎨 Title color", "rgb", p.Title.String(), "hex", p.Title.Hex())
	}
	b.logger.Info("🎨 Cover color", "rgb", p.Cover.String(), "hex", p.Cover.Hex())
	b.logger.Info("🎨 Back color", "rgb", p.Back.String(), "hex", p.Back.Hex())
}

// Build runs the whole pipeline and leaves the PDF at the configured output.
func (b *Builder) Build(ctx context.Context) error {
	cfg := b.cfg
	start := time.Now()
	paths := NewWorkPaths(cfg.TemplateDir, cfg.WorkDir)

	if cfg.Developer {
		b.logger.Debug("🧑‍💻 Developer mode, skipping template integrity check")
	} else if err := VerifyTemplates(cfg.TemplateDir, cfg.TemplateChecksum, b.logger); err != nil {
		return err
	}

	plan, err := b.Plan(ctx)
	if err != nil {
		return err
	}

	compiler, err := NewCompiler(cfg.Compiler, cfg.CompilerPasses, b.runner, b.logger.Named("compiler"))
	if err != nil {
		return err
	}

	b.logger.Debug("📁 Ensuring work directory exists", "dir", paths.Work())
	if err := os.MkdirAll(paths.Work(), 0o755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	release, err := AcquireLock(paths, b.logger)
	if err != nil {
		return err
	}
	locked := true
	defer func() {
		if locked {
			release()
		}
	}()

	if err := b.writeLogo(paths, plan.Palette.Logo); err != nil {
		return err
	}
	if err := b.writeTexFile(paths, plan); err != nil {
		return err
	}
	if err := CopyFile(paths.Style(), paths.WorkStyle()); err != nil {
		return err
	}
	if _, err := CopyTree(cfg.ResourceDir, paths.Work(), b.logger); err != nil {
		return err
	}

	texArg := cfg.TexName()
	if cfg.TexFile != "" {
		if texArg, err = filepath.Abs(cfg.TexFile); err != nil {
			return err
		}
	}
	if err := compiler.Compile(ctx, paths.Work(), texArg); err != nil {
		return err
	}

	if err := MoveToDestination(cfg.PDFPath(), cfg.OutputPath(), b.logger); err != nil {
		return err
	}

	release()
	locked = false
	if err := Clean(paths.Work(), cfg.Keep, b.logger); err != nil {
		return err
	}

	b.logger.Info("✅ Successfully built songbook",
		"output", cfg.OutputPath(),
		"songs", len(plan.Songs),
		"categories", plan.Categories.Len(),
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (b *Builder) writeLogo(paths *WorkPaths, logo palette.RGB) error {
	eps, err := readSource(paths.LogoTemplate())
	if err != nil {
		return err
	}
	if err := os.WriteFile(paths.Logo(), []byte(RecolorLogo(eps, logo)), 0o644); err != nil {
		return fmt.Errorf("failed to write logo: %w", err)
	}
	b.logger.Debug("🖼️ Logo written", "path", paths.Logo())
	return nil
}

func (b *Builder) writeTexFile(paths *WorkPaths, plan *Plan) error {
	tmpl, err := readSource(paths.Template())
	if err != nil {
		return err
	}
	tex := Render(tmpl, plan.Document(b.cfg.Chorded))

	texPath := b.cfg.TexPath()
	if err := os.MkdirAll(filepath.Dir(texPath), 0o755); err != nil {
		return fmt.Errorf("failed to create tex directory: %w", err)
	}
	if err := os.WriteFile(texPath, []byte(tex), 0o644); err != nil {
		return fmt.Errorf("failed to write tex file: %w", err)
	}
	b.logger.Debug("✍️ Master document written", "path", texPath, "size", len(tex))
	return nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &sberrors.SourceNotFoundError{Path: path, Err: err}
		}
		return "", err
	}
	return string(data), nil
}
