package pkg

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/songbook/go/songbook/internal/config"
	"github.com/provide-io/songbook/go/songbook/internal/watch"
	"github.com/provide-io/songbook/go/songbook/pkg/logging"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/build"
)

// BuilderName names the root logger of every builder run.
const BuilderName = "songbook-builder"

// NewBuilderLogger creates the root logger, resolving the level from the
// command line and the environment.
func NewBuilderLogger(cliLogLevel string) hclog.Logger {
	level, source := logging.ResolveLevel(cliLogLevel)
	logger := logging.New(logging.Options{Name: BuilderName, Level: level, Output: logging.Output()})
	logger.Debug("Log level", "level", level, "source", source)
	return logger
}

// BuildSongbook builds cfg with a logger configured from the environment.
func BuildSongbook(ctx context.Context, cfg config.Config) error {
	return BuildSongbookWithLogLevel(ctx, cfg, "")
}

// BuildSongbookWithLogLevel builds cfg with explicit log level control.
func BuildSongbookWithLogLevel(ctx context.Context, cfg config.Config, cliLogLevel string) error {
	if cliLogLevel == "" {
		cliLogLevel = cfg.LogLevel
	}
	return BuildSongbookWithLogger(ctx, cfg, NewBuilderLogger(cliLogLevel))
}

// BuildSongbookWithLogger builds cfg and logs through logger.
func BuildSongbookWithLogger(ctx context.Context, cfg config.Config, logger hclog.Logger, opts ...build.Option) error {
	logger.Info("🎵🎵🎵 Hello from the Songbook Builder 🎵🎵🎵")
	logger.Debug("Configuration",
		"song_list", cfg.SongList,
		"output", cfg.OutputPath(),
		"work_dir", cfg.WorkDir,
		"chorded", cfg.Chorded,
		"sorted", cfg.Sort(),
		"developer", cfg.Developer)

	b, err := build.NewBuilder(cfg, logger, opts...)
	if err != nil {
		logger.Error("❌ Invalid configuration", "error", err)
		return err
	}
	if err := b.Build(ctx); err != nil {
		logger.Error("❌ Build failed", "error", err)
		return err
	}
	return nil
}

// PlanSongbook resolves the song order and palette without writing anything.
func PlanSongbook(ctx context.Context, cfg config.Config, logger hclog.Logger, opts ...build.Option) (*build.Plan, error) {
	b, err := build.NewBuilder(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	return b.Plan(ctx)
}

// WatchSongbook builds once and then again whenever a song, the song list,
// a template or a resource changes, until ctx is done. Every rebuild starts
// from cfg so a fixed seed gives the same palette each time.
func WatchSongbook(ctx context.Context, cfg config.Config, logger hclog.Logger, debounce time.Duration, opts ...build.Option) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	rebuild := func(ctx context.Context) error {
		b, err := build.NewBuilder(cfg, logger, opts...)
		if err != nil {
			return err
		}
		return b.Build(ctx)
	}

	w, err := watch.New(watch.Options{
		Dirs:     []string{cfg.SongDir, cfg.TemplateDir, cfg.ResourceDir},
		Files:    []string{cfg.SongList},
		Debounce: debounce,
		Initial:  true,
	}, rebuild, logger.Named("watch"))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
