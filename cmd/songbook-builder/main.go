package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/provide-io/songbook/go/songbook/internal/config"
	"github.com/provide-io/songbook/go/songbook/pkg"
)

const version = "0.1.0"

// cliOptions holds everything given on the command line. Config fields left
// at their zero value do not override lower layers.
type cliOptions struct {
	cfg         config.Config
	configPath  string
	logLevel    string
	versionFlag bool
	format      string
	debounce    time.Duration
}

func getBuilderTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "songbook-builder %s\n", version)
	fmt.Fprintf(w, "Built: %s\n", getBuilderTimestamp())
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "songbook-builder",
		Short: "Build a songbook PDF from LaTeX song fragments",
		Long: `Build a songbook PDF from LaTeX song fragments.

Songs named in the song list are read from the song directory, ordered
alphabetically around any \songnumber they ask for, coloured and compiled
into a single PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.versionFlag {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return pkg.BuildSongbookWithLogLevel(cmd.Context(), cfg, opts.logLevel)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&opts.cfg.SongList, "list", "l", "", "Song list file (default \"songlist.txt\")")
	f.StringVarP(&opts.cfg.Output, "output", "o", "", "Output PDF (default \"sangbog.pdf\")")
	f.StringVarP(&opts.cfg.WorkDir, "work", "w", "", "Work directory (default \"work/\")")
	f.StringVarP(&opts.cfg.SongDir, "songs", "s", "", "Song directory (default \"songs/\")")
	f.StringVarP(&opts.cfg.TemplateDir, "template", "t", "", "Template directory (default \"template/\")")
	f.StringVarP(&opts.cfg.ResourceDir, "res", "r", "", "Resource directory copied into the work directory (default \"res/\")")
	f.StringVar(&opts.cfg.Colors.Logo, "logo-color", "", "Logo color: random, #RRGGBB or R,G,B (default random)")
	f.StringVar(&opts.cfg.Colors.Title, "title-color", "", "Title color: random, contrast, #RRGGBB or R,G,B (default logo color)")
	f.StringVar(&opts.cfg.Colors.Cover, "cover-color", "", "Cover color: random, #RRGGBB or R,G,B (default random)")
	f.StringVar(&opts.cfg.Colors.Back, "back-color", "", "Back color: random, contrast, #RRGGBB or R,G,B (default contrast)")
	f.StringVarP(&opts.cfg.Authors, "authors", "a", "", "Comma separated authors for the cover")
	f.BoolVar(&opts.cfg.NoSort, "no-sort", false, "Keep list order for songs without a number")
	f.StringVar(&opts.cfg.TexFile, "tex-file", "", "Write the master document here instead of the work directory")
	f.BoolVarP(&opts.cfg.Keep, "keep", "k", false, "Keep the work directory")
	f.BoolVarP(&opts.cfg.Chorded, "chorded", "c", false, "Print chords")
	f.BoolVar(&opts.cfg.Developer, "developer", false, "Skip the template integrity check")
	f.Uint64Var(&opts.cfg.Seed, "seed", 0, "Seed for random colors (0 picks one)")
	f.StringVar(&opts.cfg.Locale, "locale", "", "Collation locale for titles (default \"da\")")
	f.IntVar(&opts.cfg.Concurrency, "concurrency", 0, "Songs read in parallel (default 4)")
	f.StringVar(&opts.cfg.Compiler, "compiler", "", "Compiler command line")
	f.IntVar(&opts.cfg.CompilerPasses, "passes", 0, "Compiler passes (default 3)")
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, json[:level])")
	rootCmd.Flags().BoolVarP(&opts.versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newOrderCmd(opts), newVerifyCmd(opts), newWatchCmd(opts))
	return rootCmd
}

func newOrderCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the song order, categories and palette without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := pkg.NewBuilderLogger(opts.level(cfg))
			plan, err := pkg.PlanSongbook(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("❌ Planning failed", "error", err)
				return err
			}
			return writeReport(cmd.OutOrStdout(), newOrderReport(plan), opts.format)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, yaml)")
	return cmd
}

func newVerifyCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the template directory against the known checksum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			result, err := pkg.VerifyTemplatesWithLogger(cfg, pkg.NewBuilderLogger(opts.level(cfg)))
			if result.Checksum != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Checksum)
			}
			return err
		},
	}
}

func newWatchCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever a song, the list or a template changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := pkg.NewBuilderLogger(opts.level(cfg))
			return pkg.WatchSongbook(cmd.Context(), cfg, logger, opts.debounce)
		},
	}
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Quiet period before rebuilding")
	return cmd
}

// load layers the command line on top of defaults, the config file and the
// environment.
func (o *cliOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return config.Merge(cfg, o.cfg), nil
}

func (o *cliOptions) level(cfg config.Config) string {
	if o.logLevel != "" {
		return o.logLevel
	}
	return cfg.LogLevel
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(ExitPanic)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&cliOptions{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
