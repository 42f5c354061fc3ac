package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/runlane/internal/adapters/fs"
	"github.com/bft-labs/runlane/internal/adapters/render"
	"github.com/bft-labs/runlane/internal/app"
	"github.com/bft-labs/runlane/internal/batch"
	"github.com/bft-labs/runlane/internal/cliconfig"
	"github.com/bft-labs/runlane/internal/ports"
	"github.com/bft-labs/runlane/internal/watch"
	"github.com/bft-labs/runlane/pkg/log"
)

const helpDescription = `
Draw job runs as batched bars on a time axis.

Runs are read from a JSON, YAML or TOML file. Runs too close together to tell
apart at the chosen width are merged into one bar; each row shows a status
dot, the run id (or job key with --group) and its elapsed time.
`

var exampleUsage = strings.TrimSpace(`
  runlane --records runs.json --since 2h
  runlane --records runs.yaml --group --format interactive --watch
  runlane sample --out runs.json --count 200
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "runlane",
		Short:         "Draw job runs as batched bars on a time axis",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// RUNLANE_* override the file, flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger = cliconfig.Logger(cfg.LogLevel)
			logger.Debug().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log.NewZerologAdapterWithLogger(logger))
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.runlane/config.toml)")
	root.Flags().StringVar(&cfg.Records, "records", cfg.Records, "runs file (.json, .yaml, .yml or .toml)")
	root.Flags().StringVar(&cfg.Format, "format", cfg.Format, "output format: text, json or interactive")

	root.Flags().StringVar(&cfg.Start, "start", cfg.Start, "window start (RFC3339 or unix milliseconds)")
	root.Flags().StringVar(&cfg.End, "end", cfg.End, "window end (RFC3339 or unix milliseconds)")
	root.Flags().DurationVar(&cfg.Since, "since", cfg.Since, "window ending now (ignored when start and end are set)")

	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "container width in columns, including the gutter")
	root.Flags().IntVar(&cfg.Gutter, "gutter", cfg.Gutter, "label column width")
	root.Flags().Float64Var(&cfg.MinChunkWidth, "min-chunk-width", cfg.MinChunkWidth, "minimum width of a single run")
	root.Flags().Float64Var(&cfg.MinMultipleWidth, "min-multiple-width", cfg.MinMultipleWidth, "minimum width of a merged batch")
	root.Flags().BoolVar(&cfg.Group, "group", cfg.Group, "one row per job key instead of per run")

	root.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "viewport height in rows (0 prints every row)")
	root.Flags().IntVar(&cfg.Offset, "offset", cfg.Offset, "first row of the viewport")
	root.Flags().IntVar(&cfg.Overscan, "overscan", cfg.Overscan, "rows rendered beyond the viewport")
	root.Flags().IntVar(&cfg.CacheEntries, "cache-entries", cfg.CacheEntries, "batch cache size")
	if err := root.Flags().MarkHidden("cache-entries"); err != nil {
		logger.Info().Err(err).Msg("failed to hide cache-entries flag")
	}

	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-render when the runs file changes")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period before re-rendering")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(sampleCommand())

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("runlane")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config, logger log.Logger) error {
	source := fs.NewRecordFile(cfg.Records)
	batcher := batch.NewCachedBatcher(batch.NewDefaultBatcher(), cfg.CacheEntries)

	tl := app.NewTimeline(source, batcher, logger, app.Options{
		Width:            cfg.Width,
		Gutter:           cfg.Gutter,
		MinChunkWidth:    cfg.MinChunkWidth,
		MinMultipleWidth: cfg.MinMultipleWidth,
		Group:            cfg.Group,
		RowHeight:        1,
		Overscan:         cfg.Overscan,
		Window: app.WindowSpec{
			Start: cfg.StartTime,
			End:   cfg.EndTime,
			Since: cfg.Since,
		},
	})

	if cfg.Format == cliconfig.FormatInteractive {
		return interactive(ctx, cfg, tl, logger)
	}

	var renderer ports.Renderer = render.NewText()
	if cfg.Format == cliconfig.FormatJSON {
		renderer = render.JSON{}
	}

	draw := func(ctx context.Context) error {
		v, err := tl.Build(ctx)
		if err != nil {
			return err
		}
		if cfg.Rows > 0 {
			v = tl.Scroll(v, cfg.Offset, cfg.Rows)
		}
		logger.Debug("rendered timeline", log.String("summary", render.Summary(v)))
		return renderer.Render(os.Stdout, v)
	}

	if err := draw(ctx); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}

	w, err := watch.New(watch.Config{
		Path:     cfg.Records,
		Debounce: cfg.Debounce,
		Logger:   logger,
		OnChange: func(ctx context.Context) {
			if err := draw(ctx); err != nil {
				logger.Error("render failed", log.Err(err))
			}
		},
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	logger.Info("stopped watching")
	return nil
}

// timelineSource adapts a Timeline to the interactive renderer.
type timelineSource struct {
	tl *app.Timeline
}

func (s timelineSource) Build(ctx context.Context, width int) (ports.View, error) {
	if width > 0 {
		s.tl.Resize(width)
	}
	return s.tl.Build(ctx)
}

func (s timelineSource) Scroll(v ports.View, offset, height int) ports.View {
	return s.tl.Scroll(v, offset, height)
}

func interactive(ctx context.Context, cfg cliconfig.Config, tl *app.Timeline, logger log.Logger) error {
	var refresh chan struct{}
	if cfg.Watch {
		refresh = make(chan struct{}, 1)
		w, err := watch.New(watch.Config{
			Path:     cfg.Records,
			Debounce: cfg.Debounce,
			Logger:   logger,
			OnChange: func(context.Context) {
				select {
				case refresh <- struct{}{}:
				default:
				}
			},
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}
	return render.Run(ctx, timelineSource{tl: tl}, os.Stdin, os.Stdout, refresh)
}

func sampleCommand() *cobra.Command {
	var (
		out   string
		count int
		jobs  int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a file of demo runs from the last hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, seed>>1))
			records := app.SampleRecords(rng, time.Now(), count, jobs)
			if err := fs.NewRecordFile(out).Save(cmd.Context(), records); err != nil {
				return fmt.Errorf("write sample: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d runs to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (.json, .yaml, .yml or .toml)")
	cmd.Flags().IntVar(&count, "count", 100, "number of runs")
	cmd.Flags().IntVar(&jobs, "jobs", 5, "number of distinct job keys")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
