package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/celtic0827/FrameScout/internal/domain/entity"
	"github.com/celtic0827/FrameScout/internal/domain/port"
	"github.com/celtic0827/FrameScout/internal/infra/archive"
	"github.com/celtic0827/FrameScout/internal/infra/config"
	"github.com/celtic0827/FrameScout/internal/infra/ffmpeg"
	"github.com/celtic0827/FrameScout/internal/infra/jpegenc"
	"github.com/celtic0827/FrameScout/internal/infra/metrics"
	"github.com/celtic0827/FrameScout/internal/infra/prefs"
	"github.com/celtic0827/FrameScout/internal/infra/tracing"
	"github.com/celtic0827/FrameScout/internal/planner"
	"github.com/celtic0827/FrameScout/internal/usecase"
	"github.com/celtic0827/FrameScout/pkg/logger"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	app := &cli.Command{
		Name:  "framescout",
		Usage: "Extract preview screenshots from a video file",
		Commands: []*cli.Command{
			grabCommand(cfg, log),
			lastCommand(cfg, log),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func grabCommand(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "grab",
		Usage:     "Capture evenly spaced screenshots across the video",
		ArgsUsage: "<video file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "frames",
				Aliases: []string{"n"},
				Usage:   "Number of screenshots to capture (1-50)",
			},
			&cli.BoolFlag{
				Name:  "jitter",
				Usage: "Randomize each capture timestamp within its segment",
			},
			&cli.IntFlag{
				Name:  "scale",
				Usage: "Output size as a percentage of native dimensions (10-100, steps of 10)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the saved screenshot or archive",
			},
			&cli.BoolFlag{
				Name:  "save-prefs",
				Usage: "Persist the effective frames/jitter/scale for future launches",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			videoPath, err := videoArg(cmd)
			if err != nil {
				return err
			}

			p, store, err := loadPreferences(cfg, log)
			if err != nil {
				return err
			}
			if cmd.IsSet("frames") {
				p.FrameCount = cmd.Int("frames")
			}
			if cmd.IsSet("jitter") {
				p.JitterEnabled = cmd.Bool("jitter")
			}
			if cmd.IsSet("scale") {
				p.ScalePercent = cmd.Int("scale")
			}
			p = prefs.Normalize(p)

			if cmd.Bool("save-prefs") {
				if err := store.Save(p); err != nil {
					log.Warn("could not persist preferences", zap.Error(err))
				}
			}

			return runExtraction(ctx, cfg, log, extractionParams{
				videoPath: videoPath,
				outputDir: outputDir(cmd, cfg),
				prefs:     p,
				lastFrame: false,
			})
		},
	}
}

func lastCommand(cfg *config.Config, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "last",
		Usage:     "Capture only the final frame of the video",
		ArgsUsage: "<video file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "scale",
				Usage: "Output size as a percentage of native dimensions (10-100, steps of 10)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the saved screenshot",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			videoPath, err := videoArg(cmd)
			if err != nil {
				return err
			}

			p, _, err := loadPreferences(cfg, log)
			if err != nil {
				return err
			}
			if cmd.IsSet("scale") {
				p.ScalePercent = cmd.Int("scale")
			}
			p = prefs.Normalize(p)

			return runExtraction(ctx, cfg, log, extractionParams{
				videoPath: videoPath,
				outputDir: outputDir(cmd, cfg),
				prefs:     p,
				lastFrame: true,
			})
		},
	}
}

type extractionParams struct {
	videoPath string
	outputDir string
	prefs     port.Preferences
	lastFrame bool
}

func runExtraction(ctx context.Context, cfg *config.Config, log *zap.Logger, params extractionParams) error {
	// Tracing and metrics are optional; neither blocks an extraction.
	if cfg.OTLPEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(ctx)
		}
	}
	if cfg.MetricsEnabled {
		srv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	loader := ffmpeg.NewLoader(time.Duration(cfg.SeekTimeoutMs)*time.Millisecond, log)
	encoder := jpegenc.New(cfg.JPEGQuality)
	extract := usecase.NewExtractScreenshotsUseCase(loader, encoder, planner.New(), log)
	deliver := usecase.NewDeliverResultsUseCase(archive.NewZipBundler(), log)

	var (
		screenshots []entity.Screenshot
		err         error
	)

	if params.lastFrame {
		var shot *entity.Screenshot
		_, shot, err = extract.ExtractLast(ctx, params.videoPath, scaleFraction(params.prefs.ScalePercent))
		if err == nil && shot == nil {
			return errors.New("could not capture the last frame; the video may be too short or damaged")
		}
		if shot != nil {
			screenshots = []entity.Screenshot{*shot}
		}
	} else {
		_, screenshots, err = extract.ExtractBatch(ctx, params.videoPath,
			usecase.BatchOptions{
				Count:  params.prefs.FrameCount,
				Jitter: params.prefs.JitterEnabled,
				Scale:  scaleFraction(params.prefs.ScalePercent),
			},
			func(percent int) {
				fmt.Fprintf(os.Stderr, "\rextracting... %3d%%", percent)
				if percent >= 100 {
					fmt.Fprintln(os.Stderr)
				}
			},
		)
	}

	if err != nil {
		if errors.Is(err, entity.ErrMediaLoad) {
			return fmt.Errorf("cannot read %s; pick another video: %w", params.videoPath, err)
		}
		return err
	}

	outPath, err := deliver.Deliver(ctx, screenshots, filepath.Base(params.videoPath), params.outputDir, params.lastFrame)
	if err != nil {
		if errors.Is(err, entity.ErrNoResults) {
			return errors.New("extraction finished but every frame was refused by the encoder")
		}
		return err
	}

	fmt.Println(outPath)
	return nil
}

func loadPreferences(cfg *config.Config, log *zap.Logger) (port.Preferences, *prefs.FileStore, error) {
	path := cfg.PrefsPath
	if path == "" {
		var err error
		path, err = prefs.DefaultPath()
		if err != nil {
			return port.Preferences{}, nil, err
		}
	}

	store := prefs.NewFileStore(path)
	p, err := store.Load()
	if err != nil {
		// A broken prefs file degrades to defaults rather than blocking.
		log.Warn("preferences unreadable, using defaults", zap.Error(err))
	}
	return p, store, nil
}

func videoArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", cli.Exit("exactly one video file argument is required", 2)
	}
	return cmd.Args().First(), nil
}

func outputDir(cmd *cli.Command, cfg *config.Config) string {
	if cmd.IsSet("output") {
		return cmd.String("output")
	}
	return cfg.OutputDir
}

func scaleFraction(percent int) float64 {
	return float64(percent) / 100
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
