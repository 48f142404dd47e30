package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/samplenorm/internal/check"
	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/display"
	"github.com/backmassage/samplenorm/internal/logging"
	"github.com/backmassage/samplenorm/internal/pipeline"
	"github.com/backmassage/samplenorm/internal/report"
)

// version is injected at build time via -ldflags; plain "go build" keeps
// the default.
var version = "1.0.0-dev"

func newRootCommand() *cobra.Command {
	cfg := config.DefaultConfig()
	var (
		configPath  string
		colorFlag   string
		logFileFlag string
		verboseFlag bool
	)

	cmd := &cobra.Command{
		Use:           "samplenorm <target-folder>",
		Short:         "Normalize a sample library to canonical names and 44.1 kHz/16-bit WAV",
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Defaults, then the TOML file, then explicitly set flags.
			if configPath != "" {
				if err := config.LoadFile(&cfg, configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("color") {
				cfg.ColorMode = config.ColorMode(colorFlag)
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFileFlag
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verboseFlag
			}

			if !cfg.CheckOnly && len(args) == 0 {
				_ = cmd.Usage()
				return errors.New("missing target folder")
			}
			if len(args) == 1 {
				cfg.TargetDir = config.NormalizeDirArg(args[0])
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), &cfg)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&cfg.DryRun, "dry-run", false, "Preview actions without modifying anything")
	fl.BoolVar(&cfg.Force, "force", false, "Skip the backup confirmation prompt")
	fl.BoolVar(&cfg.CheckOnly, "check", false, "Check ffmpeg/ffprobe availability and exit")
	fl.BoolVar(&verboseFlag, "verbose", false, "Enable debug output")
	fl.StringVar(&configPath, "config", "", "Settings file (TOML)")
	fl.StringVar(&colorFlag, "color", string(config.ColorAuto), "Color output: auto, always, never")
	fl.StringVar(&logFileFlag, "log-file", "", "Mirror console output to this file")

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(log) {
			return errors.New("system check failed")
		}
		return nil
	}

	if err := cfg.ValidateTarget(); err != nil {
		return err
	}
	abs, err := filepath.Abs(cfg.TargetDir)
	if err != nil {
		return fmt.Errorf("cannot resolve %q: %w", cfg.TargetDir, err)
	}
	cfg.TargetDir = abs

	// Fail fast before touching any files.
	if err := check.CheckDeps(); err != nil {
		return err
	}

	// One run per target folder at a time.
	lockPath := filepath.Join(abs, config.LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another samplenorm run is active in this folder")
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	// The count is display-only; the authoritative inventory is taken
	// after Phase 1 so candidate paths reflect final directory names.
	found, err := pipeline.Discover(abs)
	if err != nil {
		return fmt.Errorf("scan target: %w", err)
	}

	log.Info("=== samplenorm v%s ===", version)
	log.Info("Target: %s", abs)
	log.Info("Audio files found: %d", len(found))
	if cfg.DryRun {
		log.Warn("DRY RUN - no changes will be made")
	}

	// The pipeline never prompts; the yes/no decision happens here.
	if !cfg.DryRun && !cfg.Force {
		if !confirmBackup(os.Stdin, os.Stdout, abs) {
			fmt.Fprintf(os.Stdout, "Please create a backup first, e.g.: cp -r %q %q\n", abs, abs+"_backup")
			return errors.New("aborted: no backup confirmed")
		}
	}

	mode := "LIVE"
	if cfg.DryRun {
		mode = "DRY RUN"
	}
	rep, err := report.Create(filepath.Join(abs, config.ReportFileName), mode, uuid.NewString(), abs, len(found))
	if err != nil {
		return err
	}

	// Cancel the context on SIGINT/SIGTERM so the pipeline stops between
	// files without leaving partial output.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file...")
		cancel()
	}()

	stats := pipeline.Run(ctx, cfg, log, pipeline.NewCodec(cfg), rep)

	if err := rep.Close(); err != nil {
		log.Warn("Report write failed: %v", err)
	}
	log.Info("Report: %s", rep.Path())

	fmt.Println(display.RenderSummary(display.SummaryCounts{
		Total:     stats.Total,
		Processed: stats.Processed,
		Renamed:   stats.Renamed,
		Converted: stats.Converted,
		Failed:    stats.Failed,
	}))

	if stats.Failed > 0 {
		return fmt.Errorf("%d files failed", stats.Failed)
	}
	return nil
}
