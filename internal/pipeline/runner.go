// Package pipeline orchestrates the two-phase normalization run: bottom-up
// directory renaming, then per-file probe, decide, and transform in
// inventory order.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/display"
	"github.com/backmassage/samplenorm/internal/logging"
	"github.com/backmassage/samplenorm/internal/naming"
	"github.com/backmassage/samplenorm/internal/probe"
	"github.com/backmassage/samplenorm/internal/report"
)

// Run drives a full normalization pass. Phase 1 (directory renaming) runs
// to completion before Phase 2 discovery, so candidate paths reflect final
// directory names. Per-item failures never abort the run; only the caller's
// pre-flight can. Cancelling ctx stops the run between files.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, codec Codec, rep *report.Report) RunStats {
	var stats RunStats

	stats.DirsRenamed = RenameDirectories(cfg, log, rep)

	log.Info("Phase 2: Processing audio files...")
	files, err := Discover(cfg.TargetDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		rep.BeginFilePhase(0)
		rep.Summary(0, 0, 0, 0, 0)
		return stats
	}

	stats.Total = len(files)
	rep.BeginFilePhase(stats.Total)
	log.Info("  Found %d audio files to process", stats.Total)

	for i, path := range files {
		stats.Current = i + 1
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		processFile(ctx, cfg, log, codec, rep, path, &stats)
	}

	rep.Summary(stats.Processed, stats.Total, stats.Converted, stats.Renamed, stats.Failed)
	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one candidate: revalidate -> probe -> decide ->
// apply (or preview). Steady-state files produce no output at all.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	codec Codec,
	rep *report.Report,
	path string,
	stats *RunStats,
) {
	base := filepath.Base(path)

	// Revalidate at point of use: a prior step may have renamed an ancestor
	// or replaced this file already. Not an error.
	fi, err := os.Stat(path)
	if err != nil {
		log.Debug("Skipping vanished path: %s", path)
		return
	}

	// Only canonical-container files are probed; every other container
	// converts unconditionally. A probe failure leaves format nil, which
	// Decide treats as "conversion needed".
	var format *probe.AudioInfo
	if naming.Ext(base) == config.CanonicalExt {
		format, err = codec.Probe(ctx, path)
		if err != nil {
			log.Debug("Probe failed for %s: %v (assuming conversion needed)", base, err)
		}
	}

	action := Decide(base, format)
	if action == ActionNone {
		return
	}

	rel := relTo(cfg.TargetDir, path)
	finalName := naming.TargetName(base)

	log.Info("[%d/%d] %s", stats.Current, stats.Total, rel)
	rep.FileStart(stats.Current, stats.Total, rel)
	if format != nil && action.NeedsConvert() {
		log.Info("  Format: %d Hz, %d-bit (needs conversion)", format.SampleRate, format.BitsPerSample)
	}

	if cfg.DryRun {
		rep.FileWould(action.String(), finalName)
		log.Success("  [DRY] Would %s -> %s", action, finalName)
		applyCounters(stats, action, 0, 0)
		return
	}

	final := filepath.Join(filepath.Dir(path), finalName)

	if action.NeedsConvert() {
		if err := convert(ctx, codec, path, final); err != nil {
			log.Error("  Conversion failed: %v", err)
			rep.FileError(err)
			stats.Failed++
			return
		}
		var outSize int64
		if outInfo, err := os.Stat(final); err == nil {
			outSize = outInfo.Size()
		}
		applyCounters(stats, action, fi.Size(), outSize)
		rep.FileSuccess("Converted", finalName)
		log.Success("  Converted to %s", finalName)
		return
	}

	if err := renameOnly(path, final); err != nil {
		log.Error("  Rename failed: %v", err)
		rep.FileError(err)
		stats.Failed++
		return
	}
	applyCounters(stats, action, 0, 0)
	rep.FileSuccess("Renamed", finalName)
	log.Success("  Renamed to %s", finalName)
}

// applyCounters updates the run counters for one applied (or previewed)
// action. Processed increments once per file regardless of how many actions
// applied.
func applyCounters(stats *RunStats, action Action, inBytes, outBytes int64) {
	if action.NeedsRename() {
		stats.Renamed++
	}
	if action.NeedsConvert() {
		stats.Converted++
	}
	stats.Processed++
	stats.TotalInputBytes += inBytes
	stats.TotalOutputBytes += outBytes
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d processed, %d renamed, %d converted, %d failed",
		stats.Processed, stats.Renamed, stats.Converted, stats.Failed)
	if cfg.DryRun || stats.Converted == 0 {
		return
	}
	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Info("  Space saved by conversion: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Info("  Converted output is larger by %s",
			display.FormatBytes(-saved))
	}
}
