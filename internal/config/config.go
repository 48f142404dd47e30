// Package config holds runtime configuration: defaults, the optional TOML
// settings file, and validation. The canonical output format and the audio
// extension set are fixed constants, not configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Canonical output format. Every converted file ends up exactly here.
const (
	CanonicalSampleRate = 44100
	CanonicalBitDepth   = 16
	CanonicalChannels   = 2
	CanonicalExt        = ".wav"
)

// Reserved filenames inside the target folder. Both are excluded from
// audio discovery.
const (
	ReportFileName = "processing_log.txt"
	LockFileName   = ".samplenorm.lock"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a TOML file by [LoadFile], and then mutated by
// the CLI layer before being passed (by pointer) to packages that need it.
type Config struct {
	// Target (set from the positional arg).
	TargetDir string `toml:"-"`

	// Behavior flags.
	DryRun    bool `toml:"-"` // Preview only, zero mutation of files or directories.
	Force     bool `toml:"-"` // Skip the backup confirmation prompt.
	CheckOnly bool `toml:"-"` // Run --check diagnostics and exit.

	// External codec timeouts, in seconds.
	ProbeTimeoutSec  int `toml:"probe_timeout_seconds"`  // Default: 5.
	EncodeTimeoutSec int `toml:"encode_timeout_seconds"` // Default: 30.

	// Display and logging.
	Verbose   bool      `toml:"verbose"`
	ColorMode ColorMode `toml:"color"`    // Default: "auto".
	LogFile   string    `toml:"log_file"` // Optional console-log mirror.
}

// DefaultConfig returns a Config with the defaults matching the legacy
// sample-processor script. Used as the base before the TOML file and CLI
// flags apply overrides.
func DefaultConfig() Config {
	return Config{
		ProbeTimeoutSec:  5,
		EncodeTimeoutSec: 30,
		ColorMode:        ColorAuto,
	}
}

// ProbeTimeout returns the ffprobe deadline as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSec) * time.Second
}

// EncodeTimeout returns the ffmpeg encode deadline as a duration.
func (c *Config) EncodeTimeout() time.Duration {
	return time.Duration(c.EncodeTimeoutSec) * time.Second
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks timeouts and enum fields. When not in CheckOnly mode it
// also requires a target directory argument.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ProbeTimeoutSec, validation.Required, validation.Min(1)),
		validation.Field(&c.EncodeTimeoutSec, validation.Required, validation.Min(1)),
		validation.Field(&c.ColorMode, validation.Required,
			validation.In(ColorAuto, ColorAlways, ColorNever)),
	); err != nil {
		return err
	}

	if c.CheckOnly {
		return nil
	}
	if c.TargetDir == "" {
		return errors.New("need a target folder")
	}
	return nil
}

// ValidateTarget checks that the target path exists and is a directory.
func (c *Config) ValidateTarget() error {
	fi, err := os.Stat(c.TargetDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("folder %q does not exist", c.TargetDir)
		}
		return fmt.Errorf("cannot access %q: %w", c.TargetDir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%q is not a directory", c.TargetDir)
	}
	return nil
}
