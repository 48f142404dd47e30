// Package ffmpeg builds and executes the fixed-format encode command.
package ffmpeg

import (
	"strconv"

	"github.com/backmassage/samplenorm/internal/config"
)

// BuildArgs constructs the complete ffmpeg argument slice for converting
// input to the canonical format at output. The output format is fixed:
// 44100 Hz, signed 16-bit, stereo WAV.
func BuildArgs(cfg *config.Config, input, output string) []string {
	args := make([]string, 0, 16)

	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	if cfg.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	args = append(args,
		"-i", input,
		"-ar", strconv.Itoa(config.CanonicalSampleRate),
		"-sample_fmt", "s16",
		"-ac", strconv.Itoa(config.CanonicalChannels),
		output,
	)

	return args
}
