// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: prints availability of ffmpeg and ffprobe
// and runs a minimal 16-bit PCM encode test. Informational only; it does
// not stop on failure. Returns false if any check failed.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg")
	ok = checkTool(log, "ffprobe") && ok
	ok = checkPCMEncode(log) && ok
	return ok
}

// checkTool verifies the tool is on PATH and logs its version string.
func checkTool(log Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return false
	}
	cmd := exec.Command(name, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// checkPCMEncode runs a minimal sine encode to verify ffmpeg can produce
// 16-bit PCM WAV output.
func checkPCMEncode(log Logger) bool {
	log.Info("Testing 16-bit PCM encode...")
	if runSilent("ffmpeg", pcmTestArgs()...) {
		log.Success("pcm_s16le encode works")
		return true
	}
	log.Error("pcm_s16le test encode failed")
	return false
}

// CheckDeps is the pre-run validation: both ffmpeg and ffprobe must be on
// PATH before the pipeline touches any file. Returns a sentinel error on
// failure.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// pcmTestArgs returns the ffmpeg arguments for a minimal pcm_s16le test
// encode against a generated sine source.
func pcmTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-ar", "44100", "-sample_fmt", "s16", "-ac", "2",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
