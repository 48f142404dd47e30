package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// maxStderrLen bounds how much ffmpeg stderr is carried into error text.
const maxStderrLen = 200

// Encode runs ffmpeg to write the canonical-format output file. The caller
// bounds the call through ctx; a deadline hit surfaces as an error like any
// other encode failure. Stderr is captured and folded into the returned
// error for the run report.
func Encode(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("ffmpeg: %w", ctx.Err())
	}

	msg := strings.TrimSpace(stderrBuf.String())
	if len(msg) > maxStderrLen {
		msg = msg[:maxStderrLen]
	}
	if msg == "" {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return fmt.Errorf("ffmpeg: %w: %s", err, msg)
}
