// Package probe inspects a file's encoded audio format via a single
// ffprobe JSON call.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoAudioStream is returned when ffprobe finds no audio stream in the file.
var ErrNoAudioStream = errors.New("no audio stream found")

// Probe runs ffprobe against path and returns the first audio stream's
// format. The caller bounds the call through ctx; on any failure the caller
// must assume the file needs conversion rather than treating it as clean.
func Probe(ctx context.Context, path string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-show_streams",
		"-print_format", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe %q: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into an AudioInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*AudioInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "audio" {
			continue
		}
		return &AudioInfo{
			Codec:         s.CodecName,
			SampleRate:    parseInt(s.SampleRate),
			BitsPerSample: s.BitsPerSample,
			Channels:      s.Channels,
		}, nil
	}
	return nil, ErrNoAudioStream
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`
	CodecType     string `json:"codec_type"`
	SampleRate    string `json:"sample_rate"`
	BitsPerSample int    `json:"bits_per_sample"`
	Channels      int    `json:"channels"`
}

// parseInt handles ffprobe's habit of returning numbers as strings.
func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
