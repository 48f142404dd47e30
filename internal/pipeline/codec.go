package pipeline

import (
	"context"

	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/ffmpeg"
	"github.com/backmassage/samplenorm/internal/probe"
)

// Codec is the external audio utility the pipeline depends on. The
// production implementation shells out to ffprobe/ffmpeg; tests inject
// doubles to simulate failures and timeouts deterministically.
type Codec interface {
	// Probe reports the encoded format of the first audio stream.
	Probe(ctx context.Context, path string) (*probe.AudioInfo, error)
	// Encode writes input re-encoded to the canonical format at output.
	Encode(ctx context.Context, input, output string) error
}

type toolCodec struct {
	cfg *config.Config
}

// NewCodec returns the ffprobe/ffmpeg-backed Codec, with the configured
// per-call timeouts applied.
func NewCodec(cfg *config.Config) Codec {
	return &toolCodec{cfg: cfg}
}

func (c *toolCodec) Probe(ctx context.Context, path string) (*probe.AudioInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout())
	defer cancel()
	return probe.Probe(ctx, path)
}

func (c *toolCodec) Encode(ctx context.Context, input, output string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.EncodeTimeout())
	defer cancel()
	return ffmpeg.Encode(ctx, ffmpeg.BuildArgs(c.cfg, input, output))
}
