package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/logging"
	"github.com/backmassage/samplenorm/internal/probe"
	"github.com/backmassage/samplenorm/internal/report"
)

// --- Shared test helpers ---

func newTestConfig(target string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.TargetDir = target
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func newTestReport(t *testing.T, dir string) *report.Report {
	t.Helper()
	r, err := report.Create(filepath.Join(dir, config.ReportFileName), "LIVE", "test-run", dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mkdirAll(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeWAV writes a short PCM WAV file with the given format.
func writeWAV(path string, rate, bits, chans int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bits, chans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: rate},
		Data:           make([]int, 64*chans),
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func writeWAVT(t *testing.T, path string, rate, bits, chans int) {
	t.Helper()
	if err := writeWAV(path, rate, bits, chans); err != nil {
		t.Fatal(err)
	}
}

// fakeCodec is the test double for the external ffprobe/ffmpeg pair.
// Probe answers from the formats map by basename (missing entries fail);
// Encode writes a canonical WAV unless overridden.
type fakeCodec struct {
	formats   map[string]*probe.AudioInfo
	encodeErr map[string]error
	onEncode  func(input, output string) error
	encoded   []string
}

func (f *fakeCodec) Probe(_ context.Context, path string) (*probe.AudioInfo, error) {
	if info, ok := f.formats[filepath.Base(path)]; ok {
		return info, nil
	}
	return nil, errors.New("probe failed")
}

func (f *fakeCodec) Encode(_ context.Context, input, output string) error {
	f.encoded = append(f.encoded, filepath.Base(input))
	if f.onEncode != nil {
		return f.onEncode(input, output)
	}
	if err := f.encodeErr[filepath.Base(input)]; err != nil {
		return err
	}
	return writeWAV(output, config.CanonicalSampleRate, config.CanonicalBitDepth, config.CanonicalChannels)
}

func canonicalInfo() *probe.AudioInfo {
	return &probe.AudioInfo{
		Codec:         "pcm_s16le",
		SampleRate:    config.CanonicalSampleRate,
		BitsPerSample: config.CanonicalBitDepth,
		Channels:      config.CanonicalChannels,
	}
}

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "kick.wav")
	touch(t, dir, "snare.aif")
	touch(t, dir, "hat.aiff")
	touch(t, dir, "loop.mp3")
	touch(t, dir, "pad.flac")
	touch(t, dir, "notes.txt")
	touch(t, dir, "cover.jpg")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 5 {
		t.Errorf("got %d files, want 5: %v", len(files), files)
	}
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "KICK.WAV")
	touch(t, dir, "Loop.Mp3")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2 (case-insensitive ext matching)", len(files))
	}
}

func TestDiscover_ExcludesReservedFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "kick.wav")
	touch(t, dir, config.ReportFileName)
	touch(t, dir, config.LockFileName)

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "kick.wav" {
		t.Errorf("got %v, want only kick.wav", files)
	}
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	sub1 := mkdirAll(t, dir, "drums", "kicks")
	sub2 := mkdirAll(t, dir, "drums", "snares")
	touch(t, sub2, "snare01.wav")
	touch(t, sub1, "kick02.wav")
	touch(t, sub1, "kick01.wav")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

// --- End-to-end runner tests ---

func TestRun_SpecScenario(t *testing.T) {
	// My Samples/Kick Drums/Kick One.WAV at 48 kHz/24-bit plus an already
	// canonical snare.wav.
	dir := t.TempDir()
	sub := mkdirAll(t, dir, "My Samples", "Kick Drums")
	writeWAVT(t, filepath.Join(sub, "Kick One.WAV"), 48000, 24, 2)
	writeWAVT(t, filepath.Join(dir, "snare.wav"), 44100, 16, 2)

	codec := &fakeCodec{formats: map[string]*probe.AudioInfo{
		"Kick One.WAV": {Codec: "pcm_s24le", SampleRate: 48000, BitsPerSample: 24, Channels: 2},
		"snare.wav":    canonicalInfo(),
	}}

	cfg := newTestConfig(dir)
	stats := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))

	final := filepath.Join(dir, "my_samples", "kick_drums", "kick_one.wav")
	if _, err := os.Stat(final); err != nil {
		t.Errorf("expected %s to exist: %v", final, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "my_samples", "kick_drums", "Kick One.WAV")); err == nil {
		t.Error("original Kick One.WAV should have been replaced")
	}
	if _, err := os.Stat(filepath.Join(dir, "snare.wav")); err != nil {
		t.Error("canonical snare.wav must be untouched")
	}

	if stats.DirsRenamed != 2 {
		t.Errorf("DirsRenamed = %d, want 2", stats.DirsRenamed)
	}
	if stats.Total != 2 || stats.Processed != 1 ||
		stats.Renamed != 1 || stats.Converted != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	sub := mkdirAll(t, dir, "My Samples")
	writeWAVT(t, filepath.Join(sub, "Kick One.WAV"), 48000, 24, 2)

	codec := &fakeCodec{formats: map[string]*probe.AudioInfo{
		"Kick One.WAV": {SampleRate: 48000, BitsPerSample: 24, Channels: 2},
		"kick_one.wav": canonicalInfo(),
	}}

	cfg := newTestConfig(dir)
	first := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))
	if first.Processed != 1 {
		t.Fatalf("first run stats = %+v", first)
	}

	second := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))
	if second.Processed != 0 || second.Renamed != 0 || second.Converted != 0 ||
		second.Failed != 0 || second.DirsRenamed != 0 {
		t.Errorf("second run should be a no-op, got %+v", second)
	}
	if len(codec.encoded) != 1 {
		t.Errorf("encode invoked %d times, want 1", len(codec.encoded))
	}
}

func TestRun_DryRunMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	sub := mkdirAll(t, dir, "My Samples")
	writeWAVT(t, filepath.Join(sub, "Kick One.WAV"), 48000, 24, 2)
	touch(t, dir, "Hat Loop.mp3")

	codec := &fakeCodec{formats: map[string]*probe.AudioInfo{
		"Kick One.WAV": {SampleRate: 48000, BitsPerSample: 24, Channels: 2},
	}}

	cfg := newTestConfig(dir)
	cfg.DryRun = true
	stats := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))

	if len(codec.encoded) != 0 {
		t.Errorf("dry run must not encode, got %v", codec.encoded)
	}
	if _, err := os.Stat(filepath.Join(sub, "Kick One.WAV")); err != nil {
		t.Error("dry run must not rename or remove files")
	}
	if _, err := os.Stat(filepath.Join(dir, "my_samples")); err == nil {
		t.Error("dry run must not rename directories")
	}
	// The preview still counts what would happen.
	if stats.Processed != 2 || stats.Renamed != 2 || stats.Converted != 2 {
		t.Errorf("preview stats = %+v", stats)
	}
}

func TestRun_PreviewMatchesApply(t *testing.T) {
	build := func(t *testing.T) (string, *fakeCodec) {
		dir := t.TempDir()
		writeWAVT(t, filepath.Join(dir, "Kick One.WAV"), 48000, 24, 2)
		writeWAVT(t, filepath.Join(dir, "snare.wav"), 44100, 16, 2)
		touch(t, dir, "Hat Loop.mp3")
		return dir, &fakeCodec{formats: map[string]*probe.AudioInfo{
			"Kick One.WAV": {SampleRate: 48000, BitsPerSample: 24, Channels: 2},
			"snare.wav":    canonicalInfo(),
		}}
	}

	previewDir, previewCodec := build(t)
	previewCfg := newTestConfig(previewDir)
	previewCfg.DryRun = true
	preview := Run(context.Background(), previewCfg, newTestLogger(t), previewCodec, newTestReport(t, previewDir))

	applyDir, applyCodec := build(t)
	apply := Run(context.Background(), newTestConfig(applyDir), newTestLogger(t), applyCodec, newTestReport(t, applyDir))

	if preview.Processed != apply.Processed ||
		preview.Renamed != apply.Renamed ||
		preview.Converted != apply.Converted {
		t.Errorf("preview %+v does not match apply %+v", preview, apply)
	}
}

func TestRun_ProbeFailureAndEncodeFailure(t *testing.T) {
	// corrupt.wav: probe fails (assume conversion), encode fails too; the
	// original must survive and be counted as failed.
	dir := t.TempDir()
	touch(t, dir, "corrupt.wav")

	codec := &fakeCodec{
		formats:   map[string]*probe.AudioInfo{},
		encodeErr: map[string]error{"corrupt.wav": errors.New("ffmpeg: exit status 1")},
	}

	cfg := newTestConfig(dir)
	stats := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))

	if stats.Failed != 1 || stats.Processed != 0 {
		t.Errorf("stats = %+v, want 1 failed", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "corrupt.wav")); err != nil {
		t.Error("failed conversion must leave the original untouched")
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "corrupt.wav" && e.Name() != config.ReportFileName {
			t.Errorf("unexpected leftover: %s", e.Name())
		}
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	// One failing file must not stop the rest of the inventory.
	dir := t.TempDir()
	touch(t, dir, "bad.mp3")
	touch(t, dir, "Good Loop.mp3")

	codec := &fakeCodec{
		formats:   map[string]*probe.AudioInfo{},
		encodeErr: map[string]error{"bad.mp3": errors.New("ffmpeg: exit status 1")},
	}

	cfg := newTestConfig(dir)
	stats := Run(context.Background(), cfg, newTestLogger(t), codec, newTestReport(t, dir))

	if stats.Failed != 1 || stats.Converted != 1 {
		t.Errorf("stats = %+v, want 1 failed and 1 converted", stats)
	}
	if _, err := os.Stat(filepath.Join(dir, "good_loop.wav")); err != nil {
		t.Error("good_loop.wav should have been produced despite the earlier failure")
	}
}

func TestRun_CancelledContextStopsBetweenFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "One.mp3")
	touch(t, dir, "Two.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	codec := &fakeCodec{formats: map[string]*probe.AudioInfo{}}
	cfg := newTestConfig(dir)
	stats := Run(ctx, cfg, newTestLogger(t), codec, newTestReport(t, dir))

	if len(codec.encoded) != 0 || stats.Processed != 0 {
		t.Errorf("cancelled run should not process files, got %+v", stats)
	}
}
