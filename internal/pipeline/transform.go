package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"

	"github.com/backmassage/samplenorm/internal/config"
	"github.com/backmassage/samplenorm/internal/naming"
)

// tempPath returns the conversion scratch file for path, in the same
// directory as the final file so the install rename never crosses a
// filesystem boundary.
func tempPath(path string) string {
	stem := naming.Normalize(naming.Stem(filepath.Base(path)))
	return filepath.Join(filepath.Dir(path), "_tmp_"+stem+config.CanonicalExt)
}

// renameOnly moves path to final within the same directory. An existing
// different file at final is a failure, not something to overwrite.
func renameOnly(path, final string) error {
	if collided(path, final) {
		return fmt.Errorf("rename target %s already exists", filepath.Base(final))
	}
	if err := os.Rename(path, final); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// convert re-encodes path into the canonical format at final. The original
// is never deleted before its replacement is verified and installed:
//
//  1. encode to a temp file beside the original
//  2. verify the temp file is a well-formed canonical WAV
//  3. rename temp onto final (atomic overwrite when final is the original)
//  4. only then remove the original, when it is a distinct file
//
// At every observable instant at least one full copy of the audio exists on
// disk. A failed encode removes the temp file and leaves the original
// untouched.
func convert(ctx context.Context, codec Codec, path, final string) error {
	if path != final && collided(path, final) {
		return fmt.Errorf("conversion target %s already exists", filepath.Base(final))
	}

	tmp := tempPath(path)
	if err := codec.Encode(ctx, path, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := verifyCanonicalWAV(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacement failed verification: %w", err)
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install replacement: %w", err)
	}

	if path != final && !sameFile(path, final) {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("replacement installed but original left behind: %w", err)
		}
	}
	return nil
}

// verifyCanonicalWAV checks that path holds a readable WAV in the canonical
// format before the original may be deleted.
func verifyCanonicalWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", filepath.Base(path))
	}
	if d.SampleRate != config.CanonicalSampleRate ||
		int(d.BitDepth) != config.CanonicalBitDepth ||
		int(d.NumChans) != config.CanonicalChannels {
		return fmt.Errorf("%s is %d Hz %d-bit %d-channel, want %d Hz %d-bit %d-channel",
			filepath.Base(path), d.SampleRate, d.BitDepth, d.NumChans,
			config.CanonicalSampleRate, config.CanonicalBitDepth, config.CanonicalChannels)
	}
	return nil
}

// sameFile reports whether two paths resolve to the same file, as happens
// for case-only renames on case-insensitive filesystems.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
