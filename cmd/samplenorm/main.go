// Command samplenorm normalizes a folder of audio samples in place: it
// lowercases and underscores every directory and file name, and re-encodes
// every audio file to 44100 Hz, 16-bit, stereo WAV via ffmpeg.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "samplenorm: %v\n", err)
		os.Exit(1)
	}
}
