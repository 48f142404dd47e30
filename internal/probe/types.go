package probe

// AudioInfo holds the parsed properties of the first audio stream of a file.
type AudioInfo struct {
	Codec         string
	SampleRate    int
	BitsPerSample int
	Channels      int
}
