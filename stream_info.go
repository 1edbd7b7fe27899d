package fsb5

// Loop is a playback loop region of a stream, in stream data units.
type Loop struct {
	Start  uint32
	Length uint32
}

// End returns the first position after the loop.
func (l Loop) End() uint32 { return l.Start + l.Length }

// StreamInfo describes one stream of a bank.
type StreamInfo struct {
	SampleRate uint32
	Channels   uint16
	NumSamples uint32
	// Size is the byte length of the stream data.
	Size uint32
	Loop *Loop
	// DSPCoefficients holds one summed coefficient per channel, only for
	// GC ADPCM streams.
	DSPCoefficients []int16

	vorbisChecksum    uint32
	hasVorbisChecksum bool
	name              string
	hasName           bool
}

// VorbisSetupChecksum returns the checksum of the Vorbis setup header used
// to encode the stream, if the stream carried one.
func (s *StreamInfo) VorbisSetupChecksum() (uint32, bool) {
	return s.vorbisChecksum, s.hasVorbisChecksum
}

// Name returns the stream name from the bank's name table, if present.
func (s *StreamInfo) Name() (string, bool) {
	return s.name, s.hasName
}

// streamBuilder accumulates a stream header while its mode word and chunks
// are parsed. The data offset stays here; only its derived size reaches
// StreamInfo.
type streamBuilder struct {
	info       StreamInfo
	hasChunks  bool
	dataOffset uint32
}

func (b *streamBuilder) setVorbisChecksum(crc uint32) {
	b.info.vorbisChecksum = crc
	b.info.hasVorbisChecksum = true
}

func (b *streamBuilder) build(size uint32) StreamInfo {
	info := b.info
	info.Size = size

	return info
}
