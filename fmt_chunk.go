package fsb5

// fmtChunkSize is the body size of a plain PCM or IEEE float fmt chunk.
const fmtChunkSize = 16

// fmtChunk is the WAVE fmt chunk body.
type fmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
}

func newFmtChunk(formatTag uint16, numChans, sampleRate, bitDepth int) fmtChunk {
	blockAlign := numChans * bytesPerSample(bitDepth)

	return fmtChunk{
		FormatTag:      formatTag,
		NumChannels:    uint16(numChans),
		SampleRate:     uint32(sampleRate),
		AvgBytesPerSec: uint32(sampleRate * blockAlign),
		BlockAlign:     uint16(blockAlign),
		BitsPerSample:  uint16(bitDepth),
	}
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}
