package fsb5

// Stream mode word layout, least significant bit first:
//
//	hasChunks:1 sampleRate:4 channels:2 dataOffset:27 numSamples:30
const (
	modeHasChunksBits  = 1
	modeSampleRateBits = 4
	modeChannelsBits   = 2
	modeDataOffsetBits = 27
	modeNumSamplesBits = 30

	modeSampleRateShift = modeHasChunksBits
	modeChannelsShift   = modeSampleRateShift + modeSampleRateBits
	modeDataOffsetShift = modeChannelsShift + modeChannelsBits
	modeNumSamplesShift = modeDataOffsetShift + modeDataOffsetBits
)

// Chunk flag word layout, least significant bit first:
//
//	more:1 size:24 kind:7
const (
	chunkMoreBits = 1
	chunkSizeBits = 24
	chunkKindBits = 7

	chunkSizeShift = chunkMoreBits
	chunkKindShift = chunkSizeShift + chunkSizeBits
)

// dataOffsetUnit is the granularity of the packed data offset.
const dataOffsetUnit = 32

type streamMode uint64

func (m streamMode) field(shift, bits uint) uint64 {
	return uint64(m) >> shift & (1<<bits - 1)
}

func (m streamMode) hasChunks() bool { return m.field(0, modeHasChunksBits) == 1 }

func (m streamMode) sampleRateFlag() uint8 {
	return uint8(m.field(modeSampleRateShift, modeSampleRateBits))
}

func (m streamMode) channelsFlag() uint8 {
	return uint8(m.field(modeChannelsShift, modeChannelsBits))
}

// dataOffset is the raw field; multiply by dataOffsetUnit for bytes.
func (m streamMode) dataOffset() uint32 {
	return uint32(m.field(modeDataOffsetShift, modeDataOffsetBits))
}

func (m streamMode) numSamples() uint32 {
	return uint32(m.field(modeNumSamplesShift, modeNumSamplesBits))
}

type chunkFlags uint32

func (c chunkFlags) field(shift, bits uint) uint32 {
	return uint32(c) >> shift & (1<<bits - 1)
}

func (c chunkFlags) more() bool { return c.field(0, chunkMoreBits) == 1 }

func (c chunkFlags) size() uint32 { return c.field(chunkSizeShift, chunkSizeBits) }

func (c chunkFlags) kind() uint8 { return uint8(c.field(chunkKindShift, chunkKindBits)) }
