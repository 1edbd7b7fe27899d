package fsb5

import "io"

const (
	headerMagic = "FSB5"

	version0 = 0
	version1 = 1

	// Base header sizes per version. Version 1 carries the encoding flags.
	baseHeaderSizeV0 = 64
	baseHeaderSizeV1 = 60

	maxPreallocStreams = 1024
)

// Header is the parsed bank header. It is not modified after parsing.
type Header struct {
	Version uint32
	Format  AudioFormat
	// Flags are the encoding flags of a version 1 bank. Bit 0 set means
	// 16-bit PCM samples are big-endian.
	Flags   uint32
	Streams []StreamInfo

	// dataOffsets are relative to dataStart, one per stream.
	dataOffsets []uint32
	dataStart   int64
}

// DataStart returns the absolute byte offset of the first stream's data
// segment base.
func (h *Header) DataStart() int64 { return h.dataStart }

// StreamOffset returns the absolute byte offset of the data of stream i.
func (h *Header) StreamOffset(i int) int64 {
	return h.dataStart + int64(h.dataOffsets[i])
}

// ParseHeader parses a bank header from r. It reads exactly up to the end of
// the name table; stream data is left unread.
func ParseHeader(r io.Reader) (*Header, error) {
	return parseHeader(newByteReader(r))
}

func parseHeader(br *byteReader) (*Header, error) {
	magic, err := br.take(int64(len(headerMagic)))
	if err != nil {
		return nil, &HeaderError{Kind: HeaderMagic, Err: err}
	}

	if string(magic) != headerMagic {
		return nil, &HeaderError{Kind: HeaderMagic}
	}

	h := &Header{}

	h.Version, err = br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderVersion, Err: err}
	}

	if h.Version != version0 && h.Version != version1 {
		return nil, &HeaderError{Kind: HeaderUnknownVersion, Value: h.Version}
	}

	numStreams, err := br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderStreamCount, Err: err}
	}

	if numStreams == 0 {
		return nil, &HeaderError{Kind: HeaderZeroStreams}
	}

	streamHeadersSize, err := br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderStreamHeadersSize, Err: err}
	}

	nameTableSize, err := br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderNameTableSize, Err: err}
	}

	totalStreamSize, err := br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderTotalStreamSize, Err: err}
	}

	if totalStreamSize == 0 {
		return nil, &HeaderError{Kind: HeaderZeroTotalStreamSize}
	}

	rawFormat, err := br.u32le()
	if err != nil {
		return nil, &HeaderError{Kind: HeaderAudioFormat, Err: err}
	}

	var ok bool
	if h.Format, ok = parseAudioFormat(rawFormat); !ok {
		return nil, &HeaderError{Kind: HeaderUnknownAudioFormat, Value: rawFormat}
	}

	baseSize := int64(baseHeaderSizeV0)
	if h.Version == version1 {
		if err := br.skip(4); err != nil {
			return nil, &HeaderError{Kind: HeaderEncodingFlags, Err: err}
		}

		if h.Flags, err = br.u32le(); err != nil {
			return nil, &HeaderError{Kind: HeaderEncodingFlags, Err: err}
		}

		baseSize = baseHeaderSizeV1
	}

	if err := br.advanceTo(baseSize); err != nil {
		return nil, &HeaderError{Kind: HeaderMetadata, Err: err}
	}

	// the count is untrusted until every stream header has been read
	prealloc := min(numStreams, maxPreallocStreams)
	builders := make([]streamBuilder, 0, prealloc)
	offsets := make([]uint32, 0, prealloc+1)

	for i := uint32(0); i < numStreams; i++ {
		var b streamBuilder
		if err := parseStreamHeader(br, i, &b); err != nil {
			return nil, &HeaderError{Kind: HeaderStreamHeader, Err: err}
		}

		builders = append(builders, b)
		offsets = append(offsets, b.dataOffset)
	}

	offsets = append(offsets, totalStreamSize)

	sizes, bad, ok := offsetLengths(offsets)
	if !ok {
		return nil, &HeaderError{Kind: HeaderZeroStreamSize, Index: uint32(bad)}
	}

	h.Streams = make([]StreamInfo, len(builders))
	for i := range builders {
		h.Streams[i] = builders[i].build(sizes[i])
	}

	h.dataOffsets = offsets[:len(builders)]

	headerSize := baseSize + int64(streamHeadersSize)
	if br.position() != headerSize {
		return nil, &HeaderError{
			Kind:     HeaderWrongHeaderSize,
			Expected: headerSize,
			Actual:   br.position(),
		}
	}

	if nameTableSize != 0 {
		if err := readNames(br, nameTableSize, h.Streams); err != nil {
			return nil, &HeaderError{Kind: HeaderNameTable, Err: err}
		}
	}

	h.dataStart = headerSize + int64(nameTableSize)

	return h, nil
}

// parseStreamHeader reads one stream mode word and its chunks.
func parseStreamHeader(br *byteReader, index uint32, b *streamBuilder) error {
	word, err := br.u64le()
	if err != nil {
		return &StreamError{Index: index, Kind: StreamMode, Err: err}
	}

	if err := b.decodeMode(index, streamMode(word)); err != nil {
		return err
	}

	if !b.hasChunks {
		return nil
	}

	if err := parseChunks(br, b); err != nil {
		return &StreamError{Index: index, Kind: StreamChunk, Err: err}
	}

	return nil
}

func (b *streamBuilder) decodeMode(index uint32, mode streamMode) error {
	rate, ok := sampleRateFromFlag(mode.sampleRateFlag())
	if !ok {
		return &StreamError{Index: index, Kind: StreamUnknownSampleRate, Flag: mode.sampleRateFlag()}
	}

	if mode.numSamples() == 0 {
		return &StreamError{Index: index, Kind: StreamZeroSamples}
	}

	b.info.SampleRate = rate
	b.info.Channels = channelsFromFlag(mode.channelsFlag())
	b.info.NumSamples = mode.numSamples()
	b.hasChunks = mode.hasChunks()
	b.dataOffset = mode.dataOffset() * dataOffsetUnit

	return nil
}
