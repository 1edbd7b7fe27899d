package fsb5

import "fmt"

// Parse errors are layered. A HeaderError may wrap a StreamError or a
// NameError, a StreamError may wrap a ChunkError, and the innermost error is
// usually a *ReadError holding the byte offset. Use errors.As to reach the
// level you need.

// HeaderErrorKind identifies which part of the bank header failed.
type HeaderErrorKind int

const (
	// HeaderMagic means the file does not start with "FSB5".
	HeaderMagic HeaderErrorKind = iota
	// HeaderVersion means the version field could not be read.
	HeaderVersion
	// HeaderUnknownVersion means the version is neither 0 nor 1.
	HeaderUnknownVersion
	// HeaderStreamCount means the stream count could not be read.
	HeaderStreamCount
	// HeaderZeroStreams means the bank declares no streams.
	HeaderZeroStreams
	// HeaderStreamHeadersSize means the stream headers size could not be read.
	HeaderStreamHeadersSize
	// HeaderNameTableSize means the name table size could not be read.
	HeaderNameTableSize
	// HeaderTotalStreamSize means the total stream data size could not be read.
	HeaderTotalStreamSize
	// HeaderZeroTotalStreamSize means the bank declares no stream data.
	HeaderZeroTotalStreamSize
	// HeaderAudioFormat means the audio format could not be read.
	HeaderAudioFormat
	// HeaderUnknownAudioFormat means the audio format is outside 1..17.
	HeaderUnknownAudioFormat
	// HeaderEncodingFlags means the version 1 encoding flags could not be read.
	HeaderEncodingFlags
	// HeaderMetadata means the rest of the fixed header could not be skipped.
	HeaderMetadata
	// HeaderStreamHeader means a stream header is invalid; Err is a *StreamError.
	HeaderStreamHeader
	// HeaderZeroStreamSize means a stream has no data or the data offsets
	// decrease. Index names the stream.
	HeaderZeroStreamSize
	// HeaderWrongHeaderSize means the stream headers do not end where declared.
	HeaderWrongHeaderSize
	// HeaderNameTable means the name table is invalid; Err is a *NameError.
	HeaderNameTable
)

var headerErrorText = map[HeaderErrorKind]string{
	HeaderMagic:               "missing FSB5 signature",
	HeaderVersion:             "can't read format version",
	HeaderUnknownVersion:      "unknown format version",
	HeaderStreamCount:         "can't read stream count",
	HeaderZeroStreams:         "bank has no streams",
	HeaderStreamHeadersSize:   "can't read stream headers size",
	HeaderNameTableSize:       "can't read name table size",
	HeaderTotalStreamSize:     "can't read total stream data size",
	HeaderZeroTotalStreamSize: "total stream data size is 0",
	HeaderAudioFormat:         "can't read audio format",
	HeaderUnknownAudioFormat:  "unknown audio format",
	HeaderEncodingFlags:       "can't read encoding flags",
	HeaderMetadata:            "can't skip reserved header bytes",
	HeaderStreamHeader:        "invalid stream header",
	HeaderZeroStreamSize:      "stream data size is 0",
	HeaderWrongHeaderSize:     "stream headers size mismatch",
	HeaderNameTable:           "invalid name table",
}

func (k HeaderErrorKind) String() string { return headerErrorText[k] }

// HeaderError reports a failure while parsing the bank header.
type HeaderError struct {
	Kind HeaderErrorKind
	// Value holds the unrecognized version or audio format.
	Value uint32
	// Index is the stream index for HeaderZeroStreamSize.
	Index uint32
	// Expected and Actual are byte counts for HeaderWrongHeaderSize.
	Expected int64
	Actual   int64
	Err      error
}

func (e *HeaderError) Error() string {
	msg := e.Kind.String()

	switch e.Kind {
	case HeaderUnknownVersion, HeaderUnknownAudioFormat:
		msg = fmt.Sprintf("%s (0x%08x)", msg, e.Value)
	case HeaderZeroStreamSize:
		msg = fmt.Sprintf("%s for stream %d", msg, e.Index)
	case HeaderWrongHeaderSize:
		msg = fmt.Sprintf("%s: read %d bytes, expected %d", msg, e.Actual, e.Expected)
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *HeaderError) Unwrap() error { return e.Err }

// StreamErrorKind identifies which part of a stream header failed.
type StreamErrorKind int

const (
	// StreamMode means the mode word could not be read.
	StreamMode StreamErrorKind = iota
	// StreamUnknownSampleRate means the sample rate flag has no known rate.
	StreamUnknownSampleRate
	// StreamZeroSamples means the stream has no samples.
	StreamZeroSamples
	// StreamChunk means a chunk is invalid; Err is a *ChunkError.
	StreamChunk
)

var streamErrorText = map[StreamErrorKind]string{
	StreamMode:              "can't read stream mode",
	StreamUnknownSampleRate: "unknown sample rate flag",
	StreamZeroSamples:       "stream has no samples",
	StreamChunk:             "invalid stream chunk",
}

func (k StreamErrorKind) String() string { return streamErrorText[k] }

// StreamError reports a failure in the header of the stream at Index.
type StreamError struct {
	Index uint32
	Kind  StreamErrorKind
	// Flag is the raw selector for StreamUnknownSampleRate.
	Flag uint8
	Err  error
}

func (e *StreamError) Error() string {
	msg := fmt.Sprintf("stream %d: %s", e.Index, e.Kind)
	if e.Kind == StreamUnknownSampleRate {
		msg = fmt.Sprintf("%s (0x%02x)", msg, e.Flag)
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *StreamError) Unwrap() error { return e.Err }

// ChunkErrorKind identifies which part of a stream chunk failed.
type ChunkErrorKind int

const (
	// ChunkFlag means the chunk word could not be read.
	ChunkFlag ChunkErrorKind = iota
	// ChunkUnknownType means the chunk kind is not known.
	ChunkUnknownType
	// ChunkChannelCount means the channel count could not be read.
	ChunkChannelCount
	// ChunkZeroChannels means the channel count is 0.
	ChunkZeroChannels
	// ChunkSampleRate means the sample rate could not be read.
	ChunkSampleRate
	// ChunkZeroSampleRate means the sample rate is 0.
	ChunkZeroSampleRate
	// ChunkLoopStart means the loop start could not be read.
	ChunkLoopStart
	// ChunkLoopEnd means the loop end could not be read.
	ChunkLoopEnd
	// ChunkZeroLengthLoop means the loop end is not after its start.
	ChunkZeroLengthLoop
	// ChunkDSPCoefficients means the DSP coefficients could not be read.
	ChunkDSPCoefficients
	// ChunkVorbisCRC32 means the Vorbis setup checksum could not be read.
	ChunkVorbisCRC32
	// ChunkVorbisLayerCount means the Vorbis layer count could not be read.
	ChunkVorbisLayerCount
	// ChunkTooManyVorbisLayers means the layer count or the resulting channel count is too large.
	ChunkTooManyVorbisLayers
	// ChunkZeroVorbisLayers means the Vorbis layer count is 0.
	ChunkZeroVorbisLayers
	// ChunkWrongSize means the chunk body does not match its declared size.
	ChunkWrongSize
)

var chunkErrorText = map[ChunkErrorKind]string{
	ChunkFlag:                "can't read chunk flags",
	ChunkUnknownType:         "unknown chunk type",
	ChunkChannelCount:        "can't read channel count",
	ChunkZeroChannels:        "channel count is 0",
	ChunkSampleRate:          "can't read sample rate",
	ChunkZeroSampleRate:      "sample rate is 0",
	ChunkLoopStart:           "can't read loop start",
	ChunkLoopEnd:             "can't read loop end",
	ChunkZeroLengthLoop:      "loop length is 0",
	ChunkDSPCoefficients:     "can't read DSP coefficients",
	ChunkVorbisCRC32:         "can't read Vorbis setup checksum",
	ChunkVorbisLayerCount:    "can't read Vorbis layer count",
	ChunkTooManyVorbisLayers: "too many Vorbis layers",
	ChunkZeroVorbisLayers:    "Vorbis layer count is 0",
	ChunkWrongSize:           "chunk size mismatch",
}

func (k ChunkErrorKind) String() string { return chunkErrorText[k] }

// ChunkError reports a failure in chunk Index of a stream header.
type ChunkError struct {
	Index uint32
	Kind  ChunkErrorKind
	// Flag is the raw type for ChunkUnknownType.
	Flag uint8
	// Layers is the raw count for ChunkTooManyVorbisLayers.
	Layers uint32
	// Expected is the declared size and Actual the bytes consumed, for
	// ChunkWrongSize.
	Expected int64
	Actual   int64
	Err      error
}

func (e *ChunkError) Error() string {
	msg := fmt.Sprintf("chunk %d: %s", e.Index, e.Kind)

	switch e.Kind {
	case ChunkUnknownType:
		msg = fmt.Sprintf("%s (0x%02x)", msg, e.Flag)
	case ChunkTooManyVorbisLayers:
		msg = fmt.Sprintf("%s (%d)", msg, e.Layers)
	case ChunkWrongSize:
		msg = fmt.Sprintf("%s: read %d bytes, declared %d", msg, e.Actual, e.Expected)
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *ChunkError) Unwrap() error { return e.Err }

// NameErrorKind identifies which part of the name table failed.
type NameErrorKind int

const (
	// NameOffset means a name offset could not be read or points backwards.
	NameOffset NameErrorKind = iota
	// NameZeroLength means two names share an offset or offsets decrease.
	NameZeroLength
	// NameRead means the name bytes could not be read.
	NameRead
	// NameMissingNul means the name has no terminating NUL.
	NameMissingNul
	// NameUTF8 means the name is not valid UTF-8.
	NameUTF8
)

var nameErrorText = map[NameErrorKind]string{
	NameOffset:     "can't read name offset",
	NameZeroLength: "name length is 0",
	NameRead:       "can't read name",
	NameMissingNul: "name is not NUL terminated",
	NameUTF8:       "name is not valid UTF-8",
}

func (k NameErrorKind) String() string { return nameErrorText[k] }

// NameError reports a failure reading the name of the stream at Index.
type NameError struct {
	Index uint32
	Kind  NameErrorKind
	Err   error
}

func (e *NameError) Error() string {
	msg := fmt.Sprintf("name %d: %s", e.Index, e.Kind)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *NameError) Unwrap() error { return e.Err }
