package fsb5

import "math"

type chunkKind uint8

const (
	chunkChannels          chunkKind = 1
	chunkSampleRate        chunkKind = 2
	chunkLoop              chunkKind = 3
	chunkComment           chunkKind = 4
	chunkXMASeekTable      chunkKind = 6
	chunkDSPCoefficients   chunkKind = 7
	chunkATRAC9Config      chunkKind = 9
	chunkXWMAConfig        chunkKind = 10
	chunkVorbisSeekTable   chunkKind = 11
	chunkPeakVolume        chunkKind = 13
	chunkVorbisIntraLayers chunkKind = 14
	chunkOpusDataSize      chunkKind = 15
)

var knownChunkKinds = map[chunkKind]bool{
	chunkChannels:          true,
	chunkSampleRate:        true,
	chunkLoop:              true,
	chunkComment:           true,
	chunkXMASeekTable:      true,
	chunkDSPCoefficients:   true,
	chunkATRAC9Config:      true,
	chunkXWMAConfig:        true,
	chunkVorbisSeekTable:   true,
	chunkPeakVolume:        true,
	chunkVorbisIntraLayers: true,
	chunkOpusDataSize:      true,
}

const (
	dspCoefficientsPerChannel = 16
	// dspChannelTrailer is the rest of a per channel DSP record after the
	// coefficients.
	dspChannelTrailer = 14
	maxVorbisLayers   = 255
)

// parseChunks walks the chunk list following a stream mode word. Every chunk
// ends exactly where its declared size says, whatever its kind consumed.
func parseChunks(br *byteReader, b *streamBuilder) error {
	for index := uint32(0); ; index++ {
		word, err := br.u32le()
		if err != nil {
			return &ChunkError{Index: index, Kind: ChunkFlag, Err: err}
		}

		flags := chunkFlags(word)

		kind := chunkKind(flags.kind())
		if !knownChunkKinds[kind] {
			return &ChunkError{Index: index, Kind: ChunkUnknownType, Flag: uint8(kind)}
		}

		start := br.position()

		if err := parseChunk(br, b, index, kind); err != nil {
			return err
		}

		if err := br.advanceTo(start + int64(flags.size())); err != nil {
			return &ChunkError{
				Index:    index,
				Kind:     ChunkWrongSize,
				Expected: int64(flags.size()),
				Actual:   br.position() - start,
				Err:      err,
			}
		}

		if !flags.more() {
			return nil
		}
	}
}

func parseChunk(br *byteReader, b *streamBuilder, index uint32, kind chunkKind) error {
	chunkErr := func(k ChunkErrorKind, err error) error {
		return &ChunkError{Index: index, Kind: k, Err: err}
	}

	switch kind {
	case chunkChannels:
		channels, err := br.u8()
		if err != nil {
			return chunkErr(ChunkChannelCount, err)
		}

		if channels == 0 {
			return chunkErr(ChunkZeroChannels, nil)
		}

		b.info.Channels = uint16(channels)
	case chunkSampleRate:
		rate, err := br.u32le()
		if err != nil {
			return chunkErr(ChunkSampleRate, err)
		}

		if rate == 0 {
			return chunkErr(ChunkZeroSampleRate, nil)
		}

		b.info.SampleRate = rate
	case chunkLoop:
		start, err := br.u32le()
		if err != nil {
			return chunkErr(ChunkLoopStart, err)
		}

		end, err := br.u32le()
		if err != nil {
			return chunkErr(ChunkLoopEnd, err)
		}

		// an end before the start would wrap around, treat it as empty
		if end <= start {
			return chunkErr(ChunkZeroLengthLoop, nil)
		}

		b.info.Loop = &Loop{Start: start, Length: end - start}
	case chunkDSPCoefficients:
		coeffs := make([]int16, b.info.Channels)

		for ch := range coeffs {
			var sum int16

			for j := 0; j < dspCoefficientsPerChannel; j++ {
				v, err := br.i16be()
				if err != nil {
					return chunkErr(ChunkDSPCoefficients, err)
				}

				sum += v
			}

			if err := br.skip(dspChannelTrailer); err != nil {
				return chunkErr(ChunkDSPCoefficients, err)
			}

			coeffs[ch] = sum
		}

		b.info.DSPCoefficients = coeffs
	case chunkVorbisSeekTable:
		// the seek table that follows the checksum is skipped with the chunk
		crc, err := br.u32le()
		if err != nil {
			return chunkErr(ChunkVorbisCRC32, err)
		}

		b.setVorbisChecksum(crc)
	case chunkVorbisIntraLayers:
		layers, err := br.u32le()
		if err != nil {
			return chunkErr(ChunkVorbisLayerCount, err)
		}

		channels := uint32(b.info.Channels) * layers
		if layers > maxVorbisLayers || channels > math.MaxUint16 {
			return &ChunkError{Index: index, Kind: ChunkTooManyVorbisLayers, Layers: layers}
		}

		if channels == 0 {
			return chunkErr(ChunkZeroVorbisLayers, nil)
		}

		b.info.Channels = uint16(channels)
	}

	return nil
}
