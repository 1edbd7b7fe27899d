package fsb5

import "io"

const pcmCopyBufferSize = 32 * 1024

// writeWAV converts a PCM stream to a WAVE file. The source must hold at
// least info.Size bytes.
func writeWAV(w io.Writer, layout pcmLayout, info *StreamInfo, src *byteReader) error {
	enc := newWavEncoder(w, int(info.SampleRate), layout.bitDepth, int(info.Channels),
		int(layout.wavFormatTag()), info.Size)
	enc.Loop = info.Loop

	if name, ok := info.Name(); ok {
		enc.Title = name
	}

	if err := enc.writeHeader(); err != nil {
		return &PCMError{Kind: PCMHeader, Err: err}
	}

	// whole samples per read so toWAV never splits one
	width := layout.width()
	buf := make([]byte, pcmCopyBufferSize-pcmCopyBufferSize%width)

	for remaining := int64(info.Size); remaining > 0; {
		chunk := buf[:min(int64(len(buf)), remaining)]

		if err := src.readFull(chunk); err != nil {
			return &PCMError{Kind: PCMReadSamples, Err: err}
		}

		layout.toWAV(chunk)

		if _, err := enc.Write(chunk); err != nil {
			return &PCMError{Kind: PCMWriteSamples, Err: err}
		}

		remaining -= int64(len(chunk))
	}

	if err := enc.Close(); err != nil {
		return &PCMError{Kind: PCMWriteSamples, Err: err}
	}

	return nil
}
