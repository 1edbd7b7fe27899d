package fsb5

import (
	"bytes"
	"io"

	"github.com/go-audio/audio"
)

// streamMeta is what LazyStream and Stream share: the stream's place in the
// bank and its parsed header.
type streamMeta struct {
	index  int
	format AudioFormat
	flags  uint32
	info   *StreamInfo
}

// Index returns the position of the stream in the bank.
func (m *streamMeta) Index() int { return m.index }

// Format returns the audio format of the stream.
func (m *streamMeta) Format() AudioFormat { return m.format }

// Info returns a copy of the parsed stream header.
func (m *streamMeta) Info() StreamInfo { return *m.info }

// SampleRate returns the sample rate in Hz.
func (m *streamMeta) SampleRate() uint32 { return m.info.SampleRate }

// Channels returns the number of interleaved channels.
func (m *streamMeta) Channels() uint16 { return m.info.Channels }

// NumSamples returns the number of samples per channel.
func (m *streamMeta) NumSamples() uint32 { return m.info.NumSamples }

// Size returns the byte length of the stream data.
func (m *streamMeta) Size() uint32 { return m.info.Size }

// Loop returns the loop region, or nil.
func (m *streamMeta) Loop() *Loop { return m.info.Loop }

// Name returns the stream name, if the bank has a name table.
func (m *streamMeta) Name() (string, bool) { return m.info.Name() }

// LazyStream is a stream whose data has not been read yet. It is only valid
// inside the Bank.ReadStreams callback that received it.
type LazyStream struct {
	streamMeta
	br *byteReader
}

// Reader returns the stream data. It reports io.EOF at the end of the
// stream's segment.
func (s *LazyStream) Reader() io.Reader { return s.br }

// Encode writes the stream in the natural container for its format: WAVE
// for PCM and Ogg for Vorbis.
func (s *LazyStream) Encode(w io.Writer, opts *EncodeOptions) error {
	return s.encodeTo(containerAuto, s.br, w, opts)
}

// WriteWAV writes a PCM stream as a WAVE file.
func (s *LazyStream) WriteWAV(w io.Writer) error {
	return s.encodeTo(containerWAV, s.br, w, nil)
}

// WriteOgg rebuilds a Vorbis stream as an Ogg Vorbis file.
func (s *LazyStream) WriteOgg(w io.Writer, setups VorbisSetupSource) error {
	return s.encodeTo(containerOgg, s.br, w, &EncodeOptions{VorbisSetups: setups})
}

// Stream is a stream whose data has been read into memory.
type Stream struct {
	streamMeta
	data []byte
}

// Data returns the raw stream data.
func (s *Stream) Data() []byte { return s.data }

func (s *Stream) source() *byteReader {
	return newByteReader(bytes.NewReader(s.data))
}

// Encode writes the stream in the natural container for its format: WAVE
// for PCM and Ogg for Vorbis.
func (s *Stream) Encode(w io.Writer, opts *EncodeOptions) error {
	return s.encodeTo(containerAuto, s.source(), w, opts)
}

// WriteWAV writes a PCM stream as a WAVE file.
func (s *Stream) WriteWAV(w io.Writer) error {
	return s.encodeTo(containerWAV, s.source(), w, nil)
}

// WriteOgg rebuilds a Vorbis stream as an Ogg Vorbis file.
func (s *Stream) WriteOgg(w io.Writer, setups VorbisSetupSource) error {
	return s.encodeTo(containerOgg, s.source(), w, &EncodeOptions{VorbisSetups: setups})
}

// PCMBuffer decodes a PCM stream into integer samples. Float samples are
// scaled to 32-bit integers.
func (s *Stream) PCMBuffer() (*audio.IntBuffer, error) {
	layout, ok := pcmLayoutFor(s.format, s.flags)
	if !ok {
		return nil, &EncodeError{Format: s.format, Err: ErrUnsupportedFormat}
	}

	buf, err := layout.decode(s.data, int(s.info.Channels), int(s.info.SampleRate))
	if err != nil {
		return nil, &EncodeError{Format: s.format, Err: err}
	}

	return buf, nil
}

// WriteAIFF writes a PCM stream as an AIFF file.
func (s *Stream) WriteAIFF(w io.WriteSeeker) error {
	buf, err := s.PCMBuffer()
	if err != nil {
		return err
	}

	if err := writeAIFF(w, buf); err != nil {
		return &EncodeError{Format: s.format, Err: err}
	}

	return nil
}
