package fsb5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"slices"
	"testing"
	"testing/iotest"

	"github.com/cwbudde/fsb5/internal/fsbtest"
	"github.com/go-audio/riff"
)

func memStream(format AudioFormat, flags uint32, info StreamInfo, data []byte) *Stream {
	info.Size = uint32(len(data))

	return &Stream{
		streamMeta: streamMeta{format: format, flags: flags, info: &info},
		data:       data,
	}
}

func encodeWAV(t *testing.T, s *Stream) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := s.WriteWAV(&buf); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	return buf.Bytes()
}

func TestWriteWAVHeader(t *testing.T) {
	s := memStream(FormatPCM16, 0, StreamInfo{SampleRate: 22050, Channels: 2, NumSamples: 2},
		[]byte{1, 0, 2, 0, 3, 0, 4, 0})

	out := encodeWAV(t, s)

	p := riff.New(bytes.NewReader(out))
	if err := p.Parse(); err != nil {
		t.Fatalf("riff parse failed: %v", err)
	}

	if p.WavAudioFormat != wavFormatPCM || p.NumChannels != 2 || p.SampleRate != 22050 ||
		p.BitsPerSample != 16 || p.BlockAlign != 4 || p.AvgBytesPerSec != 88200 {
		t.Fatalf("unexpected fmt chunk %+v", p)
	}

	chunks, err := parseWavChunks(out)
	if err != nil {
		t.Fatal(err)
	}

	if ids := chunkIDs(chunks); !slices.Equal(ids, []string{"fmt ", "LIST", "data"}) {
		t.Fatalf("chunk order %v", ids)
	}

	data, _ := findChunk(chunks, "data")
	if !bytes.Equal(data.data, []byte{1, 0, 2, 0, 3, 0, 4, 0}) {
		t.Fatalf("data %v", data.data)
	}
}

func TestWriteWAVSampleLayouts(t *testing.T) {
	tests := []struct {
		name      string
		format    AudioFormat
		flags     uint32
		in        []byte
		want      []byte
		bits      uint16
		formatTag uint16
	}{
		{
			name:   "pcm8 signed to unsigned",
			format: FormatPCM8,
			in:     []byte{0x00, 0x7f, 0x80, 0xff},
			want:   []byte{0x80, 0xff, 0x00, 0x7f},
			bits:   8, formatTag: wavFormatPCM,
		},
		{
			name:   "pcm16 little-endian",
			format: FormatPCM16,
			in:     []byte{0x01, 0x02, 0x03, 0x04},
			want:   []byte{0x01, 0x02, 0x03, 0x04},
			bits:   16, formatTag: wavFormatPCM,
		},
		{
			name:   "pcm16 big-endian",
			format: FormatPCM16,
			flags:  flagBigEndianPCM,
			in:     []byte{0x01, 0x02, 0x03, 0x04},
			want:   []byte{0x02, 0x01, 0x04, 0x03},
			bits:   16, formatTag: wavFormatPCM,
		},
		{
			name:   "pcm24 ignores the byte order flag",
			format: FormatPCM24,
			flags:  flagBigEndianPCM,
			in:     []byte{1, 2, 3, 4, 5, 6},
			want:   []byte{1, 2, 3, 4, 5, 6},
			bits:   24, formatTag: wavFormatPCM,
		},
		{
			name:   "pcm32",
			format: FormatPCM32,
			in:     []byte{1, 2, 3, 4},
			want:   []byte{1, 2, 3, 4},
			bits:   32, formatTag: wavFormatPCM,
		},
		{
			name:   "float",
			format: FormatPCMFloat,
			in:     binary.LittleEndian.AppendUint32(nil, 0x3f000000),
			want:   binary.LittleEndian.AppendUint32(nil, 0x3f000000),
			bits:   32, formatTag: wavFormatIEEEFloat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slices.Clone(tt.in)
			s := memStream(tt.format, tt.flags, StreamInfo{SampleRate: 8000, Channels: 1, NumSamples: 1}, in)

			chunks, err := parseWavChunks(encodeWAV(t, s))
			if err != nil {
				t.Fatal(err)
			}

			fc, _ := findChunk(chunks, "fmt ")
			if tag := binary.LittleEndian.Uint16(fc.data[0:]); tag != tt.formatTag {
				t.Fatalf("format tag %d, want %d", tag, tt.formatTag)
			}

			if bits := binary.LittleEndian.Uint16(fc.data[14:]); bits != tt.bits {
				t.Fatalf("bits per sample %d, want %d", bits, tt.bits)
			}

			data, _ := findChunk(chunks, "data")
			if !bytes.Equal(data.data, tt.want) {
				t.Fatalf("data %x, want %x", data.data, tt.want)
			}

			if !bytes.Equal(s.Data(), tt.in) {
				t.Fatalf("WriteWAV modified the stream data")
			}
		})
	}
}

func TestWriteWAVLoopAndName(t *testing.T) {
	info := StreamInfo{SampleRate: 48000, Channels: 1, NumSamples: 4, Loop: &Loop{Start: 1, Length: 2}}
	info.name, info.hasName = "loop me", true

	s := memStream(FormatPCM16, 0, info, make([]byte, 8))

	chunks, err := parseWavChunks(encodeWAV(t, s))
	if err != nil {
		t.Fatal(err)
	}

	if ids := chunkIDs(chunks); !slices.Equal(ids, []string{"fmt ", "smpl", "LIST", "data"}) {
		t.Fatalf("chunk order %v", ids)
	}

	smpl, _ := findChunk(chunks, "smpl")

	var sampler samplerInfo

	var loop sampleLoop
	r := bytes.NewReader(smpl.data)
	if err := binary.Read(r, binary.LittleEndian, &sampler); err != nil {
		t.Fatal(err)
	}

	if err := binary.Read(r, binary.LittleEndian, &loop); err != nil {
		t.Fatal(err)
	}

	if sampler.NumSampleLoops != 1 || sampler.SamplePeriod != 20833 || sampler.MIDIUnityNote != 60 {
		t.Fatalf("sampler info %+v", sampler)
	}

	if loop.Start != 1 || loop.End != 3 || loop.Type != 0 {
		t.Fatalf("loop %+v", loop)
	}

	list, _ := findChunk(chunks, "LIST")
	if !bytes.HasPrefix(list.data, []byte("INFO")) ||
		!bytes.Contains(list.data, []byte("INAM\x08\x00\x00\x00loop me\x00")) ||
		!bytes.Contains(list.data, []byte("ISFT\x05\x00\x00\x00fsb5\x00\x00")) {
		t.Fatalf("LIST chunk %q", list.data)
	}
}

func TestWriteWAVOddDataIsPadded(t *testing.T) {
	s := memStream(FormatPCM8, 0, StreamInfo{SampleRate: 8000, Channels: 1, NumSamples: 3}, []byte{1, 2, 3})

	out := encodeWAV(t, s)
	if len(out)%2 != 0 {
		t.Fatalf("file length %d is odd", len(out))
	}

	chunks, err := parseWavChunks(out)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := findChunk(chunks, "data")
	if data.size != 3 {
		t.Fatalf("data size %d, want 3", data.size)
	}
}

func TestWriteWAVLargeStream(t *testing.T) {
	in := make([]byte, 3*pcmCopyBufferSize+6)
	for i := range in {
		in[i] = byte(i)
	}

	s := memStream(FormatPCM24, 0, StreamInfo{SampleRate: 44100, Channels: 2, NumSamples: 1}, in)

	chunks, err := parseWavChunks(encodeWAV(t, s))
	if err != nil {
		t.Fatal(err)
	}

	data, _ := findChunk(chunks, "data")
	if !bytes.Equal(data.data, in) {
		t.Fatal("data differs from the stream")
	}
}

func TestWriteWAVErrors(t *testing.T) {
	info := StreamInfo{SampleRate: 8000, Channels: 1, NumSamples: 1}

	var buf bytes.Buffer

	err := memStream(FormatVorbis, 0, info, []byte{1}).WriteWAV(&buf)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	var eerr *EncodeError
	if !errors.As(err, &eerr) || eerr.Format != FormatVorbis {
		t.Fatalf("expected EncodeError for Vorbis, got %v", err)
	}

	boom := errors.New("disk full")

	err = memStream(FormatPCM16, 0, info, []byte{1, 2}).WriteWAV(&failWriter{err: boom})

	var perr *PCMError
	if !errors.As(err, &perr) || perr.Kind != PCMHeader || !errors.Is(err, boom) {
		t.Fatalf("expected header write error, got %v", err)
	}

	err = memStream(FormatPCM16, 0, info, []byte{1, 2}).WriteWAV(&failWriter{after: 70, err: boom})
	if !errors.As(err, &perr) || perr.Kind != PCMWriteSamples || !errors.Is(err, boom) {
		t.Fatalf("expected sample write error, got %v", err)
	}
}

type failWriter struct {
	after int
	err   error
}

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) > w.after {
		n := w.after
		w.after = 0

		return n, w.err
	}

	w.after -= len(p)

	return len(p), nil
}

func TestLazyStreamWriteWAV(t *testing.T) {
	bank := &fsbtest.Bank{
		Format: uint32(FormatPCM16),
		Streams: []fsbtest.Stream{
			{RateFlag: fsbtest.Rate44100, NumSamples: 2, Data: []byte{1, 0, 2, 0}},
		},
	}

	data := bank.Bytes()

	b, err := NewBank(iotest.OneByteReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	err = b.ReadStreams(func(s *LazyStream) error {
		return s.Encode(&out, nil)
	})
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := parseWavChunks(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if d, _ := findChunk(chunks, "data"); !bytes.Equal(d.data, []byte{1, 0, 2, 0}) {
		t.Fatalf("data %v", d.data)
	}

	// the same bank cut short fails while copying samples
	b, err = NewBank(bytes.NewReader(data[:len(data)-1]))
	if err != nil {
		t.Fatal(err)
	}

	err = b.ReadStreams(func(s *LazyStream) error {
		return s.WriteWAV(&out)
	})

	var perr *PCMError
	if !errors.As(err, &perr) || perr.Kind != PCMReadSamples || !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected incomplete sample read, got %v", err)
	}
}
