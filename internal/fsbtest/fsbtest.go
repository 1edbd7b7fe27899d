// Package fsbtest builds FSB5 sound banks in memory for tests.
package fsbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Chunk kinds.
const (
	ChunkChannels          = 1
	ChunkSampleRate        = 2
	ChunkLoop              = 3
	ChunkDSPCoefficients   = 7
	ChunkVorbisSeekTable   = 11
	ChunkVorbisIntraLayers = 14
)

// Sample rate and channel flags of the stream mode word.
const (
	Rate44100 = 8
	Rate48000 = 9
	Mono      = 0
	Stereo    = 1
)

// ModeWord packs a stream mode word. dataOffset is in bytes and must be a
// multiple of 32.
func ModeWord(hasChunks bool, rateFlag, channelsFlag uint8, dataOffset, numSamples uint32) uint64 {
	var w uint64
	if hasChunks {
		w = 1
	}

	w |= uint64(rateFlag&0x0f) << 1
	w |= uint64(channelsFlag&0x03) << 5
	w |= uint64(dataOffset/32&(1<<27-1)) << 7
	w |= uint64(numSamples&(1<<30-1)) << 34

	return w
}

// ChunkWord packs a chunk flag word.
func ChunkWord(more bool, size uint32, kind uint8) uint32 {
	var w uint32
	if more {
		w = 1
	}

	w |= (size & (1<<24 - 1)) << 1
	w |= uint32(kind&0x7f) << 25

	return w
}

// Chunk is one stream header chunk.
type Chunk struct {
	Kind uint8
	Data []byte
}

// U32 returns v as 4 little-endian bytes.
func U32(v ...uint32) []byte {
	var p []byte
	for _, x := range v {
		p = binary.LittleEndian.AppendUint32(p, x)
	}

	return p
}

// Stream is one stream of a Bank.
type Stream struct {
	RateFlag     uint8
	ChannelsFlag uint8
	NumSamples   uint32
	Chunks       []Chunk
	Data         []byte
	Name         string
}

// Bank describes a sound bank to build.
type Bank struct {
	Version uint32
	Format  uint32
	Flags   uint32
	Streams []Stream
	// Names adds a name table built from the stream names.
	Names bool
	// NameTable replaces the generated name table when set.
	NameTable []byte
}

// Bytes encodes the bank. Stream data is aligned to 32 bytes; the padding
// counts towards the size of the preceding stream.
func (b *Bank) Bytes() []byte {
	var headers, data []byte

	for _, s := range b.Streams {
		if rem := len(data) % 32; rem != 0 {
			data = append(data, make([]byte, 32-rem)...)
		}

		mode := ModeWord(len(s.Chunks) > 0, s.RateFlag, s.ChannelsFlag, uint32(len(data)), s.NumSamples)
		headers = binary.LittleEndian.AppendUint64(headers, mode)

		for i, c := range s.Chunks {
			headers = binary.LittleEndian.AppendUint32(headers,
				ChunkWord(i < len(s.Chunks)-1, uint32(len(c.Data)), c.Kind))
			headers = append(headers, c.Data...)
		}

		data = append(data, s.Data...)
	}

	names := b.NameTable
	if names == nil && b.Names {
		names = b.nameTable()
	}

	out := []byte("FSB5")
	out = binary.LittleEndian.AppendUint32(out, b.Version)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.Streams)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(headers)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(names)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = binary.LittleEndian.AppendUint32(out, b.Format)

	if b.Version == 1 {
		out = append(out, 0, 0, 0, 0)
		out = binary.LittleEndian.AppendUint32(out, b.Flags)
	}

	out = append(out, make([]byte, b.BaseHeaderSize()-len(out))...)
	out = append(out, headers...)
	out = append(out, names...)

	return append(out, data...)
}

// BaseHeaderSize returns the size of the fixed header for the bank version.
func (b *Bank) BaseHeaderSize() int {
	if b.Version == 1 {
		return 60
	}

	return 64
}

func (b *Bank) nameTable() []byte {
	var offsets, strs []byte

	base := 4 * len(b.Streams)
	for _, s := range b.Streams {
		offsets = binary.LittleEndian.AppendUint32(offsets, uint32(base+len(strs)))
		strs = append(strs, s.Name...)
		strs = append(strs, 0)
	}

	return append(offsets, strs...)
}

// WriteFile writes the bank to a file in a temporary directory and returns
// its path.
func (b *Bank) WriteFile(t testing.TB, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}

	return path
}
