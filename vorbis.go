package fsb5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"slices"

	"github.com/eaburns/bit"
)

// DefaultVorbisVendor is the vendor string written to rebuilt Ogg Vorbis
// comment headers.
const DefaultVorbisVendor = "fsb5"

// FSB Vorbis streams use fixed block sizes of 256 and 2048 samples.
const (
	vorbisShortBlock = 256
	vorbisLongBlock  = 2048
	// vorbisBlockSizes is the id header byte for the two block sizes:
	// log2(256) in the low nibble and log2(2048) in the high nibble.
	vorbisBlockSizes = 0xb8
)

const (
	vorbisIDPacket      = 1
	vorbisCommentPacket = 3
	vorbisSetupPacket   = 5
	vorbisIDHeaderSize  = 30
)

var vorbisMagic = []byte("vorbis")

// VorbisSetupSource resolves the Vorbis setup header whose CRC-32 is stored
// in an FSB stream. Implementations return an error wrapping
// ErrMissingVorbisSetup for unknown checksums.
type VorbisSetupSource interface {
	VorbisSetup(crc uint32) ([]byte, error)
}

// VorbisErrorKind identifies the stage of Ogg Vorbis rebuilding that failed.
type VorbisErrorKind int

const (
	// VorbisNoChecksum means the stream carries no setup header checksum.
	VorbisNoChecksum VorbisErrorKind = iota
	// VorbisChannelCount means the stream has more than 255 channels.
	VorbisChannelCount
	// VorbisSetupLookup means the setup header source failed.
	VorbisSetupLookup
	// VorbisSetupHeader means the setup header could not be parsed.
	VorbisSetupHeader
	// VorbisReadPacket means an audio packet could not be read.
	VorbisReadPacket
	// VorbisPacketMode means an audio packet names a mode the setup header lacks.
	VorbisPacketMode
	// VorbisWritePage means an Ogg page could not be written.
	VorbisWritePage
)

var vorbisErrorText = map[VorbisErrorKind]string{
	VorbisNoChecksum:   "stream has no Vorbis setup header checksum",
	VorbisChannelCount: "too many channels for a Vorbis stream",
	VorbisSetupLookup:  "failed to look up Vorbis setup header",
	VorbisSetupHeader:  "invalid Vorbis setup header",
	VorbisReadPacket:   "failed to read audio packet from Vorbis stream",
	VorbisPacketMode:   "audio packet uses an unknown Vorbis mode",
	VorbisWritePage:    "failed to write Ogg page",
}

func (k VorbisErrorKind) String() string { return vorbisErrorText[k] }

// VorbisError reports a failure while rebuilding an Ogg Vorbis file. Packet
// is the index of the audio packet involved, or -1.
type VorbisError struct {
	Kind   VorbisErrorKind
	CRC    uint32
	Packet int
	Err    error
}

func (e *VorbisError) Error() string {
	msg := e.Kind.String()

	switch e.Kind {
	case VorbisSetupLookup, VorbisSetupHeader:
		msg = fmt.Sprintf("%s (crc32 %08x)", msg, e.CRC)
	case VorbisReadPacket, VorbisPacketMode:
		if e.Packet >= 0 {
			msg = fmt.Sprintf("%s (packet %d)", msg, e.Packet)
		}
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *VorbisError) Unwrap() error { return e.Err }

var (
	errNotSetupHeader = errors.New("not a Vorbis setup header")
	errNoFramingBit   = errors.New("no framing bit")
	errNoModes        = errors.New("mode configurations not found")
	errTooManyModes   = errors.New("more than 63 modes")
	errNoPackets      = errors.New("stream has no audio packets")
)

// vorbisModes holds the block flag of each mode of a setup header.
type vorbisModes []bool

// parseVorbisModes finds the mode configurations at the end of a setup
// header without decoding the codebooks, floors and residues before them.
// The header is read backwards: after the framing bit each mode is a block
// flag, window type, transform type and mapping, and the two type fields
// are always zero. The scan stops at the first field that can't belong to
// a mode, and the last position where the preceding 6-bit count matched
// wins.
func parseVorbisModes(setup []byte) (vorbisModes, error) {
	if len(setup) < 1+len(vorbisMagic) || setup[0] != vorbisSetupPacket ||
		!bytes.Equal(setup[1:1+len(vorbisMagic)], vorbisMagic) {
		return nil, errNotSetupHeader
	}

	rev := slices.Clone(setup)
	slices.Reverse(rev)

	total := len(rev) * 8
	br := bit.NewReader(bytes.NewReader(rev))
	pos := 0

	framing := 0

	for total-pos > 97 {
		b, err := br.Read(1)
		if err != nil {
			return nil, err
		}

		pos++

		if b == 1 {
			framing = pos
			break
		}
	}

	if framing == 0 {
		return nil, errNoFramingBit
	}

	count, found := 0, 0

	for total-pos >= 97 {
		f, err := br.ReadFields(8, 16, 16, 1)
		if err != nil {
			return nil, err
		}

		pos += 41

		if f[0] > 63 || f[1] != 0 || f[2] != 0 {
			break
		}

		count++
		if count > 64 {
			break
		}

		n, err := readBitsAt(rev, pos, 6)
		if err != nil {
			return nil, err
		}

		if int(n)+1 == count {
			found = count
		}
	}

	switch {
	case found == 0:
		return nil, errNoModes
	case found > 63:
		return nil, errTooManyModes
	}

	br = bit.NewReader(bytes.NewReader(rev))
	if err := skipBits(br, framing); err != nil {
		return nil, err
	}

	modes := make(vorbisModes, found)

	for i := found - 1; i >= 0; i-- {
		f, err := br.ReadFields(8, 16, 16, 1)
		if err != nil {
			return nil, err
		}

		modes[i] = f[3] == 1
	}

	return modes, nil
}

func readBitsAt(p []byte, pos int, n uint) (uint64, error) {
	br := bit.NewReader(bytes.NewReader(p))
	if err := skipBits(br, pos); err != nil {
		return 0, err
	}

	return br.Read(n)
}

func skipBits(br *bit.Reader, n int) error {
	for n > 0 {
		step := min(n, 64)
		if _, err := br.Read(uint(step)); err != nil {
			return err
		}

		n -= step
	}

	return nil
}

// blockSize returns the block size of an audio packet. The mode number
// follows the packet type bit in the first byte.
func (m vorbisModes) blockSize(packet []byte) (int, error) {
	if len(packet) == 0 {
		return 0, errors.New("empty packet")
	}

	modeBits := bits.Len(uint(len(m) - 1))
	mode := int(packet[0]>>1) & (1<<modeBits - 1)

	if mode >= len(m) {
		return 0, fmt.Errorf("mode %d of %d", mode, len(m))
	}

	if m[mode] {
		return vorbisLongBlock, nil
	}

	return vorbisShortBlock, nil
}

func vorbisIDHeader(channels uint8, sampleRate uint32) []byte {
	p := make([]byte, vorbisIDHeaderSize)
	p[0] = vorbisIDPacket
	copy(p[1:], vorbisMagic)
	// version and the three bitrate fields stay zero
	p[11] = channels
	binary.LittleEndian.PutUint32(p[12:], sampleRate)
	p[28] = vorbisBlockSizes
	p[29] = 1

	return p
}

func vorbisCommentHeader(vendor string, comments ...string) []byte {
	p := make([]byte, 0, 1+len(vorbisMagic)+4+len(vendor)+4+1)
	p = append(p, vorbisCommentPacket)
	p = append(p, vorbisMagic...)
	p = binary.LittleEndian.AppendUint32(p, uint32(len(vendor)))
	p = append(p, vendor...)
	p = binary.LittleEndian.AppendUint32(p, uint32(len(comments)))

	for _, c := range comments {
		p = binary.LittleEndian.AppendUint32(p, uint32(len(c)))
		p = append(p, c...)
	}

	return append(p, 1)
}

// writeOggVorbis rebuilds an Ogg Vorbis file from the raw packets of an FSB
// Vorbis stream. FSB drops the three Vorbis headers: the id and comment
// headers are recreated from the stream header and the setup header is
// looked up by its checksum.
func writeOggVorbis(w io.Writer, m *streamMeta, src *byteReader, opts *EncodeOptions) error {
	info := m.info

	crc, ok := info.VorbisSetupChecksum()
	if !ok {
		return &VorbisError{Kind: VorbisNoChecksum, Packet: -1}
	}

	if info.Channels > 255 {
		return &VorbisError{
			Kind:   VorbisChannelCount,
			Packet: -1,
			Err:    fmt.Errorf("%d channels", info.Channels),
		}
	}

	setups := opts.vorbisSetups()
	if setups == nil {
		return &VorbisError{Kind: VorbisSetupLookup, CRC: crc, Packet: -1, Err: ErrMissingVorbisSetup}
	}

	setup, err := setups.VorbisSetup(crc)
	if err != nil {
		return &VorbisError{Kind: VorbisSetupLookup, CRC: crc, Packet: -1, Err: err}
	}

	modes, err := parseVorbisModes(setup)
	if err != nil {
		return &VorbisError{Kind: VorbisSetupHeader, CRC: crc, Packet: -1, Err: err}
	}

	var comments []string
	if name, ok := info.Name(); ok {
		comments = append(comments, "TITLE="+name)
	}

	ogg := newOggPacketWriter(w, uint32(m.index)+1)

	for _, header := range [][]byte{
		vorbisIDHeader(uint8(info.Channels), info.SampleRate),
		vorbisCommentHeader(opts.vendor(), comments...),
		setup,
	} {
		if err := ogg.writePacket(header, 0, false); err != nil {
			return &VorbisError{Kind: VorbisWritePage, Packet: -1, Err: err}
		}
	}

	packets := &vorbisPacketReader{src: src, remaining: int64(info.Size)}

	packet, err := packets.next()
	if err == nil && packet == nil {
		err = errNoPackets
	}

	if err != nil {
		return &VorbisError{Kind: VorbisReadPacket, Packet: 0, Err: err}
	}

	var granule uint64

	prevBlock := 0

	for i := 0; packet != nil; i++ {
		next, err := packets.next()
		if err != nil {
			return &VorbisError{Kind: VorbisReadPacket, Packet: i + 1, Err: err}
		}

		block, err := modes.blockSize(packet)
		if err != nil {
			return &VorbisError{Kind: VorbisPacketMode, Packet: i, Err: err}
		}

		// the first block only primes the overlap
		if prevBlock != 0 {
			granule += uint64(prevBlock+block) / 4
		}

		prevBlock = block

		eos := next == nil
		if eos && info.NumSamples > 0 && granule > uint64(info.NumSamples) {
			granule = uint64(info.NumSamples)
		}

		if err := ogg.writePacket(packet, granule, eos); err != nil {
			return &VorbisError{Kind: VorbisWritePage, Packet: i, Err: err}
		}

		packet = next
	}

	return nil
}

// vorbisPacketReader splits FSB Vorbis data into packets. Each packet is
// stored as a little-endian 16-bit size followed by the packet bytes. A
// zero size or the end of the stream data ends the packets.
type vorbisPacketReader struct {
	src       *byteReader
	remaining int64
}

// next returns nil after the last packet.
func (r *vorbisPacketReader) next() ([]byte, error) {
	if r.remaining < 2 {
		return nil, nil
	}

	size, err := r.src.u16le()
	if err != nil {
		return nil, err
	}

	r.remaining -= 2

	if size == 0 {
		r.remaining = 0
		return nil, nil
	}

	packet, err := r.src.take(int64(size))
	if err != nil {
		return nil, err
	}

	r.remaining -= int64(size)

	return packet, nil
}
