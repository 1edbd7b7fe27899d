package fsb5

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	oggHeaderSize     = 27
	oggMaxSegments    = 255
	oggMaxSegmentSize = 255
	// oggCRCPoly is the generator of the Ogg page checksum. The checksum is
	// not bit-reflected, has a zero initial value and no final XOR.
	oggCRCPoly = 0x04c11db7
)

// Page header type flags.
const (
	oggContinued = 0x01
	oggBOS       = 0x02
	oggEOS       = 0x04
)

// oggNoGranule marks a page on which no packet ends.
const oggNoGranule = ^uint64(0)

var errOggPageAfterEOS = errors.New("ogg page written after end of stream")

var oggCRCTable = makeOggCRCTable()

func makeOggCRCTable() *[256]uint32 {
	var t [256]uint32

	for i := range t {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = r<<1 ^ oggCRCPoly
			} else {
				r <<= 1
			}
		}

		t[i] = r
	}

	return &t
}

func oggCRC(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ oggCRCTable[byte(crc>>24)^b]
	}

	return crc
}

// oggPacketWriter writes one logical Ogg bitstream. Every packet starts on a
// fresh page; packets longer than one page continue on following pages.
type oggPacketWriter struct {
	w      io.Writer
	serial uint32
	seq    uint32

	page  []byte // reused between pages
	begun bool
	ended bool
}

func newOggPacketWriter(w io.Writer, serial uint32) *oggPacketWriter {
	return &oggPacketWriter{w: w, serial: serial}
}

// writePacket writes packet and marks its last page with granule. eos ends
// the logical stream.
func (o *oggPacketWriter) writePacket(packet []byte, granule uint64, eos bool) error {
	if o.ended {
		return errOggPageAfterEOS
	}

	continued := false

	for {
		// a packet whose length is a multiple of 255 ends with a zero
		// lacing value
		segments := len(packet)/oggMaxSegmentSize + 1
		last := segments <= oggMaxSegments

		var body []byte

		if last {
			body = packet
		} else {
			segments = oggMaxSegments
			body = packet[:oggMaxSegments*oggMaxSegmentSize]
		}

		var flags byte
		if continued {
			flags |= oggContinued
		}

		if !o.begun {
			flags |= oggBOS
		}

		pageGranule := oggNoGranule
		if last {
			pageGranule = granule

			if eos {
				flags |= oggEOS
			}
		}

		if err := o.writePage(flags, pageGranule, segments, body); err != nil {
			return err
		}

		if last {
			o.ended = eos
			return nil
		}

		packet = packet[len(body):]
		continued = true
	}
}

func (o *oggPacketWriter) writePage(flags byte, granule uint64, segments int, body []byte) error {
	size := oggHeaderSize + segments + len(body)
	if cap(o.page) < size {
		o.page = make([]byte, size)
	}

	page := o.page[:size]

	copy(page, "OggS")
	page[4] = 0
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:], granule)
	binary.LittleEndian.PutUint32(page[14:], o.serial)
	binary.LittleEndian.PutUint32(page[18:], o.seq)
	binary.LittleEndian.PutUint32(page[22:], 0)
	page[26] = byte(segments)

	lacing := page[oggHeaderSize : oggHeaderSize+segments]
	remaining := len(body)

	for i := range lacing {
		n := min(remaining, oggMaxSegmentSize)
		lacing[i] = byte(n)
		remaining -= n
	}

	copy(page[oggHeaderSize+segments:], body)
	binary.LittleEndian.PutUint32(page[22:], oggCRC(0, page))

	if _, err := o.w.Write(page); err != nil {
		return err
	}

	o.begun = true
	o.seq++

	return nil
}
