package fsb5

import (
	"bytes"
	"encoding/binary"
)

var (
	// cidList is the chunk ID for a LIST chunk.
	cidList = [4]byte{'L', 'I', 'S', 'T'}
	// cidInfo is the list type of a LIST/INFO chunk.
	cidInfo = []byte{'I', 'N', 'F', 'O'}

	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerINAM = [4]byte{'I', 'N', 'A', 'M'}
	markerISFT = [4]byte{'I', 'S', 'F', 'T'}
)

// encodeInfoChunk builds a LIST/INFO body. Empty values are left out; nil
// is returned when nothing remains.
func encodeInfoChunk(title, software string) []byte {
	buf := bytes.NewBuffer(nil)

	writeSection := func(id [4]byte, val string) {
		if val == "" {
			return
		}

		size := len(val) + 1
		buf.Write(id[:])
		binary.Write(buf, binary.LittleEndian, uint32(size))
		buf.WriteString(val)
		buf.WriteByte(0x00)

		if size%2 == 1 {
			buf.WriteByte(0x00)
		}
	}

	writeSection(markerINAM, title)
	writeSection(markerISFT, software)

	if buf.Len() == 0 {
		return nil
	}

	return append(append([]byte(nil), cidInfo...), buf.Bytes()...)
}

type listChunkEncoder struct{}

func (listChunkEncoder) Encode(e *wavEncoder) (rawChunk, bool) {
	data := encodeInfoChunk(e.Title, e.Software)
	if data == nil {
		return rawChunk{}, false
	}

	return rawChunk{ID: cidList, Data: data}, true
}
