package fsb5

import (
	"bytes"
	"unicode/utf8"
)

// readNames reads the name table that starts at the current position and
// assigns one name to each stream. tableSize bounds the last name.
func readNames(br *byteReader, tableSize uint32, streams []StreamInfo) error {
	start := br.position()

	offsets := make([]uint32, 0, len(streams)+1)
	for i := range streams {
		off, err := br.u32le()
		if err != nil {
			return &NameError{Index: uint32(i), Kind: NameOffset, Err: err}
		}

		offsets = append(offsets, off)
	}

	offsets = append(offsets, tableSize)

	lengths, bad, ok := offsetLengths(offsets)
	if !ok {
		return &NameError{Index: uint32(bad), Kind: NameZeroLength}
	}

	for i, n := range lengths {
		if err := br.advanceTo(start + int64(offsets[i])); err != nil {
			return &NameError{Index: uint32(i), Kind: NameOffset, Err: err}
		}

		raw, err := br.take(int64(n))
		if err != nil {
			return &NameError{Index: uint32(i), Kind: NameRead, Err: err}
		}

		end := bytes.IndexByte(raw, 0)
		if end < 0 {
			return &NameError{Index: uint32(i), Kind: NameMissingNul}
		}

		if !utf8.Valid(raw[:end]) {
			return &NameError{Index: uint32(i), Kind: NameUTF8}
		}

		streams[i].name = string(raw[:end])
		streams[i].hasName = true
	}

	return nil
}
