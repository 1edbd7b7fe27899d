package fsb5

// rawChunk is a RIFF chunk body ready to be written.
type rawChunk struct {
	ID   [4]byte
	Data []byte
}

// size is the length on disk including the header and the pad byte.
func (c rawChunk) size() int {
	n := 8 + len(c.Data)
	if len(c.Data)%2 == 1 {
		n++
	}

	return n
}
