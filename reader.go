package fsb5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"syscall"
)

// ErrIncomplete matches every ReadError caused by running out of input.
var ErrIncomplete = errors.New("incomplete data")

// ReadErrorKind classifies a ReadError.
type ReadErrorKind int

const (
	// ReadFailure means the underlying reader returned an I/O error.
	ReadFailure ReadErrorKind = iota
	// ReadIncomplete means the input ended before enough bytes were read.
	ReadIncomplete
	// ReadBackward means a caller asked to advance to a position that was
	// already consumed.
	ReadBackward
)

// ReadError is the leaf error of every parse failure. Offset is the byte
// position of the reader when the failure happened.
type ReadError struct {
	Offset int64
	Kind   ReadErrorKind
	// Needed is the number of missing bytes for ReadIncomplete; zero when
	// the amount is unknown.
	Needed int
	// Target is the requested position for ReadBackward.
	Target int64
	Err    error
}

func (e *ReadError) Error() string {
	var msg string

	switch e.Kind {
	case ReadFailure:
		msg = "failed to read data due to I/O error"
	case ReadIncomplete:
		if e.Needed > 0 {
			msg = fmt.Sprintf("incomplete data: needed %d more bytes to read", e.Needed)
		} else {
			msg = "incomplete data"
		}
	case ReadBackward:
		msg = fmt.Sprintf("can't move backward to byte position %d", e.Target)
	}

	msg = fmt.Sprintf("%s - byte position %d", msg, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is reports whether the error is an ErrIncomplete.
func (e *ReadError) Is(target error) bool {
	return target == ErrIncomplete && e.Kind == ReadIncomplete
}

// byteReader is a forward-only, position-tracking reader. It never seeks so
// any io.Reader can back it.
type byteReader struct {
	r   io.Reader
	pos int64
}

func newByteReader(r io.Reader) *byteReader {
	if br, ok := r.(*byteReader); ok {
		return br
	}

	return &byteReader{r: r}
}

// Read implements io.Reader and keeps the position current.
func (b *byteReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.pos += int64(n)

	return n, err
}

func (b *byteReader) position() int64 { return b.pos }

func (b *byteReader) incomplete(needed int) *ReadError {
	return &ReadError{Offset: b.pos, Kind: ReadIncomplete, Needed: needed}
}

// readFull fills buf. Interrupted reads are retried and a read returning
// nothing and no error is treated as the end of the input.
func (b *byteReader) readFull(buf []byte) error {
	n := 0

	for n < len(buf) {
		m, err := b.r.Read(buf[n:])
		n += m
		b.pos += int64(m)

		if err == nil {
			if m == 0 {
				break
			}

			continue
		}

		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case errors.Is(err, io.EOF):
			return b.incompleteAfter(len(buf) - n)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return b.incomplete(0)
		default:
			return &ReadError{Offset: b.pos, Kind: ReadFailure, Err: err}
		}
	}

	return b.incompleteAfter(len(buf) - n)
}

func (b *byteReader) incompleteAfter(missing int) error {
	if missing == 0 {
		return nil
	}

	return b.incomplete(missing)
}

// takeStep is the most take allocates ahead of the data it has read.
const takeStep = 64 << 10

// take reads exactly n bytes. Lengths come from the input, so the buffer
// grows with the data read instead of being allocated up front.
func (b *byteReader) take(n int64) ([]byte, error) {
	if n < 0 {
		return nil, &ReadError{Offset: b.pos, Kind: ReadFailure, Err: fmt.Errorf("negative length %d", n)}
	}

	if n <= takeStep {
		buf := make([]byte, n)
		if err := b.readFull(buf); err != nil {
			return nil, err
		}

		return buf, nil
	}

	buf := make([]byte, 0, takeStep)

	for remaining := n; remaining > 0; {
		step := min(remaining, takeStep)
		start := len(buf)
		buf = append(buf, make([]byte, step)...)

		if err := b.readFull(buf[start:]); err != nil {
			var rerr *ReadError
			if errors.As(err, &rerr) && rerr.Kind == ReadIncomplete && rerr.Needed > 0 {
				rerr.Needed = neededBytes(int64(rerr.Needed) + remaining - step)
			}

			return nil, err
		}

		remaining -= step
	}

	return buf, nil
}

// neededBytes reports 0, meaning unknown, for counts that don't fit an int.
func neededBytes(n int64) int {
	if n > math.MaxInt {
		return 0
	}

	return int(n)
}

func (b *byteReader) u8() (uint8, error) {
	var buf [1]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func (b *byteReader) u16le() (uint16, error) {
	var buf [2]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (b *byteReader) u32le() (uint32, error) {
	var buf [4]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (b *byteReader) u64le() (uint64, error) {
	var buf [8]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (b *byteReader) i16be() (int16, error) {
	var buf [2]byte
	if err := b.readFull(buf[:]); err != nil {
		return 0, err
	}

	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

const skipBufferSize = 4096

// skip discards n bytes by reading them.
func (b *byteReader) skip(n int64) error {
	if n <= 0 {
		return nil
	}

	buf := make([]byte, min(n, skipBufferSize))
	for n > 0 {
		step := min(n, int64(len(buf)))
		if err := b.readFull(buf[:step]); err != nil {
			var rerr *ReadError
			if errors.As(err, &rerr) && rerr.Kind == ReadIncomplete && rerr.Needed > 0 {
				rerr.Needed += int(n - step)
			}

			return err
		}

		n -= step
	}

	return nil
}

// advanceTo skips forward to the absolute position pos.
func (b *byteReader) advanceTo(pos int64) error {
	if pos < b.pos {
		return &ReadError{Offset: b.pos, Kind: ReadBackward, Target: pos}
	}

	return b.skip(pos - b.pos)
}

// limit returns a reader that reports io.EOF after n bytes. Bytes read
// through it advance b as well.
func (b *byteReader) limit(n int64) *byteReader {
	return &byteReader{r: &boundedSource{parent: b, n: n}, pos: b.pos}
}

type boundedSource struct {
	parent *byteReader
	n      int64
}

func (s *boundedSource) Read(p []byte) (int, error) {
	if s.n <= 0 {
		return 0, io.EOF
	}

	if int64(len(p)) > s.n {
		p = p[:s.n]
	}

	n, err := s.parent.r.Read(p)
	s.parent.pos += int64(n)
	s.n -= int64(n)

	return n, err
}
