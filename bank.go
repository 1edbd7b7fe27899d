package fsb5

import (
	"fmt"
	"io"
)

// Bank is a parsed sound bank together with its positioned byte source.
// Streams are read in file order, either lazily with ReadStreams or one at a
// time with NextStream. A Bank is not safe for concurrent use.
type Bank struct {
	header *Header
	br     *byteReader
	next   int
}

// NewBank parses the bank header from r. Stream data is not read until it is
// requested. Wrap slow sources such as files in a bufio.Reader.
func NewBank(r io.Reader) (*Bank, error) {
	br := newByteReader(r)

	h, err := parseHeader(br)
	if err != nil {
		return nil, err
	}

	return &Bank{header: h, br: br}, nil
}

// Header returns the parsed header.
func (b *Bank) Header() *Header { return b.header }

// Format returns the audio format shared by all streams.
func (b *Bank) Format() AudioFormat { return b.header.Format }

// Flags returns the encoding flags.
func (b *Bank) Flags() uint32 { return b.header.Flags }

// NumStreams returns the number of streams in the bank. It is never 0.
func (b *Bank) NumStreams() int { return len(b.header.Streams) }

// StreamDataError reports a failure while reading the data of stream Index,
// or the error returned by a ReadStreams callback for that stream.
type StreamDataError struct {
	Index int
	Err   error
}

func (e *StreamDataError) Error() string {
	return fmt.Sprintf("stream %d: %v", e.Index, e.Err)
}

func (e *StreamDataError) Unwrap() error { return e.Err }

// ReadStreams calls fn for each remaining stream. The LazyStream is only
// valid during the call; its reader is bounded to the stream's data so fn can
// consume as little or as much of it as it likes.
func (b *Bank) ReadStreams(fn func(*LazyStream) error) error {
	for b.next < len(b.header.Streams) {
		i := b.next

		if err := b.seekStream(i); err != nil {
			return &StreamDataError{Index: i, Err: err}
		}

		b.next++

		info := &b.header.Streams[i]
		stream := &LazyStream{
			streamMeta: b.meta(i, info),
			br:         b.br.limit(int64(info.Size)),
		}

		if err := fn(stream); err != nil {
			return &StreamDataError{Index: i, Err: err}
		}
	}

	return nil
}

// NextStream reads the data of the next stream into memory. It returns
// io.EOF once every stream has been read.
func (b *Bank) NextStream() (*Stream, error) {
	if b.next >= len(b.header.Streams) {
		return nil, io.EOF
	}

	i := b.next

	if err := b.seekStream(i); err != nil {
		return nil, &StreamDataError{Index: i, Err: err}
	}

	b.next++

	info := b.header.Streams[i]

	data, err := b.br.take(int64(info.Size))
	if err != nil {
		return nil, &StreamDataError{Index: i, Err: err}
	}

	return &Stream{streamMeta: b.meta(i, &info), data: data}, nil
}

// Streams reads every remaining stream into memory.
func (b *Bank) Streams() ([]*Stream, error) {
	streams := make([]*Stream, 0, len(b.header.Streams)-b.next)

	for {
		s, err := b.NextStream()
		if err == io.EOF {
			return streams, nil
		}

		if err != nil {
			return nil, err
		}

		streams = append(streams, s)
	}
}

func (b *Bank) meta(i int, info *StreamInfo) streamMeta {
	return streamMeta{index: i, format: b.header.Format, flags: b.header.Flags, info: info}
}

func (b *Bank) seekStream(i int) error {
	return b.br.advanceTo(b.header.StreamOffset(i))
}
