package fsb5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
)

// encoderSoftware is stored in the ISFT entry of written WAVE files.
const encoderSoftware = "fsb5"

var (
	errNilWriter       = errors.New("can't write to a nil writer")
	errAlreadyWroteHdr = errors.New("already wrote header")
	errHeaderNotDone   = errors.New("header not written")
	errDataOverflow    = errors.New("more data than declared")
	errDataShort       = errors.New("less data than declared")
	errFileTooLarge    = errors.New("file too large for RIFF")
)

// wavEncoder writes a WAVE file whose data size is known before the first
// sample, so the output needs no seeking.
type wavEncoder struct {
	w io.Writer

	SampleRate int
	BitDepth   int
	NumChans   int

	// A number indicating the WAVE format category of the file. PCM = 1,
	// IEEE float = 3.
	WavAudioFormat int
	// DataSize is the exact number of sample bytes that will be written.
	DataSize uint32

	// Loop is written as a smpl chunk.
	Loop *Loop
	// Title and Software are written as a LIST/INFO chunk.
	Title    string
	Software string

	registry *wavChunkRegistry

	WrittenBytes int
	dataWritten  int64
	wroteHeader  bool
}

func newWavEncoder(w io.Writer, sampleRate, bitDepth, numChans, audioFormat int, dataSize uint32) *wavEncoder {
	return &wavEncoder{
		w:              w,
		SampleRate:     sampleRate,
		BitDepth:       bitDepth,
		NumChans:       numChans,
		WavAudioFormat: audioFormat,
		DataSize:       dataSize,
		Software:       encoderSoftware,
		registry:       newDefaultWavChunkRegistry(),
	}
}

// AddLE serializes and adds the passed value using little endian.
func (e *wavEncoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// AddBE serializes and adds the passed value using big endian.
func (e *wavEncoder) AddBE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.BigEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write big endian: %w", err)
	}

	return nil
}

func (e *wavEncoder) writeHeader() error {
	if e.w == nil {
		return errNilWriter
	}

	if e.wroteHeader {
		return errAlreadyWroteHdr
	}

	e.wroteHeader = true

	extra := e.registry.encode(e)

	riffSize := int64(4 + 8 + fmtChunkSize + 8)
	for _, chunk := range extra {
		riffSize += int64(chunk.size())
	}

	riffSize += int64(e.DataSize) + int64(e.DataSize%2)
	if riffSize > math.MaxUint32 {
		return errFileTooLarge
	}

	// riff ID
	err := e.AddLE(riff.RiffID)
	if err != nil {
		return err
	}

	err = e.AddLE(uint32(riffSize))
	if err != nil {
		return err
	}
	// wave headers
	err = e.AddLE(riff.WavFormatID)
	if err != nil {
		return err
	}
	// form
	err = e.AddLE(riff.FmtID)
	if err != nil {
		return err
	}

	err = e.writeFmtChunk()
	if err != nil {
		return err
	}

	for _, chunk := range extra {
		err = e.writeRawChunk(chunk)
		if err != nil {
			return err
		}
	}

	// sound header
	err = e.AddLE(riff.DataFormatID)
	if err != nil {
		return fmt.Errorf("error encoding sound header %w", err)
	}

	err = e.AddLE(e.DataSize)
	if err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	return nil
}

func (e *wavEncoder) writeFmtChunk() error {
	chunk := newFmtChunk(uint16(e.WavAudioFormat), e.NumChans, e.SampleRate, e.BitDepth)

	err := e.AddLE(uint32(fmtChunkSize))
	if err != nil {
		return err
	}

	err = e.AddLE(chunk.FormatTag)
	if err != nil {
		return err
	}

	err = e.AddLE(chunk.NumChannels)
	if err != nil {
		return fmt.Errorf("error encoding the number of channels - %w", err)
	}

	err = e.AddLE(chunk.SampleRate)
	if err != nil {
		return fmt.Errorf("error encoding the sample rate - %w", err)
	}

	err = e.AddLE(chunk.AvgBytesPerSec)
	if err != nil {
		return fmt.Errorf("error encoding the avg bytes per sec - %w", err)
	}

	err = e.AddLE(chunk.BlockAlign)
	if err != nil {
		return err
	}

	err = e.AddLE(chunk.BitsPerSample)
	if err != nil {
		return fmt.Errorf("error encoding bits per sample - %w", err)
	}

	return nil
}

func (e *wavEncoder) writeRawChunk(chunk rawChunk) error {
	size := uint32(len(chunk.Data))

	err := e.AddBE(chunk.ID)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk id %q: %w", chunk.ID, err)
	}

	err = e.AddLE(size)
	if err != nil {
		return fmt.Errorf("failed to write raw chunk size %q: %w", chunk.ID, err)
	}

	if len(chunk.Data) > 0 {
		n, err := e.w.Write(chunk.Data)
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk payload %q: %w", chunk.ID, err)
		}
	}

	if size%2 == 1 {
		n, err := e.w.Write([]byte{0})
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write raw chunk padding %q: %w", chunk.ID, err)
		}
	}

	return nil
}

// Write appends sample bytes already in WAVE storage order.
func (e *wavEncoder) Write(p []byte) (int, error) {
	if !e.wroteHeader {
		return 0, errHeaderNotDone
	}

	if e.dataWritten+int64(len(p)) > int64(e.DataSize) {
		return 0, errDataOverflow
	}

	n, err := e.w.Write(p)
	e.WrittenBytes += n
	e.dataWritten += int64(n)

	return n, err
}

// Close checks that the declared amount of data was written and adds the
// pad byte of an odd sized data chunk.
func (e *wavEncoder) Close() error {
	if e.dataWritten != int64(e.DataSize) {
		return fmt.Errorf("%w: wrote %d of %d bytes", errDataShort, e.dataWritten, e.DataSize)
	}

	if e.DataSize%2 == 1 {
		n, err := e.w.Write([]byte{0})
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write data chunk padding: %w", err)
		}
	}

	return nil
}
