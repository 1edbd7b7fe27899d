package fsb5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

var (
	errUnhandledByteDepth = errors.New("unhandled byte depth")
	errPartialSample      = errors.New("data ends inside a sample")
)

// decode converts raw stream data into an integer buffer. Float samples
// are scaled to the 32-bit integer range.
func (l pcmLayout) decode(data []byte, numChans, sampleRate int) (*audio.IntBuffer, error) {
	decodeSample, err := l.sampleDecodeFunc()
	if err != nil {
		return nil, &PCMError{Kind: PCMDecodeSamples, Err: err}
	}

	width := l.width()
	if len(data)%width != 0 {
		return nil, &PCMError{
			Kind: PCMDecodeSamples,
			Err:  fmt.Errorf("%w: %d trailing bytes", errPartialSample, len(data)%width),
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(data)/width),
		SourceBitDepth: l.bitDepth,
	}

	for i := range buf.Data {
		buf.Data[i] = decodeSample(data[i*width : (i+1)*width])
	}

	return buf, nil
}

// sampleDecodeFunc returns a function that converts one stored sample into
// an int. 8-bit samples are signed.
func (l pcmLayout) sampleDecodeFunc() (func([]byte) int, error) {
	order := binary.ByteOrder(binary.LittleEndian)
	if l.bigEndian {
		order = binary.BigEndian
	}

	switch {
	case l.float:
		return func(b []byte) int {
			value := math.Float32frombits(binary.LittleEndian.Uint32(b))
			return int(float32ToPCMInt32(value))
		}, nil
	case l.bitDepth == 8:
		return func(b []byte) int {
			return int(int8(b[0]))
		}, nil
	case l.bitDepth == 16:
		return func(b []byte) int {
			return int(int16(order.Uint16(b)))
		}, nil
	case l.bitDepth == 24:
		return func(b []byte) int {
			return int(audio.Int24LETo32(b))
		}, nil
	case l.bitDepth == 32:
		return func(b []byte) int {
			return int(int32(binary.LittleEndian.Uint32(b)))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnhandledByteDepth, l.bitDepth)
	}
}
