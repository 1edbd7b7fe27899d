package fsb5

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnsupportedFormat is returned when a stream's audio format can't be
	// written to the requested container.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrMissingVorbisSetup is returned when no setup header is known for a
	// Vorbis stream's setup checksum.
	ErrMissingVorbisSetup = errors.New("vorbis setup header not found")
)

// EncodeOptions configures stream encoding. A nil *EncodeOptions is valid.
type EncodeOptions struct {
	// VorbisSetups resolves Vorbis setup headers by checksum. Required for
	// Vorbis streams.
	VorbisSetups VorbisSetupSource
	// Vendor is written to the Ogg Vorbis comment header. Defaults to
	// DefaultVorbisVendor.
	Vendor string
}

func (o *EncodeOptions) vorbisSetups() VorbisSetupSource {
	if o == nil {
		return nil
	}

	return o.VorbisSetups
}

func (o *EncodeOptions) vendor() string {
	if o == nil || o.Vendor == "" {
		return DefaultVorbisVendor
	}

	return o.Vendor
}

// EncodeError wraps any failure to encode a stream.
type EncodeError struct {
	Format AudioFormat
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("can't encode %s stream: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

type container int

const (
	containerAuto container = iota
	containerWAV
	containerOgg
)

func containerFor(f AudioFormat) container {
	switch {
	case f.IsPCM():
		return containerWAV
	case f == FormatVorbis:
		return containerOgg
	default:
		return containerAuto
	}
}

// Extension returns the file extension Encode uses for the format, or ""
// when the format can't be encoded.
func (f AudioFormat) Extension() string {
	switch containerFor(f) {
	case containerWAV:
		return ".wav"
	case containerOgg:
		return ".ogg"
	default:
		return ""
	}
}

func (m *streamMeta) encodeTo(c container, src *byteReader, w io.Writer, opts *EncodeOptions) error {
	if c == containerAuto {
		c = containerFor(m.format)
	}

	var err error

	switch c {
	case containerWAV:
		layout, ok := pcmLayoutFor(m.format, m.flags)
		if !ok {
			err = ErrUnsupportedFormat
			break
		}

		err = writeWAV(w, layout, m.info, src)
	case containerOgg:
		if m.format != FormatVorbis {
			err = ErrUnsupportedFormat
			break
		}

		err = writeOggVorbis(w, m, src, opts)
	default:
		err = ErrUnsupportedFormat
	}

	if err != nil {
		return &EncodeError{Format: m.format, Err: err}
	}

	return nil
}
