package fsb5

import (
	"fmt"
	"slices"
)

// flagBigEndianPCM marks 16-bit PCM banks storing big-endian samples.
const flagBigEndianPCM = 0x01

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// pcmLayout describes how the PCM samples of a bank are stored.
type pcmLayout struct {
	bitDepth  int
	float     bool
	bigEndian bool
}

// pcmLayoutFor reports the sample layout of a PCM format. Only 16-bit
// samples follow the header's byte order flag; wider samples are always
// little-endian and 8-bit samples are signed.
func pcmLayoutFor(format AudioFormat, flags uint32) (pcmLayout, bool) {
	switch format {
	case FormatPCM8:
		return pcmLayout{bitDepth: 8}, true
	case FormatPCM16:
		return pcmLayout{bitDepth: 16, bigEndian: flags&flagBigEndianPCM != 0}, true
	case FormatPCM24:
		return pcmLayout{bitDepth: 24}, true
	case FormatPCM32:
		return pcmLayout{bitDepth: 32}, true
	case FormatPCMFloat:
		return pcmLayout{bitDepth: 32, float: true}, true
	default:
		return pcmLayout{}, false
	}
}

func (l pcmLayout) width() int { return l.bitDepth / 8 }

func (l pcmLayout) wavFormatTag() uint16 {
	if l.float {
		return wavFormatIEEEFloat
	}

	return wavFormatPCM
}

// toWAV rewrites the whole samples in p in place to WAVE storage:
// little-endian, 8-bit unsigned.
func (l pcmLayout) toWAV(p []byte) {
	switch {
	case l.bitDepth == 8:
		for i := range p {
			p[i] ^= 0x80
		}
	case l.bigEndian:
		w := l.width()
		for i := 0; i+w <= len(p); i += w {
			slices.Reverse(p[i : i+w])
		}
	}
}

// PCMErrorKind identifies the stage of PCM encoding that failed.
type PCMErrorKind int

const (
	// PCMHeader means the file header could not be written.
	PCMHeader PCMErrorKind = iota
	// PCMReadSamples means the stream data could not be read.
	PCMReadSamples
	// PCMWriteSamples means the sample data could not be written.
	PCMWriteSamples
	// PCMDecodeSamples means the stream data could not be decoded.
	PCMDecodeSamples
)

var pcmErrorText = map[PCMErrorKind]string{
	PCMHeader:        "can't write file header",
	PCMReadSamples:   "can't read samples",
	PCMWriteSamples:  "can't write samples",
	PCMDecodeSamples: "can't decode samples",
}

func (k PCMErrorKind) String() string { return pcmErrorText[k] }

// PCMError reports a failure while converting PCM stream data.
type PCMError struct {
	Kind PCMErrorKind
	Err  error
}

func (e *PCMError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PCMError) Unwrap() error { return e.Err }
