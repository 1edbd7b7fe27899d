package fsb5

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// writeAIFF writes a decoded buffer as an AIFF file. AIFF has no float
// sample type so float streams are stored as 32-bit integers.
func writeAIFF(w io.WriteSeeker, buf *audio.IntBuffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("can't write AIFF: missing buffer format")
	}

	enc := aiff.NewEncoder(w, buf.Format.SampleRate, buf.SourceBitDepth, buf.Format.NumChannels)

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("can't write AIFF samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("can't finish AIFF file: %w", err)
	}

	return nil
}
