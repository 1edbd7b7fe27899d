package fsb5

import (
	"bytes"
	"encoding/binary"
)

// smpl chunk is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#smpl

// cidSmpl is the chunk ID for a smpl chunk.
var cidSmpl = [4]byte{'s', 'm', 'p', 'l'}

const (
	midiUnityNoteMiddleC = 60
	nanosecondsPerSecond = 1e9
)

// samplerInfo is the fixed part of a smpl chunk.
type samplerInfo struct {
	Manufacturer      [4]byte
	Product           [4]byte
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	SamplerData       uint32
}

// sampleLoop is one loop entry of a smpl chunk.
type sampleLoop struct {
	CuePointID [4]byte
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

// samplerInfoFor describes one forward loop that repeats forever. The loop
// positions are written as stored in the bank.
func samplerInfoFor(loop Loop, sampleRate uint32) (samplerInfo, sampleLoop) {
	info := samplerInfo{
		MIDIUnityNote:  midiUnityNoteMiddleC,
		NumSampleLoops: 1,
	}
	if sampleRate > 0 {
		info.SamplePeriod = uint32(nanosecondsPerSecond / sampleRate)
	}

	return info, sampleLoop{Start: loop.Start, End: loop.End()}
}

func encodeSamplerChunk(info samplerInfo, loops ...sampleLoop) []byte {
	buf := bytes.NewBuffer(nil)

	// bytes.Buffer writes can't fail
	_ = binary.Write(buf, binary.LittleEndian, info)
	for _, l := range loops {
		_ = binary.Write(buf, binary.LittleEndian, l)
	}

	return buf.Bytes()
}

type smplChunkEncoder struct{}

func (smplChunkEncoder) Encode(e *wavEncoder) (rawChunk, bool) {
	if e.Loop == nil {
		return rawChunk{}, false
	}

	info, loop := samplerInfoFor(*e.Loop, uint32(e.SampleRate))

	return rawChunk{ID: cidSmpl, Data: encodeSamplerChunk(info, loop)}, true
}
