package fsb5

import "strconv"

// AudioFormat identifies the codec shared by every stream in a bank.
type AudioFormat uint32

// Known audio formats. The values match the identifiers stored in the file.
const (
	FormatPCM8     AudioFormat = 1
	FormatPCM16    AudioFormat = 2
	FormatPCM24    AudioFormat = 3
	FormatPCM32    AudioFormat = 4
	FormatPCMFloat AudioFormat = 5
	FormatGCADPCM  AudioFormat = 6
	FormatIMAADPCM AudioFormat = 7
	FormatVAG      AudioFormat = 8
	FormatHEVAG    AudioFormat = 9
	FormatXMA      AudioFormat = 10
	FormatMPEG     AudioFormat = 11
	FormatCELT     AudioFormat = 12
	FormatATRAC9   AudioFormat = 13
	FormatXWMA     AudioFormat = 14
	FormatVorbis   AudioFormat = 15
	FormatFADPCM   AudioFormat = 16
	FormatOpus     AudioFormat = 17
)

var audioFormatNames = map[AudioFormat]string{
	FormatPCM8:     "PCM (8-bit, integer)",
	FormatPCM16:    "PCM (16-bit, integer)",
	FormatPCM24:    "PCM (24-bit, integer)",
	FormatPCM32:    "PCM (32-bit, integer)",
	FormatPCMFloat: "PCM (32-bit, float)",
	FormatGCADPCM:  "GC ADPCM",
	FormatIMAADPCM: "IMA ADPCM",
	FormatVAG:      "VAG",
	FormatHEVAG:    "HEVAG",
	FormatXMA:      "XMA",
	FormatMPEG:     "MPEG",
	FormatCELT:     "CELT",
	FormatATRAC9:   "ATRAC9",
	FormatXWMA:     "xWMA",
	FormatVorbis:   "Vorbis",
	FormatFADPCM:   "FADPCM",
	FormatOpus:     "Opus",
}

func parseAudioFormat(v uint32) (AudioFormat, bool) {
	f := AudioFormat(v)
	_, ok := audioFormatNames[f]

	return f, ok
}

func (f AudioFormat) String() string {
	if name, ok := audioFormatNames[f]; ok {
		return name
	}

	return "AudioFormat(" + strconv.FormatUint(uint64(f), 10) + ")"
}

// IsPCM reports whether streams of this format hold raw PCM samples.
func (f AudioFormat) IsPCM() bool {
	return f >= FormatPCM8 && f <= FormatPCMFloat
}

// sampleRates maps the 4-bit stream mode selector to Hz.
var sampleRates = [...]uint32{
	0:  4000,
	1:  8000,
	2:  11000,
	3:  11025,
	4:  16000,
	5:  22050,
	6:  24000,
	7:  32000,
	8:  44100,
	9:  48000,
	10: 96000,
}

func sampleRateFromFlag(flag uint8) (uint32, bool) {
	if int(flag) >= len(sampleRates) {
		return 0, false
	}

	return sampleRates[flag], true
}

// channelCounts maps the 2-bit stream mode selector. Every value is defined.
var channelCounts = [4]uint16{1, 2, 6, 8}

func channelsFromFlag(flag uint8) uint16 {
	return channelCounts[flag&0x03]
}
