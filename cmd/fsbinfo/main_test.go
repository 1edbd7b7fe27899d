package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/fsb5/internal/fsbtest"
)

func TestRunRequiresPath(t *testing.T) {
	var out bytes.Buffer
	err := run(nil, &out)
	if err == nil {
		t.Fatalf("expected error without input path")
	}

	if !errors.Is(err, errMissingPath) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunPrintsStreams(t *testing.T) {
	bank := &fsbtest.Bank{
		Version: 1,
		Format:  2,
		Names:   true,
		Streams: []fsbtest.Stream{
			{
				RateFlag:   fsbtest.Rate44100,
				NumSamples: 16,
				Chunks: []fsbtest.Chunk{
					{Kind: fsbtest.ChunkLoop, Data: fsbtest.U32(2, 10)},
				},
				Data: make([]byte, 32),
				Name: "kick",
			},
			{
				RateFlag:     fsbtest.Rate48000,
				ChannelsFlag: fsbtest.Stereo,
				NumSamples:   4,
				Data:         make([]byte, 16),
				Name:         "snare",
			},
		},
	}

	var outBuf bytes.Buffer
	if err := run([]string{bank.WriteFile(t, "drums.fsb")}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := outBuf.String()
	checks := []string{
		"Version: 1",
		"Format: PCM (16-bit, integer)",
		"Streams: 2",
		"Stream [0]:",
		"\tName: kick",
		"\tSample rate: 44100",
		"\tLoop: 2-10",
		"Stream [1]:",
		"\tName: snare",
		"\tChannels: 2",
		"\tSize: 16 bytes",
	}

	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Fatalf("expected output to contain %q\nfull output:\n%s", c, out)
		}
	}
}

func TestRunPrintsVorbisSetupFile(t *testing.T) {
	bank := &fsbtest.Bank{
		Format: 15,
		Streams: []fsbtest.Stream{{
			RateFlag:   fsbtest.Rate48000,
			NumSamples: 1024,
			Chunks: []fsbtest.Chunk{
				{Kind: fsbtest.ChunkVorbisSeekTable, Data: fsbtest.U32(0xdeadbeef)},
			},
			Data: []byte{1, 0, 0},
		}},
	}

	var outBuf bytes.Buffer
	if err := run([]string{bank.WriteFile(t, "music.fsb")}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(outBuf.String(), "Vorbis setup: deadbeef.bin") {
		t.Fatalf("expected setup file name in output, got:\n%s", outBuf.String())
	}
}

func TestRunInvalidBank(t *testing.T) {
	bank := &fsbtest.Bank{Format: 2}

	var outBuf bytes.Buffer
	if err := run([]string{bank.WriteFile(t, "empty.fsb")}, &outBuf); err == nil {
		t.Fatal("expected error for a bank without streams")
	}
}

func TestRunInvalidPath(t *testing.T) {
	var outBuf bytes.Buffer
	err := run([]string{"/nonexistent/path.fsb"}, &outBuf)
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}
