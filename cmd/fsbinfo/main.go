// This tool prints the header and the stream list of an FSB5 sound bank.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/fsb5"
)

const missingPathMessage = "You must pass the path of the sound bank to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	h, err := fsb5.ParseHeader(bufio.NewReader(file))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Version: %d\n", h.Version)
	fmt.Fprintf(out, "Format: %s\n", h.Format)
	fmt.Fprintf(out, "Flags: 0x%08x\n", h.Flags)
	fmt.Fprintf(out, "Streams: %d\n", len(h.Streams))
	fmt.Fprintf(out, "Data offset: %d\n", h.DataStart())

	for i := range h.Streams {
		printStream(out, i, &h.Streams[i], h.StreamOffset(i))
	}

	return nil
}

func printStream(out io.Writer, index int, s *fsb5.StreamInfo, offset int64) {
	fmt.Fprintf(out, "Stream [%d]:\n", index)

	if name, ok := s.Name(); ok {
		fmt.Fprintf(out, "\tName: %s\n", name)
	}

	fmt.Fprintf(out, "\tSample rate: %d\n", s.SampleRate)
	fmt.Fprintf(out, "\tChannels: %d\n", s.Channels)
	fmt.Fprintf(out, "\tSamples: %d\n", s.NumSamples)
	fmt.Fprintf(out, "\tSize: %d bytes at %d\n", s.Size, offset)

	if s.Loop != nil {
		fmt.Fprintf(out, "\tLoop: %d-%d\n", s.Loop.Start, s.Loop.End())
	}

	if crc, ok := s.VorbisSetupChecksum(); ok {
		fmt.Fprintf(out, "\tVorbis setup: %s\n", fsb5.VorbisSetupFileName(crc))
	}

	if len(s.DSPCoefficients) > 0 {
		fmt.Fprintf(out, "\tDSP coefficients: %v\n", s.DSPCoefficients)
	}
}
