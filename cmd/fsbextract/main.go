// This tool extracts the streams of an FSB5 sound bank. PCM streams are
// written as wav (or aif) files and Vorbis streams as ogg files in a folder
// next to the bank.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cwbudde/fsb5"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println("You must pass the path of the sound bank to extract")
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

type options struct {
	outDir    string
	aiff      bool
	setupDir  string
	cacheSize int
	verbose   bool
}

func parseFlags(args []string, out io.Writer) (*options, string, error) {
	opts := &options{}

	fs := flag.NewFlagSet("fsbextract", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.outDir, "out", "", "The folder to write the streams to (default: next to the bank)")
	fs.BoolVar(&opts.aiff, "aiff", false, "Write PCM streams as aif instead of wav files")
	fs.StringVar(&opts.setupDir, "vorbis-setups", "", "The folder holding Vorbis setup headers named <crc32>.bin")
	fs.IntVar(&opts.cacheSize, "cache", fsb5.DefaultVorbisSetupCacheSize, "The number of Vorbis setup headers kept in memory")
	fs.BoolVar(&opts.verbose, "v", false, "Print every written file")

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	if fs.NArg() < 1 {
		return nil, "", errMissingPath
	}

	return opts, expandHome(fs.Arg(0)), nil
}

func run(args []string, out io.Writer) error {
	opts, bankPath, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	file, err := os.Open(bankPath)
	if err != nil {
		return err
	}
	defer file.Close()

	bank, err := fsb5.NewBank(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("%s: %w", bankPath, err)
	}

	baseName := strings.TrimSuffix(filepath.Base(bankPath), filepath.Ext(bankPath))

	outDir := expandHome(opts.outDir)
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(bankPath), baseName)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	encodeOpts := &fsb5.EncodeOptions{}

	if opts.setupDir != "" {
		lib, err := fsb5.NewVorbisSetupLibrary(os.DirFS(expandHome(opts.setupDir)), opts.cacheSize)
		if err != nil {
			return err
		}

		encodeOpts.VorbisSetups = lib
	}

	var written, skipped int

	for {
		stream, err := bank.NextStream()
		if err == io.EOF {
			break
		}

		if err != nil {
			return err
		}

		path, err := extractStream(stream, outDir, baseName, opts.aiff, encodeOpts)

		switch {
		case err == nil:
			written++

			if opts.verbose {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
		case errors.Is(err, fsb5.ErrUnsupportedFormat), errors.Is(err, fsb5.ErrMissingVorbisSetup):
			skipped++

			fmt.Fprintf(out, "Skipped stream %d: %v\n", stream.Index(), err)
		default:
			return fmt.Errorf("stream %d: %w", stream.Index(), err)
		}
	}

	fmt.Fprintf(out, "Extracted %d of %d streams to %s\n", written, written+skipped, outDir)

	return nil
}

// extractStream writes one stream and returns the path of the new file. The
// file is removed again if encoding fails.
func extractStream(s *fsb5.Stream, outDir, baseName string, aiff bool,
	opts *fsb5.EncodeOptions,
) (string, error) {
	ext := s.Format().Extension()
	if ext == "" {
		return "", fsb5.ErrUnsupportedFormat
	}

	if aiff && ext == ".wav" {
		ext = ".aif"
	}

	path := filepath.Join(outDir, streamFileName(s, baseName)+ext)

	outFile, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if ext == ".aif" {
		err = s.WriteAIFF(outFile)
	} else {
		w := bufio.NewWriter(outFile)
		if err = s.Encode(w, opts); err == nil {
			err = w.Flush()
		}
	}

	if cerr := outFile.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

// streamFileName uses the stream name when the bank has one and falls back
// to the bank name and the stream index.
func streamFileName(s *fsb5.Stream, baseName string) string {
	name, ok := s.Name()
	if ok {
		name = strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', 0:
				return '_'
			}

			return r
		}, name)
	}

	if !ok || name == "" || name == "." || name == ".." {
		return fmt.Sprintf("%s_%03d", baseName, s.Index())
	}

	return name
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		return path
	}

	return strings.Replace(path, "~", usr.HomeDir, 1)
}
