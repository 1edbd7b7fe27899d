package fsb5

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultVorbisSetupCacheSize is the number of setup headers a
// VorbisSetupLibrary keeps in memory when no size is given.
const DefaultVorbisSetupCacheSize = 64

var errSetupChecksum = errors.New("setup header checksum mismatch")

// VorbisSetupTable is an in-memory VorbisSetupSource keyed by the CRC-32 of
// each setup header.
type VorbisSetupTable map[uint32][]byte

// VorbisSetup implements VorbisSetupSource.
func (t VorbisSetupTable) VorbisSetup(crc uint32) ([]byte, error) {
	setup, ok := t[crc]
	if !ok {
		return nil, fmt.Errorf("%w: crc32 %08x", ErrMissingVorbisSetup, crc)
	}

	return setup, nil
}

// Add stores a setup header under its CRC-32 and returns the checksum.
func (t VorbisSetupTable) Add(setup []byte) uint32 {
	crc := crc32.ChecksumIEEE(setup)
	t[crc] = setup

	return crc
}

// VorbisSetupLibrary loads setup headers from a file system on demand. Each
// header lives in a file named after its checksum, such as "0a1b2c3d.bin".
// Loaded headers are kept in an LRU cache. It is safe for concurrent use.
type VorbisSetupLibrary struct {
	fsys  fs.FS
	cache *lru.Cache[uint32, []byte]
}

// NewVorbisSetupLibrary returns a library reading from fsys and caching up
// to size headers. A size of 0 selects DefaultVorbisSetupCacheSize.
func NewVorbisSetupLibrary(fsys fs.FS, size int) (*VorbisSetupLibrary, error) {
	if size == 0 {
		size = DefaultVorbisSetupCacheSize
	}

	cache, err := lru.New[uint32, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("can't create setup header cache: %w", err)
	}

	return &VorbisSetupLibrary{fsys: fsys, cache: cache}, nil
}

// VorbisSetupFileName returns the file name a VorbisSetupLibrary reads the
// setup header with checksum crc from.
func VorbisSetupFileName(crc uint32) string {
	return fmt.Sprintf("%08x.bin", crc)
}

// VorbisSetup implements VorbisSetupSource. Files whose contents don't
// match the checksum in their name are rejected.
func (l *VorbisSetupLibrary) VorbisSetup(crc uint32) ([]byte, error) {
	if setup, ok := l.cache.Get(crc); ok {
		return setup, nil
	}

	name := VorbisSetupFileName(crc)

	setup, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: crc32 %08x", ErrMissingVorbisSetup, crc)
	}

	if err != nil {
		return nil, err
	}

	if got := crc32.ChecksumIEEE(setup); got != crc {
		return nil, fmt.Errorf("%w: %s has crc32 %08x", errSetupChecksum, name, got)
	}

	l.cache.Add(crc, setup)

	return setup, nil
}

// Len returns the number of cached setup headers.
func (l *VorbisSetupLibrary) Len() int { return l.cache.Len() }
