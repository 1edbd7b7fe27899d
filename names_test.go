package fsb5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cwbudde/fsb5/internal/fsbtest"
)

func namedBank(names ...string) *fsbtest.Bank {
	bank := &fsbtest.Bank{Format: uint32(FormatPCM8), Names: true}
	for _, name := range names {
		s := pcmStream(fsbtest.Rate44100, 1, make([]byte, 32))
		s.Name = name
		bank.Streams = append(bank.Streams, s)
	}

	return bank
}

func TestReadNames(t *testing.T) {
	bank := namedBank("kick", "snare drum", "ハイハット")

	h, err := ParseHeader(bytes.NewReader(bank.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []string{"kick", "snare drum", "ハイハット"} {
		got, ok := h.Streams[i].Name()
		if !ok || got != want {
			t.Fatalf("stream %d name=%q,%v, want %q", i, got, ok, want)
		}
	}
}

func TestReadNamesWithoutTable(t *testing.T) {
	bank := namedBank("kick")
	bank.Names = false

	h, err := ParseHeader(bytes.NewReader(bank.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := h.Streams[0].Name(); ok {
		t.Fatal("expected no name without a name table")
	}
}

func TestReadNamesPadding(t *testing.T) {
	// names may be followed by padding up to the table size
	bank := namedBank("a", "b")
	bank.NameTable = append(fsbtest.U32(8, 10), 'a', 0, 'b', 0, 0, 0, 0, 0)

	h, err := ParseHeader(bytes.NewReader(bank.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if name, _ := h.Streams[1].Name(); name != "b" {
		t.Fatalf("stream 1 name=%q", name)
	}
}

func TestReadNamesErrors(t *testing.T) {
	tests := []struct {
		name  string
		table []byte
		kind  NameErrorKind
		index uint32
	}{
		{
			name:  "same offset twice",
			table: append(fsbtest.U32(8, 8), 'a', 0),
			kind:  NameZeroLength,
		},
		{
			name:  "offset inside offset array",
			table: append(fsbtest.U32(4, 10), 'a', 0, 'b', 0),
			kind:  NameOffset,
		},
		{
			name:  "missing terminator",
			table: append(fsbtest.U32(8, 10), 'a', 0, 'b', 'c'),
			kind:  NameMissingNul,
			index: 1,
		},
		{
			name:  "invalid utf-8",
			table: append(fsbtest.U32(8, 11), 'a', 0, 0xff, 0xfe, 0),
			kind:  NameUTF8,
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := namedBank("a", "b")
			bank.NameTable = tt.table

			_, err := ParseHeader(bytes.NewReader(bank.Bytes()))

			var nerr *NameError
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *NameError, got %v", err)
			}

			if nerr.Kind != tt.kind || nerr.Index != tt.index {
				t.Fatalf("got %v at %d, want %v at %d", nerr.Kind, nerr.Index, tt.kind, tt.index)
			}

			if kind := headerErrorKind(t, err); kind != HeaderNameTable {
				t.Fatalf("header kind=%v, want %v", kind, HeaderNameTable)
			}
		})
	}
}

func TestReadNamesTruncated(t *testing.T) {
	bank := namedBank("a", "b")
	bank.NameTable = append(fsbtest.U32(8, 10), 'a', 0, 'b', 0)

	const tableStart = 64 + 16

	tests := []struct {
		name  string
		size  int
		kind  NameErrorKind
		index uint32
	}{
		{"inside first offset", tableStart + 3, NameOffset, 0},
		{"inside second offset", tableStart + 6, NameOffset, 1},
		{"inside last name", tableStart + 11, NameRead, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(bytes.NewReader(bank.Bytes()[:tt.size]))

			var nerr *NameError
			if !errors.As(err, &nerr) || nerr.Kind != tt.kind || nerr.Index != tt.index {
				t.Fatalf("expected %v for name %d, got %v", tt.kind, tt.index, err)
			}

			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("expected an incomplete read, got %v", err)
			}
		})
	}
}

func TestReadNamesHugeTableSize(t *testing.T) {
	bank := namedBank("a")
	bank.NameTable = append(fsbtest.U32(4), 'a', 0)

	data := bank.Bytes()
	// name table size field
	binary.LittleEndian.PutUint32(data[16:], 0xfffffff0)

	_, err := ParseHeader(bytes.NewReader(data))

	var nerr *NameError
	if !errors.As(err, &nerr) || nerr.Kind != NameRead || nerr.Index != 0 {
		t.Fatalf("expected %v for name 0, got %v", NameRead, err)
	}

	// the rest of the file is the name and 32 bytes of stream data
	assertIncomplete(t, err, neededBytes(0xffffffec-2-32))
}
