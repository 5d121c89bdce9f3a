package common

import (
	"errors"
	"strings"
	"testing"
)

// tableFromCounts builds a table whose symbols are just their index.
func tableFromCounts(counts [16]uint8) *HuffmanTable {
	table := &HuffmanTable{CodeCounts: counts}
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	for i := 0; i < total; i++ {
		table.Symbols = append(table.Symbols, byte(i))
	}
	table.GenerateCodes()
	return table
}

func TestGenerateCodesCanonical(t *testing.T) {
	// The standard luminance DC layout: 12 categories over lengths 2..9.
	table := tableFromCounts([16]uint8{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0})

	want := []uint16{
		0x00,                         // length 2
		0x02, 0x03, 0x04, 0x05, 0x06, // length 3
		0x0E,  // length 4
		0x1E,  // length 5
		0x3E,  // length 6
		0x7E,  // length 7
		0xFE,  // length 8
		0x1FE, // length 9
	}
	if len(table.Codes) != len(want) {
		t.Fatalf("generated %d codes, want %d", len(table.Codes), len(want))
	}
	for i, code := range want {
		if table.Codes[i] != code {
			t.Errorf("Codes[%d] = %#x, want %#x", i, table.Codes[i], code)
		}
	}
}

func TestGenerateCodesIdempotent(t *testing.T) {
	table := tableFromCounts([16]uint8{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	first := len(table.Codes)
	table.GenerateCodes()
	if len(table.Codes) != first {
		t.Errorf("second GenerateCodes grew the code list: %d -> %d", first, len(table.Codes))
	}
}

// codeString renders a code at its bit length for prefix comparison.
func codeString(code uint16, length int) string {
	s := ""
	for i := length - 1; i >= 0; i-- {
		if code>>i&1 == 1 {
			s += "1"
		} else {
			s += "0"
		}
	}
	return s
}

func TestGeneratedCodesPrefixFree(t *testing.T) {
	tables := [][16]uint8{
		{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 125},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}

	for _, counts := range tables {
		table := tableFromCounts(counts)

		total := 0
		for _, c := range counts {
			total += int(c)
		}
		if len(table.Codes) != total || len(table.Symbols) != total {
			t.Fatalf("code/symbol count = %d/%d, want %d", len(table.Codes), len(table.Symbols), total)
		}

		var rendered []string
		cursor := 0
		for length := 0; length < 16; length++ {
			for j := 0; j < int(counts[length]); j++ {
				rendered = append(rendered, codeString(table.Codes[cursor], length+1))
				cursor++
			}
		}
		for i := range rendered {
			for j := range rendered {
				if i != j && strings.HasPrefix(rendered[j], rendered[i]) {
					t.Fatalf("code %q is a prefix of %q", rendered[i], rendered[j])
				}
			}
		}
	}
}

func TestBitStreamReadBits(t *testing.T) {
	s := &BitStream{Data: []byte{0xA5, 0x3C}}

	v, err := s.ReadBits(4)
	if err != nil || v != 0xA {
		t.Fatalf("ReadBits(4) = %#x, %v; want 0xA", v, err)
	}
	// Crossing the byte boundary: 0101 0011 -> 0x53.
	v, err = s.ReadBits(8)
	if err != nil || v != 0x53 {
		t.Fatalf("ReadBits(8) = %#x, %v; want 0x53", v, err)
	}
	v, err = s.ReadBits(4)
	if err != nil || v != 0xC {
		t.Fatalf("ReadBits(4) = %#x, %v; want 0xC", v, err)
	}

	if _, err = s.ReadBits(1); !errors.Is(err, ErrEntropy) {
		t.Errorf("ReadBits past end error = %v, want ErrEntropy", err)
	}
}

func TestBitStreamTooManyBits(t *testing.T) {
	s := &BitStream{Data: make([]byte, 16)}
	if _, err := s.ReadBits(65); !errors.Is(err, ErrEntropy) {
		t.Errorf("ReadBits(65) error = %v, want ErrEntropy", err)
	}
}

func TestBitStreamAlignToByte(t *testing.T) {
	s := &BitStream{Data: []byte{0xFF, 0x80}}
	if _, err := s.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	s.AlignToByte()
	if s.ByteOffset != 1 || s.BitOffset != 0 {
		t.Fatalf("after align: byte %d bit %d, want 1/0", s.ByteOffset, s.BitOffset)
	}
	// Aligning an already aligned stream must not move.
	s.AlignToByte()
	if s.ByteOffset != 1 {
		t.Errorf("second align moved to byte %d", s.ByteOffset)
	}
	v, err := s.ReadBit()
	if err != nil || v != 1 {
		t.Errorf("ReadBit() = %d, %v; want 1", v, err)
	}
}

func TestNextSymbol(t *testing.T) {
	// Two codes: '0' -> symbol 0, '10' -> symbol 1.
	table := tableFromCounts([16]uint8{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	// Bits: 0, 10, 0, 10 -> 0100 10xx.
	s := &BitStream{Data: []byte{0x48}}
	want := []byte{0, 1, 0, 1}
	for i, w := range want {
		sym, err := s.NextSymbol(table)
		if err != nil {
			t.Fatalf("symbol %d: %v", i, err)
		}
		if sym != w {
			t.Errorf("symbol %d = %d, want %d", i, sym, w)
		}
	}
}

func TestNextSymbolMaxLength(t *testing.T) {
	// A single code of the maximum 16 bits: sixteen zero bits.
	var counts [16]uint8
	counts[15] = 1
	table := &HuffmanTable{CodeCounts: counts, Symbols: []byte{0x42}}
	table.GenerateCodes()

	s := &BitStream{Data: []byte{0x00, 0x00}}
	sym, err := s.NextSymbol(table)
	if err != nil {
		t.Fatalf("NextSymbol: %v", err)
	}
	if sym != 0x42 {
		t.Errorf("NextSymbol = %#x, want 0x42", sym)
	}
}

func TestNextSymbolNoMatch(t *testing.T) {
	// Only '0' is a code; sixteen one bits never match.
	table := tableFromCounts([16]uint8{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	s := &BitStream{Data: []byte{0xFF, 0xFF, 0xFF}}
	if _, err := s.NextSymbol(table); !errors.Is(err, ErrEntropy) {
		t.Errorf("NextSymbol error = %v, want ErrEntropy", err)
	}
}

func TestExtend(t *testing.T) {
	tests := []struct {
		value  uint64
		length byte
		want   int32
	}{
		{0, 0, 0},
		{0, 1, -1},
		{1, 1, 1},
		{0, 2, -3},
		{1, 2, -2},
		{2, 2, 2},
		{3, 2, 3},
		{0, 5, -31},
		{15, 5, -16},
		{16, 5, 16},
		{0, 11, -2047},
		{1024, 11, 1024},
		{2047, 11, 2047},
	}
	for _, tt := range tests {
		if got := Extend(tt.value, tt.length); got != tt.want {
			t.Errorf("Extend(%d, %d) = %d, want %d", tt.value, tt.length, got, tt.want)
		}
	}
}
