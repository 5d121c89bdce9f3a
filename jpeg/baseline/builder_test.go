package baseline

import (
	"bytes"
	"encoding/binary"

	"github.com/cocosip/go-image-codec/jpeg/common"
)

// jpegBuilder assembles JPEG byte streams segment by segment for tests.
type jpegBuilder struct {
	buf bytes.Buffer
}

func newJPEG() *jpegBuilder {
	b := &jpegBuilder{}
	b.marker(common.MarkerSOI)
	return b
}

func (b *jpegBuilder) marker(marker uint16) *jpegBuilder {
	_ = binary.Write(&b.buf, binary.BigEndian, marker)
	return b
}

// segment writes a marker, the length field covering itself, and the payload
func (b *jpegBuilder) segment(marker uint16, payload []byte) *jpegBuilder {
	b.marker(marker)
	_ = binary.Write(&b.buf, binary.BigEndian, uint16(len(payload)+2))
	b.buf.Write(payload)
	return b
}

// dqt writes an 8-bit quantization table; values are in zig-zag order
func (b *jpegBuilder) dqt(tableID byte, values [64]byte) *jpegBuilder {
	payload := append([]byte{tableID}, values[:]...)
	return b.segment(common.MarkerDQT, payload)
}

// flatQuant is an all-ones table, which makes dequantization the identity
func flatQuant() [64]byte {
	var q [64]byte
	for i := range q {
		q[i] = 1
	}
	return q
}

type sofComponent struct {
	id      byte
	factors byte // high nibble horizontal, low nibble vertical
	qtable  byte
}

func (b *jpegBuilder) sof0(width, height uint16, components ...sofComponent) *jpegBuilder {
	payload := []byte{8}
	payload = binary.BigEndian.AppendUint16(payload, height)
	payload = binary.BigEndian.AppendUint16(payload, width)
	payload = append(payload, byte(len(components)))
	for _, c := range components {
		payload = append(payload, c.id, c.factors, c.qtable)
	}
	return b.segment(common.MarkerSOF0, payload)
}

// dht writes one Huffman table: class 0 is DC, 1 is AC
func (b *jpegBuilder) dht(class, destination byte, counts [16]byte, symbols []byte) *jpegBuilder {
	payload := []byte{class<<4 | destination}
	payload = append(payload, counts[:]...)
	payload = append(payload, symbols...)
	return b.segment(common.MarkerDHT, payload)
}

func (b *jpegBuilder) dri(interval uint16) *jpegBuilder {
	return b.segment(common.MarkerDRI, binary.BigEndian.AppendUint16(nil, interval))
}

type sosComponent struct {
	id     byte
	tables byte // high nibble DC destination, low nibble AC destination
}

func (b *jpegBuilder) sos(components ...sosComponent) *jpegBuilder {
	payload := []byte{byte(len(components))}
	for _, c := range components {
		payload = append(payload, c.id, c.tables)
	}
	payload = append(payload, 0, 63, 0)
	return b.segment(common.MarkerSOS, payload)
}

// app2ICC writes one ICC_PROFILE chunk
func (b *jpegBuilder) app2ICC(sequence, total byte, chunk []byte) *jpegBuilder {
	payload := append([]byte("ICC_PROFILE\x00"), sequence, total)
	payload = append(payload, chunk...)
	return b.segment(common.MarkerAPP2, payload)
}

func (b *jpegBuilder) entropy(data ...byte) *jpegBuilder {
	b.buf.Write(data)
	return b
}

func (b *jpegBuilder) eoi() []byte {
	b.marker(common.MarkerEOI)
	return b.buf.Bytes()
}

// Trivial Huffman tables used by most handcrafted streams.
//
// dcCounts with extra=0 declares a single one-bit code '0' for category 0.
// With a second symbol S, '0' stays category 0 and '10' selects category S.
// The AC table is always the single code '0' meaning end-of-block.
func dcTable(extra ...byte) ([16]byte, []byte) {
	var counts [16]byte
	counts[0] = 1
	symbols := []byte{0}
	if len(extra) > 0 {
		counts[1] = 1
		symbols = append(symbols, extra[0])
	}
	return counts, symbols
}

func acTable() ([16]byte, []byte) {
	var counts [16]byte
	counts[0] = 1
	return counts, []byte{0}
}

// grayscaleJPEG builds a single-component image with the trivial tables
// and the given entropy bytes.
func grayscaleJPEG(width, height uint16, dcExtra []byte, entropy ...byte) []byte {
	b := newJPEG().
		dqt(0, flatQuant()).
		sof0(width, height, sofComponent{id: 1, factors: 0x11, qtable: 0})
	dcCounts, dcSymbols := dcTable(dcExtra...)
	acCounts, acSymbols := acTable()
	b.dht(0, 0, dcCounts, dcSymbols).
		dht(1, 0, acCounts, acSymbols).
		sos(sosComponent{id: 1, tables: 0x00}).
		entropy(entropy...)
	return b.eoi()
}
