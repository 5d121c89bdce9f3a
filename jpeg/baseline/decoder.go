// Package baseline decodes baseline sequential DCT JPEG images (ITU-T T.81
// / JFIF, 8-bit precision, Huffman entropy coding) into BGRx bitmaps.
package baseline

import (
	"fmt"

	"github.com/cocosip/go-image-codec/codec"
	"github.com/cocosip/go-image-codec/jpeg/common"
)

type decodeState int

// Decode progresses NotDecoded -> FrameDecoded (SOF seen, mid-header) ->
// HeaderDecoded (SOS reached) -> BitmapDecoded. Any failure lands in Error,
// which orders below FrameDecoded so that Size reports (0, 0).
const (
	stateNotDecoded decodeState = iota
	stateError
	stateFrameDecoded
	stateHeaderDecoded
	stateBitmapDecoded
)

type frameType int

const (
	frameBaselineDCT    frameType = 0
	frameProgressiveDCT frameType = 2
)

type frameHeader struct {
	kind      frameType
	precision byte
	width     int
	height    int
}

// component describes one SOF component and the table slots SOS binds to it
type component struct {
	id            byte
	hSampleFactor int
	vSampleFactor int
	dcTableID     byte
	acTableID     byte
	qTableID      byte
}

// macroblockMeta is the 8x8-block grid geometry derived at SOF time. The
// padded counts round the grid up to the luma sampling factors so that a
// partial MCU at the right or bottom edge still has somewhere to decode to.
type macroblockMeta struct {
	hCount      int
	vCount      int
	hPadded     int
	vPadded     int
	total       int
	paddedTotal int
}

// Macroblock is one 8x8 cell of component data. The planes hold YCbCr
// coefficients through the entropy, dequantization and IDCT stages, and are
// reused as R, G, B once the colorspace transform has run.
type Macroblock struct {
	Y  [64]int32
	Cb [64]int32
	Cr [64]int32
}

func (m *Macroblock) plane(componentIndex int) *[64]int32 {
	switch componentIndex {
	case 0:
		return &m.Y
	case 1:
		return &m.Cb
	default:
		return &m.Cr
	}
}

type iccChunkState struct {
	seen   int
	chunks [][]byte
}

// Decoder holds all state for one decode of one JPEG buffer. It is not
// safe for concurrent use; decoding is single-threaded and runs to
// completion inside Frame or ICCData.
type Decoder struct {
	data   []byte
	params *Parameters

	state decodeState
	err   error

	frame          frameHeader
	componentCount int
	components     []component
	hSampleFactor  int
	vSampleFactor  int

	quantTables   [2][64]int32
	dcTables      map[byte]*common.HuffmanTable
	acTables      map[byte]*common.HuffmanTable
	resetInterval int

	reader     *common.Reader
	bitStream  common.BitStream
	previousDC [3]int32
	meta       macroblockMeta

	iccChunks *iccChunkState
	iccData   []byte

	bitmap *codec.Bitmap
}

// Sniff reports whether data starts with the JPEG SOI pattern FF D8 FF.
func Sniff(data []byte) bool {
	return len(data) >= 3 &&
		data[0] == 0xFF &&
		data[1] == 0xD8 &&
		data[2] == 0xFF
}

// NewDecoder creates a decoder over data with default parameters. No
// parsing happens until Size, Frame or ICCData is called.
func NewDecoder(data []byte) *Decoder {
	return NewDecoderWithParameters(data, NewParameters())
}

// NewDecoderWithParameters creates a decoder with explicit decode limits.
func NewDecoderWithParameters(data []byte, params *Parameters) *Decoder {
	if params == nil {
		params = NewParameters()
	}
	_ = params.Validate()
	return &Decoder{
		data:     data,
		params:   params,
		dcTables: make(map[byte]*common.HuffmanTable),
		acTables: make(map[byte]*common.HuffmanTable),
	}
}

// Size returns the frame dimensions once the SOF has been parsed, and
// (0, 0) before that or after a failed decode.
func (d *Decoder) Size() (width, height int) {
	if d.state >= stateFrameDecoded {
		return d.frame.width, d.frame.height
	}
	return 0, 0
}

// FrameCount returns 1; baseline JPEG holds a single frame.
func (d *Decoder) FrameCount() int { return 1 }

// LoopCount returns 0; JPEG does not animate.
func (d *Decoder) LoopCount() int { return 0 }

// IsAnimated returns false.
func (d *Decoder) IsAnimated() bool { return false }

// Frame runs the full decode pipeline on first call and returns the
// composed bitmap. Only index 0 is valid. The result is cached; decoding
// the same buffer twice yields the identical bitmap.
func (d *Decoder) Frame(index int) (*codec.Bitmap, error) {
	if index != 0 {
		return nil, codec.ErrInvalidFrameIndex
	}
	if d.state == stateError {
		return nil, d.err
	}
	if d.state < stateBitmapDecoded {
		if err := d.decodeImage(); err != nil {
			d.fail(err)
			return nil, err
		}
		d.state = stateBitmapDecoded
	}
	return d.bitmap, nil
}

// ICCData parses the header if needed and returns the reassembled ICC
// profile, or nil when the image carries none.
func (d *Decoder) ICCData() ([]byte, error) {
	if err := d.decodeHeader(); err != nil {
		return nil, err
	}
	return d.iccData, nil
}

func (d *Decoder) fail(err error) {
	d.state = stateError
	d.err = err
}

// decodeHeader parses markers up to and including SOS. It is idempotent;
// Frame and ICCData both funnel through it.
func (d *Decoder) decodeHeader() error {
	if d.state == stateError {
		return d.err
	}
	if d.state >= stateHeaderDecoded {
		return nil
	}
	d.reader = common.NewReader(d.data)
	if err := d.parseHeader(); err != nil {
		d.fail(err)
		return err
	}
	d.state = stateHeaderDecoded
	return nil
}

// parseHeader expects SOI, then dispatches on markers until SOS terminates
// the header. Markers that belong inside a scan, or a second SOI, are
// fatal here.
func (d *Decoder) parseHeader() error {
	marker, err := d.reader.ReadMarker()
	if err != nil {
		return err
	}
	if marker != common.MarkerSOI {
		return fmt.Errorf("%w: SOI not found at offset %d", common.ErrInvalidSignature, d.reader.Offset())
	}
	for {
		marker, err = d.reader.ReadMarker()
		if err != nil {
			return err
		}

		if common.IsSOF(marker) {
			d.frame.kind = frameType(marker & 0xF)
			if marker != common.MarkerSOF0 {
				return fmt.Errorf("%w: frame type SOF%d", common.ErrUnsupportedProfile, marker&0xF)
			}
		}

		switch {
		case marker == common.MarkerInvalid || marker == common.MarkerSOI ||
			marker == common.MarkerEOI || common.IsRST(marker):
			return fmt.Errorf("%w: %#04x at offset %d", common.ErrUnexpectedMarker, marker, d.reader.Offset())
		case common.IsAPP(marker):
			if err := d.parseAPP(marker); err != nil {
				return err
			}
		case marker == common.MarkerSOF0:
			if err := d.parseSOF(); err != nil {
				return err
			}
			d.state = stateFrameDecoded
		case marker == common.MarkerDQT:
			if err := d.parseDQT(); err != nil {
				return err
			}
		case marker == common.MarkerDHT:
			if err := d.parseDHT(); err != nil {
				return err
			}
		case marker == common.MarkerDRI:
			if err := d.parseDRI(); err != nil {
				return err
			}
		case marker == common.MarkerSOS:
			return d.parseSOS()
		default:
			// COM, DHP, EXP, reserved: length-prefixed, contents unused.
			if err := d.skipSegment(); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) skipSegment() error {
	payload, err := d.reader.ReadSegmentLength()
	if err != nil {
		return err
	}
	return d.reader.Skip(payload)
}

// decodeImage runs the whole pipeline: header, entropy extraction, Huffman
// decode into macroblocks, dequantization, IDCT, colorspace conversion and
// bitmap composition. The scan buffer is released afterwards.
func (d *Decoder) decodeImage() error {
	if err := d.decodeHeader(); err != nil {
		return err
	}
	if err := d.scanEntropyCodedSegment(); err != nil {
		return err
	}
	macroblocks, err := d.decodeMCUs()
	if err != nil {
		return err
	}
	d.dequantize(macroblocks)
	d.inverseDCT(macroblocks)
	d.ycbcrToRGB(macroblocks)
	if err := d.composeBitmap(macroblocks); err != nil {
		return err
	}
	d.bitStream = common.BitStream{}
	d.reader = nil
	return nil
}

func (d *Decoder) composeBitmap(macroblocks []Macroblock) error {
	bitmap, err := codec.NewBitmap(d.frame.width, d.frame.height)
	if err != nil {
		return err
	}
	for y := 0; y < d.frame.height; y++ {
		blockRow := y / 8
		pixelRow := y % 8
		for x := 0; x < d.frame.width; x++ {
			blockColumn := x / 8
			pixelIndex := pixelRow*8 + x%8
			block := &macroblocks[blockRow*d.meta.hPadded+blockColumn]
			bitmap.SetPixel(x, y,
				byte(block.Y[pixelIndex]),
				byte(block.Cb[pixelIndex]),
				byte(block.Cr[pixelIndex]))
		}
	}
	d.bitmap = bitmap
	return nil
}
