package baseline

import (
	"fmt"

	"github.com/cocosip/go-image-codec/jpeg/common"
)

// scanEntropyCodedSegment extracts the compressed scan bytes that follow
// SOS, up to EOI. Stuffed 0xFF00 pairs collapse to a data 0xFF, runs of
// 0xFF fill bytes vanish, and RSTn markers are passed through verbatim as
// two-byte sentinels for the restart logic to skip.
func (d *Decoder) scanEntropyCodedSegment() error {
	stream := make([]byte, 0, d.reader.Remaining())

	current, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	for {
		last := current
		current, err = d.reader.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: EOI not found", common.ErrEntropy)
		}

		if last != 0xFF {
			stream = append(stream, last)
			continue
		}
		switch {
		case current == 0xFF:
			// Fill byte.
		case current == 0x00:
			stream = append(stream, last)
			current, err = d.reader.ReadByte()
			if err != nil {
				return fmt.Errorf("%w: EOI not found", common.ErrEntropy)
			}
		case 0xFF00|uint16(current) == common.MarkerEOI:
			d.bitStream = common.BitStream{Data: stream}
			return nil
		case common.IsRST(0xFF00 | uint16(current)):
			stream = append(stream, last, current)
			current, err = d.reader.ReadByte()
			if err != nil {
				return fmt.Errorf("%w: EOI not found", common.ErrEntropy)
			}
		default:
			return fmt.Errorf("%w: %#04x inside entropy-coded segment",
				common.ErrUnexpectedMarker, 0xFF00|uint16(current))
		}
	}
}

// decodeMCUs walks the macroblock grid in raster order of luma MCU groups
// and Huffman-decodes every data unit into its coefficient plane. Restart
// intervals count whole MCU groups; at each boundary the DC predictors
// reset and the stream skips the byte-aligned RSTn sentinel.
func (d *Decoder) decodeMCUs() ([]Macroblock, error) {
	macroblocks := make([]Macroblock, d.meta.paddedTotal)

	for _, table := range d.dcTables {
		table.GenerateCodes()
	}
	for _, table := range d.acTables {
		table.GenerateCodes()
	}
	d.previousDC = [3]int32{}

	decoded := 0
	for vcursor := 0; vcursor < d.meta.vCount; vcursor += d.vSampleFactor {
		for hcursor := 0; hcursor < d.meta.hCount; hcursor += d.hSampleFactor {
			if d.resetInterval > 0 && decoded > 0 && decoded%d.resetInterval == 0 {
				d.previousDC = [3]int32{}
				d.bitStream.AlignToByte()
				d.bitStream.SkipBytes(2)
			}
			if err := d.decodeMCU(macroblocks, hcursor, vcursor); err != nil {
				return nil, err
			}
			decoded++
		}
	}
	return macroblocks, nil
}

// decodeMCU fills one MCU group: for each component in frame order, its
// vSampleFactor x hSampleFactor data units in row-major order. With 2x2
// luma sampling the first pass covers four Y cells before a single Cb and
// Cr block land in the group's top-left cell.
func (d *Decoder) decodeMCU(macroblocks []Macroblock, hcursor, vcursor int) error {
	for componentIndex := range d.components {
		comp := &d.components[componentIndex]
		dcTable := d.dcTables[comp.dcTableID]
		acTable := d.acTables[comp.acTableID]

		for vfi := 0; vfi < comp.vSampleFactor; vfi++ {
			for hfi := 0; hfi < comp.hSampleFactor; hfi++ {
				index := (vcursor+vfi)*d.meta.hPadded + hcursor + hfi
				block := macroblocks[index].plane(componentIndex)
				if err := d.decodeDataUnit(block, componentIndex, dcTable, acTable); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// decodeDataUnit decodes one 8x8 block: a differential DC coefficient
// followed by run-length coded AC coefficients in zig-zag order.
func (d *Decoder) decodeDataUnit(block *[64]int32, componentIndex int, dcTable, acTable *common.HuffmanTable) error {
	// The DC symbol is the bit length of the difference from the previous
	// block's DC value.
	dcLength, err := d.bitStream.NextSymbol(dcTable)
	if err != nil {
		return err
	}
	if dcLength > 11 {
		return fmt.Errorf("%w: DC coefficient of %d bits", common.ErrEntropy, dcLength)
	}
	magnitude, err := d.bitStream.ReadBits(int(dcLength))
	if err != nil {
		return err
	}
	d.previousDC[componentIndex] += common.Extend(magnitude, dcLength)
	block[0] = d.previousDC[componentIndex]

	// AC symbols pack a zero run length in the high nibble and the
	// coefficient bit length in the low nibble. 0x00 ends the block and
	// 0xF0 stuffs sixteen zeroes.
	for j := 1; j < 64; {
		symbol, err := d.bitStream.NextSymbol(acTable)
		if err != nil {
			return err
		}
		if symbol == 0 {
			break
		}

		runLength := int(symbol >> 4)
		if symbol == 0xF0 {
			runLength = 16
		}
		j += runLength
		if j >= 64 {
			return fmt.Errorf("%w: AC run length reaches position %d", common.ErrEntropy, j)
		}

		coefficientLength := symbol & 0x0F
		if coefficientLength > 10 {
			return fmt.Errorf("%w: AC coefficient of %d bits", common.ErrEntropy, coefficientLength)
		}
		if coefficientLength != 0 {
			magnitude, err := d.bitStream.ReadBits(int(coefficientLength))
			if err != nil {
				return err
			}
			block[common.ZigZag[j]] = common.Extend(magnitude, coefficientLength)
			j++
		}
	}
	return nil
}
