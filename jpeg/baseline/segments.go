package baseline

import (
	"fmt"

	"github.com/cocosip/go-image-codec/jpeg/common"
)

// parseSOF reads the baseline frame header: precision, dimensions and the
// per-component sampling factors and quantization table bindings. The grid
// geometry in d.meta is derived here.
func (d *Decoder) parseSOF() error {
	if d.state == stateFrameDecoded {
		return fmt.Errorf("%w: repeated SOF", common.ErrMalformedSegment)
	}
	if _, err := d.reader.ReadSegmentLength(); err != nil {
		return err
	}

	precision, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	d.frame.precision = precision
	if precision != 8 {
		return fmt.Errorf("%w: precision %d", common.ErrUnsupportedProfile, precision)
	}

	height, err := d.reader.ReadUint16()
	if err != nil {
		return err
	}
	width, err := d.reader.ReadUint16()
	if err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d frame", common.ErrMalformedSegment, width, height)
	}
	if int(width) > d.params.MaxWidth || int(height) > d.params.MaxHeight {
		return fmt.Errorf("%w: %dx%d frame exceeds %dx%d limit",
			common.ErrBounds, width, height, d.params.MaxWidth, d.params.MaxHeight)
	}
	d.frame.width = int(width)
	d.frame.height = int(height)
	d.setMacroblockMetadata()

	count, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	if count != 1 && count != 3 {
		return fmt.Errorf("%w: %d components", common.ErrUnsupportedProfile, count)
	}
	d.componentCount = int(count)

	for i := 0; i < d.componentCount; i++ {
		var comp component
		comp.id, err = d.reader.ReadByte()
		if err != nil {
			return err
		}

		factors, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		comp.hSampleFactor = int(factors >> 4)
		comp.vSampleFactor = int(factors & 0x0F)

		if i == 0 {
			// A single-component scan is never interleaved, whatever
			// its declared factors say.
			if d.componentCount == 1 {
				comp.hSampleFactor = 1
				comp.vSampleFactor = 1
			}
			// Downsampling only applies to chroma, so the luma component
			// carries the maximum factors.
			if !d.validateLumaAndPad(comp) {
				return fmt.Errorf("%w: luma sampling factors %dx%d",
					common.ErrUnsupportedProfile, comp.hSampleFactor, comp.vSampleFactor)
			}
		} else if comp.hSampleFactor != 1 || comp.vSampleFactor != 1 {
			return fmt.Errorf("%w: chroma sampling factors %dx%d",
				common.ErrUnsupportedProfile, comp.hSampleFactor, comp.vSampleFactor)
		}

		qtable, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		if qtable > 1 {
			return fmt.Errorf("%w: quantization table id %d", common.ErrUnsupportedProfile, qtable)
		}
		comp.qTableID = qtable

		d.components = append(d.components, comp)
	}

	return nil
}

func (d *Decoder) setMacroblockMetadata() {
	d.meta.hCount = (d.frame.width + 7) / 8
	d.meta.vCount = (d.frame.height + 7) / 8
	d.meta.hPadded = d.meta.hCount
	d.meta.vPadded = d.meta.vCount
	d.meta.total = d.meta.hCount * d.meta.vCount
	d.meta.paddedTotal = d.meta.total
}

// validateLumaAndPad checks the luma factors and rounds the block grid up
// so that every MCU group owns a full factors-sized rectangle of cells.
func (d *Decoder) validateLumaAndPad(luma component) bool {
	if luma.hSampleFactor < 1 || luma.hSampleFactor > 2 ||
		luma.vSampleFactor < 1 || luma.vSampleFactor > 2 {
		return false
	}
	if luma.hSampleFactor == 2 {
		d.meta.hPadded += d.meta.hCount % 2
	}
	if luma.vSampleFactor == 2 {
		d.meta.vPadded += d.meta.vCount % 2
	}
	d.meta.paddedTotal = d.meta.hPadded * d.meta.vPadded
	d.hSampleFactor = luma.hSampleFactor
	d.vSampleFactor = luma.vSampleFactor
	return true
}

// parseDQT reads one or more quantization tables. Entries arrive in
// zig-zag scan order and are stored at their natural positions.
func (d *Decoder) parseDQT() error {
	remaining, err := d.reader.ReadSegmentLength()
	if err != nil {
		return err
	}
	for remaining > 0 {
		info, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		elementSize := info >> 4
		if elementSize > 1 {
			return fmt.Errorf("%w: quantization element size hint %d", common.ErrMalformedSegment, elementSize)
		}
		tableID := info & 0x0F
		if tableID > 1 {
			return fmt.Errorf("%w: quantization table id %d", common.ErrUnsupportedProfile, tableID)
		}
		table := &d.quantTables[tableID]
		for i := 0; i < 64; i++ {
			if elementSize == 0 {
				v, err := d.reader.ReadByte()
				if err != nil {
					return err
				}
				table[common.ZigZag[i]] = int32(v)
			} else {
				v, err := d.reader.ReadUint16()
				if err != nil {
					return err
				}
				table[common.ZigZag[i]] = int32(v)
			}
		}
		if elementSize == 0 {
			remaining -= 1 + 64
		} else {
			remaining -= 1 + 128
		}
	}
	if remaining != 0 {
		return fmt.Errorf("%w: quantization table overruns segment", common.ErrMalformedSegment)
	}
	return nil
}

// parseDHT reads one or more Huffman table specifications: a class/slot
// byte, 16 code-length counts and the symbol list. Codes are generated
// later, when the scan starts.
func (d *Decoder) parseDHT() error {
	remaining, err := d.reader.ReadSegmentLength()
	if err != nil {
		return err
	}
	for remaining > 0 {
		info, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		class := info >> 4
		if class > common.TableAC {
			return fmt.Errorf("%w: huffman table class %d", common.ErrMalformedSegment, class)
		}
		destination := info & 0x0F
		if destination > 1 {
			return fmt.Errorf("%w: huffman table destination id %d", common.ErrUnsupportedProfile, destination)
		}

		table := &common.HuffmanTable{Class: class, DestinationID: destination}
		totalCodes := 0
		for i := 0; i < 16; i++ {
			count, err := d.reader.ReadByte()
			if err != nil {
				return err
			}
			table.CodeCounts[i] = count
			totalCodes += int(count)
		}
		if totalCodes > 256 {
			return fmt.Errorf("%w: %d huffman codes declared", common.ErrMalformedSegment, totalCodes)
		}
		remaining -= 1 + 16 + totalCodes
		if remaining < 0 {
			return fmt.Errorf("%w: huffman table overruns segment", common.ErrMalformedSegment)
		}
		table.Symbols, err = d.reader.ReadBytes(totalCodes)
		if err != nil {
			return err
		}

		if class == common.TableDC {
			d.dcTables[destination] = table
		} else {
			d.acTables[destination] = table
		}
	}
	if remaining != 0 {
		return fmt.Errorf("%w: extra bytes in huffman segment", common.ErrMalformedSegment)
	}
	return nil
}

// parseDRI reads the restart interval: the number of MCUs between RSTn
// markers, 0 to disable.
func (d *Decoder) parseDRI() error {
	payload, err := d.reader.ReadSegmentLength()
	if err != nil {
		return err
	}
	if payload != 2 {
		return fmt.Errorf("%w: restart interval segment of %d bytes", common.ErrMalformedSegment, payload)
	}
	interval, err := d.reader.ReadUint16()
	if err != nil {
		return err
	}
	d.resetInterval = int(interval)
	return nil
}

// parseSOS binds Huffman table slots to components and pins the scan to
// baseline sequential: full spectral range, no successive approximation.
func (d *Decoder) parseSOS() error {
	if d.state < stateFrameDecoded {
		return fmt.Errorf("%w: SOS before SOF", common.ErrMalformedSegment)
	}
	if _, err := d.reader.ReadSegmentLength(); err != nil {
		return err
	}

	count, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	if int(count) != d.componentCount {
		return fmt.Errorf("%w: scan has %d components, frame has %d",
			common.ErrMalformedSegment, count, d.componentCount)
	}

	for i := 0; i < d.componentCount; i++ {
		id, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		comp := &d.components[i]
		if comp.id != id {
			return fmt.Errorf("%w: scan component id %d does not match frame id %d",
				common.ErrMalformedSegment, id, comp.id)
		}

		tableIDs, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		comp.dcTableID = tableIDs >> 4
		comp.acTableID = tableIDs & 0x0F

		if len(d.dcTables) != len(d.acTables) {
			return fmt.Errorf("%w: DC and AC table count mismatch", common.ErrMalformedSegment)
		}
		if _, ok := d.dcTables[comp.dcTableID]; !ok {
			return fmt.Errorf("%w: DC table %d does not exist", common.ErrUnsupportedProfile, comp.dcTableID)
		}
		if _, ok := d.acTables[comp.acTableID]; !ok {
			return fmt.Errorf("%w: AC table %d does not exist", common.ErrUnsupportedProfile, comp.acTableID)
		}
	}

	spectralStart, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	spectralEnd, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	approximation, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	if spectralStart != 0 || spectralEnd != 63 || approximation != 0 {
		return fmt.Errorf("%w: spectral selection [%d,%d], successive approximation %d",
			common.ErrUnsupportedProfile, spectralStart, spectralEnd, approximation)
	}
	return nil
}

// parseAPP reads an application segment. The payload begins with a
// null-terminated ASCII identifier; APP2 ICC_PROFILE segments feed the
// multi-chunk profile assembly and everything else is skipped.
func (d *Decoder) parseAPP(marker uint16) error {
	remaining, err := d.reader.ReadSegmentLength()
	if err != nil {
		return err
	}
	if remaining == 0 {
		return fmt.Errorf("%w: empty application segment", common.ErrMalformedSegment)
	}

	var identifier []byte
	for {
		if remaining == 0 {
			return fmt.Errorf("%w: unterminated application segment identifier", common.ErrMalformedSegment)
		}
		c, err := d.reader.ReadByte()
		if err != nil {
			return err
		}
		remaining--
		if c == 0 {
			break
		}
		identifier = append(identifier, c)
	}

	if marker == common.MarkerAPP2 && string(identifier) == "ICC_PROFILE" {
		return d.readICCChunk(remaining)
	}
	return d.reader.Skip(remaining)
}

// readICCChunk ingests one APP2 ICC chunk: a 1-based sequence number, the
// total chunk count, and the chunk payload. When the last chunk arrives
// the chunks are concatenated in sequence order.
func (d *Decoder) readICCChunk(remaining int) error {
	if remaining < 2 {
		return fmt.Errorf("%w: ICC chunk too small", common.ErrMalformedSegment)
	}
	sequence, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	total, err := d.reader.ReadByte()
	if err != nil {
		return err
	}
	remaining -= 2

	if total == 0 {
		return fmt.Errorf("%w: ICC chunk count is zero", common.ErrMalformedSegment)
	}
	if d.iccChunks == nil {
		d.iccChunks = &iccChunkState{chunks: make([][]byte, total)}
	}
	state := d.iccChunks

	if state.seen >= len(state.chunks) {
		return fmt.Errorf("%w: too many ICC chunks", common.ErrMalformedSegment)
	}
	if len(state.chunks) != int(total) {
		return fmt.Errorf("%w: inconsistent ICC chunk count", common.ErrMalformedSegment)
	}
	if sequence == 0 {
		return fmt.Errorf("%w: ICC chunk sequence number is not 1-based", common.ErrMalformedSegment)
	}
	index := int(sequence) - 1
	if index >= len(state.chunks) {
		return fmt.Errorf("%w: ICC chunk sequence %d of %d", common.ErrMalformedSegment, sequence, total)
	}
	if state.chunks[index] != nil {
		return fmt.Errorf("%w: duplicate ICC chunk %d", common.ErrMalformedSegment, sequence)
	}

	chunk, err := d.reader.ReadBytes(remaining)
	if err != nil {
		return err
	}
	state.chunks[index] = chunk
	state.seen++

	if state.seen != len(state.chunks) {
		return nil
	}

	size := 0
	for _, chunk := range state.chunks {
		size += len(chunk)
	}
	profile := make([]byte, 0, size)
	for _, chunk := range state.chunks {
		profile = append(profile, chunk...)
	}
	d.iccData = profile
	return nil
}
