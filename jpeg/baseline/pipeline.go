package baseline

import (
	"github.com/cocosip/go-image-codec/jpeg/common"
)

// forEachDataUnit visits every data unit of every MCU group, handing the
// callback the component index and the block's coefficient plane. All the
// numeric pipeline stages share this traversal, including the padding
// cells, which are processed but never reach the output bitmap.
func (d *Decoder) forEachDataUnit(macroblocks []Macroblock, visit func(componentIndex int, block *[64]int32)) {
	for vcursor := 0; vcursor < d.meta.vCount; vcursor += d.vSampleFactor {
		for hcursor := 0; hcursor < d.meta.hCount; hcursor += d.hSampleFactor {
			for componentIndex := range d.components {
				comp := &d.components[componentIndex]
				for vfi := 0; vfi < comp.vSampleFactor; vfi++ {
					for hfi := 0; hfi < comp.hSampleFactor; hfi++ {
						index := (vcursor+vfi)*d.meta.hPadded + hcursor + hfi
						visit(componentIndex, macroblocks[index].plane(componentIndex))
					}
				}
			}
		}
	}
}

// dequantize multiplies every coefficient by its quantization table entry,
// in place.
func (d *Decoder) dequantize(macroblocks []Macroblock) {
	d.forEachDataUnit(macroblocks, func(componentIndex int, block *[64]int32) {
		table := &d.quantTables[d.components[componentIndex].qTableID]
		for k := 0; k < 64; k++ {
			block[k] *= table[k]
		}
	})
}

// inverseDCT transforms every data unit from frequency to sample space.
func (d *Decoder) inverseDCT(macroblocks []Macroblock) {
	d.forEachDataUnit(macroblocks, func(_ int, block *[64]int32) {
		common.InverseDCT(block)
	})
}

// ycbcrToRGB expands the shared chroma block across each MCU group's luma
// cells and converts to RGB in place. The chroma planes live in the
// group's top-left cell and would be overwritten mid-loop, so they are
// copied to scratch first.
func (d *Decoder) ycbcrToRGB(macroblocks []Macroblock) {
	for vcursor := 0; vcursor < d.meta.vCount; vcursor += d.vSampleFactor {
		for hcursor := 0; hcursor < d.meta.hCount; hcursor += d.hSampleFactor {
			chroma := &macroblocks[vcursor*d.meta.hPadded+hcursor]
			cb := chroma.Cb
			cr := chroma.Cr

			for vfi := 0; vfi < d.vSampleFactor; vfi++ {
				for hfi := 0; hfi < d.hSampleFactor; hfi++ {
					block := &macroblocks[(vcursor+vfi)*d.meta.hPadded+hcursor+hfi]
					for i := 0; i < 8; i++ {
						chromaRow := i/d.vSampleFactor + 4*vfi
						for j := 0; j < 8; j++ {
							chromaColumn := j/d.hSampleFactor + 4*hfi
							pixel := i*8 + j
							chromaPixel := chromaRow*8 + chromaColumn

							y := float32(block.Y[pixel])
							r := int32(y + 1.402*float32(cr[chromaPixel]) + 128)
							g := int32(y - 0.344*float32(cb[chromaPixel]) - 0.714*float32(cr[chromaPixel]) + 128)
							b := int32(y + 1.772*float32(cb[chromaPixel]) + 128)

							block.Y[pixel] = common.Clamp(r, 0, 255)
							block.Cb[pixel] = common.Clamp(g, 0, 255)
							block.Cr[pixel] = common.Clamp(b, 0, 255)
						}
					}
				}
			}
		}
	}
}
