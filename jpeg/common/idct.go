package common

import "math"

// Constants for the AAN (Arai-Agui-Nakajima) factorization of the 8-point
// IDCT: 13 multiplies (8 of them the input scaling) and 30 adds per
// one-dimensional pass. The s values
// fold the DCT normalization into the input scaling.
var (
	m0 = float32(2 * math.Cos(1.0/16.0*2*math.Pi))
	m1 = float32(2 * math.Cos(2.0/16.0*2*math.Pi))
	m3 = float32(2 * math.Cos(2.0/16.0*2*math.Pi))
	m5 = float32(2 * math.Cos(3.0/16.0*2*math.Pi))
	m2 = m0 - m5
	m4 = m0 + m5

	s0 = float32(math.Cos(0.0/16.0*math.Pi) / math.Sqrt(8))
	s1 = float32(math.Cos(1.0/16.0*math.Pi) / 2)
	s2 = float32(math.Cos(2.0/16.0*math.Pi) / 2)
	s3 = float32(math.Cos(3.0/16.0*math.Pi) / 2)
	s4 = float32(math.Cos(4.0/16.0*math.Pi) / 2)
	s5 = float32(math.Cos(5.0/16.0*math.Pi) / 2)
	s6 = float32(math.Cos(6.0/16.0*math.Pi) / 2)
	s7 = float32(math.Cos(7.0/16.0*math.Pi) / 2)
)

// InverseDCT applies the two-dimensional 8x8 inverse DCT in place: one
// butterfly pass down each column, then one across each row. Results are
// truncated to integers; the color conversion applies the +128 level shift.
func InverseDCT(block *[64]int32) {
	for k := 0; k < 8; k++ {
		g0 := float32(block[0*8+k]) * s0
		g1 := float32(block[4*8+k]) * s4
		g2 := float32(block[2*8+k]) * s2
		g3 := float32(block[6*8+k]) * s6
		g4 := float32(block[5*8+k]) * s5
		g5 := float32(block[1*8+k]) * s1
		g6 := float32(block[7*8+k]) * s7
		g7 := float32(block[3*8+k]) * s3

		f4 := g4 - g7
		f5 := g5 + g6
		f6 := g5 - g6
		f7 := g4 + g7

		e2 := g2 - g3
		e3 := g2 + g3
		e5 := f5 - f7
		e7 := f5 + f7
		e8 := f4 + f6

		d2 := e2 * m1
		d4 := f4 * m2
		d5 := e5 * m3
		d6 := f6 * m4
		d8 := e8 * m5

		c0 := g0 + g1
		c1 := g0 - g1
		c2 := d2 - e3
		c4 := d4 + d8
		c5 := d5 + e7
		c6 := d6 - d8
		c8 := c5 - c6

		b0 := c0 + e3
		b1 := c1 + c2
		b2 := c1 - c2
		b3 := c0 - e3
		b4 := c4 - c8
		b6 := c6 - e7

		block[0*8+k] = int32(b0 + e7)
		block[1*8+k] = int32(b1 + b6)
		block[2*8+k] = int32(b2 + c8)
		block[3*8+k] = int32(b3 + b4)
		block[4*8+k] = int32(b3 - b4)
		block[5*8+k] = int32(b2 - c8)
		block[6*8+k] = int32(b1 - b6)
		block[7*8+k] = int32(b0 - e7)
	}
	for l := 0; l < 8; l++ {
		g0 := float32(block[l*8+0]) * s0
		g1 := float32(block[l*8+4]) * s4
		g2 := float32(block[l*8+2]) * s2
		g3 := float32(block[l*8+6]) * s6
		g4 := float32(block[l*8+5]) * s5
		g5 := float32(block[l*8+1]) * s1
		g6 := float32(block[l*8+7]) * s7
		g7 := float32(block[l*8+3]) * s3

		f4 := g4 - g7
		f5 := g5 + g6
		f6 := g5 - g6
		f7 := g4 + g7

		e2 := g2 - g3
		e3 := g2 + g3
		e5 := f5 - f7
		e7 := f5 + f7
		e8 := f4 + f6

		d2 := e2 * m1
		d4 := f4 * m2
		d5 := e5 * m3
		d6 := f6 * m4
		d8 := e8 * m5

		c0 := g0 + g1
		c1 := g0 - g1
		c2 := d2 - e3
		c4 := d4 + d8
		c5 := d5 + e7
		c6 := d6 - d8
		c8 := c5 - c6

		b0 := c0 + e3
		b1 := c1 + c2
		b2 := c1 - c2
		b3 := c0 - e3
		b4 := c4 - c8
		b6 := c6 - e7

		block[l*8+0] = int32(b0 + e7)
		block[l*8+1] = int32(b1 + b6)
		block[l*8+2] = int32(b2 + c8)
		block[l*8+3] = int32(b3 + b4)
		block[l*8+4] = int32(b3 - b4)
		block[l*8+5] = int32(b2 - c8)
		block[l*8+6] = int32(b1 - b6)
		block[l*8+7] = int32(b0 - e7)
	}
}

// Clamp limits v to the inclusive range [lo, hi]
func Clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
