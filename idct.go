package mdec

import "math"

const basisShift = 16

// idctBasis[p] is the spatial expansion of a unit coefficient at raster position p,
// scaled by 1<<basisShift.
var idctBasis = buildIdctBasis()

func buildIdctBasis() *[64][64]int32 {
	var cos [8][8]float64
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			c := 1.0
			if u == 0 {
				c = math.Sqrt2 / 2
			}
			cos[x][u] = c * math.Cos(float64(2*x+1)*float64(u)*math.Pi/16)
		}
	}

	basis := &[64][64]int32{}
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					f := cos[x][u] * cos[y][v] / 4
					basis[v*8+u][y*8+x] = int32(math.Round(f * (1 << basisShift)))
				}
			}
		}
	}

	return basis
}

// idctZero writes an all zero block.
func idctZero(dst []int) {
	for i := range dst[:64] {
		dst[i] = 0
	}
}

// idctOne expands a single coefficient at raster position pos into dst.
func idctOne(coeff, pos int, dst []int) {
	b := &idctBasis[pos]
	for i := 0; i < 64; i++ {
		dst[i] = (coeff*int(b[i]) + (1 << (basisShift - 1))) >> basisShift
	}
}

// idctFull transforms a block of dequantized coefficients into dst, using scratch as work space.
func idctFull(coeffs, scratch *[64]int, dst []int) {
	for i := 0; i < 64; i++ {
		scratch[i] = coeffs[i] * premultiplierMatrix[i]
	}

	idct(scratch)
	copy(dst[:64], scratch[:])
}

// idct is the AAN inverse transform. It expects coefficients premultiplied with premultiplierMatrix.
func idct(block *[64]int) {
	// See http://vsr.informatik.tu-chemnitz.de/~jan/MPEG/HTML/IDCT.html for more info.

	var b1, b3, b4, b6, b7, tmp1, tmp2, m0,
		x0, x1, x2, x3, x4, y3, y4, y5, y6, y7 int

	// Transform columns
	for i := 0; i < 8; i++ {
		b1 = block[4*8+i]
		b3 = block[2*8+i] + block[6*8+i]
		b4 = block[5*8+i] - block[3*8+i]
		tmp1 = block[1*8+i] + block[7*8+i]
		tmp2 = block[3*8+i] + block[5*8+i]
		b6 = block[1*8+i] - block[7*8+i]
		b7 = tmp1 + tmp2
		m0 = block[0*8+i]
		x4 = ((b6*473 - b4*196 + 128) >> 8) - b7
		x0 = x4 - (((tmp1-tmp2)*362 + 128) >> 8)
		x1 = m0 - b1
		x2 = (((block[2*8+i]-block[6*8+i])*362 + 128) >> 8) - b3
		x3 = m0 + b1
		y3 = x1 + x2
		y4 = x3 + b3
		y5 = x1 - x2
		y6 = x3 - b3
		y7 = -x0 - ((b4*473 + b6*196 + 128) >> 8)
		block[0*8+i] = b7 + y4
		block[1*8+i] = x4 + y3
		block[2*8+i] = y5 - x0
		block[3*8+i] = y6 - y7
		block[4*8+i] = y6 + y7
		block[5*8+i] = x0 + y5
		block[6*8+i] = y3 - x4
		block[7*8+i] = y4 - b7
	}

	// Transform rows
	for i := 0; i < 64; i += 8 {
		b1 = block[4+i]
		b3 = block[2+i] + block[6+i]
		b4 = block[5+i] - block[3+i]
		tmp1 = block[1+i] + block[7+i]
		tmp2 = block[3+i] + block[5+i]
		b6 = block[1+i] - block[7+i]
		b7 = tmp1 + tmp2
		m0 = block[0+i]
		x4 = ((b6*473 - b4*196 + 128) >> 8) - b7
		x0 = x4 - (((tmp1-tmp2)*362 + 128) >> 8)
		x1 = m0 - b1
		x2 = (((block[2+i]-block[6+i])*362 + 128) >> 8) - b3
		x3 = m0 + b1
		y3 = x1 + x2
		y4 = x3 + b3
		y5 = x1 - x2
		y6 = x3 - b3
		y7 = -x0 - ((b4*473 + b6*196 + 128) >> 8)
		block[0+i] = (b7 + y4 + 128) >> 8
		block[1+i] = (x4 + y3 + 128) >> 8
		block[2+i] = (y5 - x0 + 128) >> 8
		block[3+i] = (y6 - y7 + 128) >> 8
		block[4+i] = (y6 + y7 + 128) >> 8
		block[5+i] = (x0 + y5 + 128) >> 8
		block[6+i] = (y3 - x4 + 128) >> 8
		block[7+i] = (y4 - b7 + 128) >> 8
	}
}
