package mdec

import (
	"image"
	"math"
)

// fdctCos[x][u] = C(u) * cos((2x+1)uπ/16) / 2, with C(0) = 1/√2.
// Applied along both axes it gives the usual F(u,v) = C(u)C(v)/4 ΣΣ f cos cos.
var fdctCos = buildFdctCos()

func buildFdctCos() *[8][8]float64 {
	t := &[8][8]float64{}
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			c := 0.5
			if u == 0 {
				c = math.Sqrt(1.0 / 8.0)
			}
			t[x][u] = c * math.Cos(float64(2*x+1)*float64(u)*math.Pi/16)
		}
	}

	return t
}

// fdct performs a 2D forward DCT on an 8x8 block in raster order.
func fdct(src, dst *[64]float64) {
	var tmp [64]float64

	// Rows
	for y := 0; y < 8; y++ {
		for u := 0; u < 8; u++ {
			sum := 0.0
			for x := 0; x < 8; x++ {
				sum += src[y*8+x] * fdctCos[x][u]
			}
			tmp[y*8+u] = sum
		}
	}

	// Columns
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				sum += tmp[y*8+u] * fdctCos[y][v]
			}
			dst[v*8+u] = sum
		}
	}
}

// samplePlanes converts img to a level shifted luma plane and two chroma
// planes, padded to whole macroblocks by repeating the edge pixels.
// Chroma is the average of each 2x2 group.
func samplePlanes(img image.Image, mbWidth, mbHeight int) (luma, cb, cr []float64) {
	b := img.Bounds()
	lumaWidth, lumaHeight := mbWidth*16, mbHeight*16
	chromaWidth, chromaHeight := mbWidth*8, mbHeight*8

	luma = make([]float64, lumaWidth*lumaHeight)
	fullCb := make([]float64, lumaWidth*lumaHeight)
	fullCr := make([]float64, lumaWidth*lumaHeight)

	for y := 0; y < lumaHeight; y++ {
		sy := b.Min.Y + y
		if sy >= b.Max.Y {
			sy = b.Max.Y - 1
		}

		for x := 0; x < lumaWidth; x++ {
			sx := b.Min.X + x
			if sx >= b.Max.X {
				sx = b.Max.X - 1
			}

			r16, g16, b16, _ := img.At(sx, sy).RGBA()
			r, g, bl := float64(r16>>8), float64(g16>>8), float64(b16>>8)

			i := y*lumaWidth + x
			luma[i] = 0.299*r + 0.587*g + 0.114*bl - 128
			fullCb[i] = -0.168736*r - 0.331264*g + 0.5*bl
			fullCr[i] = 0.5*r - 0.418688*g - 0.081312*bl
		}
	}

	cb = make([]float64, chromaWidth*chromaHeight)
	cr = make([]float64, chromaWidth*chromaHeight)

	for y := 0; y < chromaHeight; y++ {
		for x := 0; x < chromaWidth; x++ {
			i := (y*2)*lumaWidth + x*2
			j := y*chromaWidth + x
			cb[j] = (fullCb[i] + fullCb[i+1] + fullCb[i+lumaWidth] + fullCb[i+lumaWidth+1]) / 4
			cr[j] = (fullCr[i] + fullCr[i+1] + fullCr[i+lumaWidth] + fullCr[i+lumaWidth+1]) / 4
		}
	}

	return luma, cb, cr
}

// readBlock copies the 8x8 block at (x, y) of a plane.
func readBlock(plane []float64, stride, x, y int, dst *[64]float64) {
	for row := 0; row < 8; row++ {
		copy(dst[row*8:row*8+8], plane[(y+row)*stride+x:])
	}
}
