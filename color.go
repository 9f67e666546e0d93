package mdec

import (
	"image"
)

// RGBA converts the decoded planes into a new image.RGBA.
func (d *Decoder) RGBA() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	if err := d.ReadRGBA(img); err != nil {
		return nil, err
	}

	return img, nil
}

// ReadRGBA converts the decoded planes into dst, which must be the size of the frame.
//
// Chroma is shared by each 2x2 group of luma samples. The width must be a
// multiple of 16 and the height a multiple of 2.
func (d *Decoder) ReadRGBA(dst *image.RGBA) error {
	width, height := d.width, d.height

	if width%16 != 0 || height%2 != 0 {
		return ErrUnsupportedDimensions
	}
	if b := dst.Bounds(); b.Dx() != width || b.Dy() != height {
		return ErrUnsupportedDimensions
	}

	for x, mbX := 0, 0; x < width; x, mbX = x+16, mbX+1 {
		lumaOfs := mbX * d.mbHeight * 256
		chromaOfs := mbX * d.mbHeight * 64

		for y := 0; y < height; y += 16 {
			blockHeight := 16
			if y+16 > height {
				blockHeight = height - y
			}

			for cy := 0; cy < blockHeight; cy += 2 {
				for cx := 0; cx < 16; cx += 2 {
					cr := d.cr[chromaOfs]
					cb := d.cb[chromaOfs]

					red := crToRed(cr)
					green := cbToGreen(cb) + crToGreen(cr)
					blue := cbToBlue(cb)

					q := &lumaSubsampling[chromaOfs&63]

					i := dst.PixOffset(x+cx, y+cy)
					setPixel(dst.Pix[i:], d.luma[lumaOfs+q.TL]+128, red, green, blue)
					setPixel(dst.Pix[i+4:], d.luma[lumaOfs+q.TR]+128, red, green, blue)

					i += dst.Stride
					setPixel(dst.Pix[i:], d.luma[lumaOfs+q.BL]+128, red, green, blue)
					setPixel(dst.Pix[i+4:], d.luma[lumaOfs+q.BR]+128, red, green, blue)

					chromaOfs++
				}
			}

			lumaOfs += 256
		}
	}

	return nil
}

// Fixed point (x/1024) approximations of
//
//	R = Y + 1.402 Cr
//	G = Y - 0.344 Cb - 0.714 Cr
//	B = Y + 1.772 Cb
func crToRed(cr int) int {
	return (1434 * cr) >> 10
}

func cbToGreen(cb int) int {
	return (-351 * cb) >> 10
}

func crToGreen(cr int) int {
	return (-728 * cr) >> 10
}

func cbToBlue(cb int) int {
	return (1807 * cb) >> 10
}

func setPixel(p []byte, y, red, green, blue int) {
	p[0] = clamp(y + red)
	p[1] = clamp(y + green)
	p[2] = clamp(y + blue)
	p[3] = 0xff
}

func clamp(n int) byte {
	if n > 255 {
		n = 255
	} else if n < 0 {
		n = 0
	}

	return byte(n)
}
