package mdec

// Variant holds what differs between bitstream formats sharing the MPEG-1
// AC codes: where the qscale and DC of a block go, and how the header is built.
type Variant interface {
	// Reset prepares the variant for a new frame.
	Reset(width, height int)

	// SetBlockQscale records the quantization scale of a block.
	SetBlockQscale(block, qscale int)

	// EncodeDC stores the DC coefficient of a block, either in w or on the side.
	EncodeDC(block, dc int, w *BitWriter)

	// BuildHeader returns the bytes preceding the bitstream.
	BuildHeader(codeCount int) ([]byte, error)
}

// Compressor turns MDEC codes back into a frame. The AC codes are written with
// the MPEG-1 variable length codes, everything else is left to the Variant.
//
// A Compressor reuses its buffers and must not be shared between goroutines.
type Compressor struct {
	variant Variant
	bits    BitWriter
}

// NewCompressor creates a compressor for the given format variant.
func NewCompressor(variant Variant) *Compressor {
	return &Compressor{variant: variant}
}

// Compress reads the codes of every block of a width x height frame from r.
func (c *Compressor) Compress(r CodeReader, width, height int) ([]byte, error) {
	c.variant.Reset(width, height)
	c.bits.Reset()

	var code Code

	codes := 0
	blocks := Blocks(width, height)

	for block := 0; block < blocks; block++ {
		if _, err := r.ReadCode(&code); err != nil {
			return nil, err
		}

		c.variant.SetBlockQscale(block, code.Top6)
		c.variant.EncodeDC(block, code.Bottom10, &c.bits)
		codes++

		for {
			eob, err := r.ReadCode(&code)
			if err != nil {
				return nil, err
			}
			codes++

			if eob {
				c.bits.writeVlc(acVlcEOB)
				break
			}

			c.writeAC(code)
		}
	}

	header, err := c.variant.BuildHeader(codes)
	if err != nil {
		return nil, err
	}

	data := c.bits.Bytes()
	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	out = append(out, data...)

	return out, nil
}

func (c *Compressor) writeAC(code Code) {
	run, level := code.Top6, code.Bottom10

	sign := uint32(0)
	abs := level
	if level < 0 {
		sign = 1
		abs = -level
	}

	if run == 0 && abs == 1 {
		c.bits.writeVlc(acVlcRun0)
		c.bits.Write(sign, 1)

		return
	}

	if abs > 0 && abs <= 0xff {
		if vc, ok := acVlcCodes[uint16(run<<8|abs)]; ok {
			c.bits.writeVlc(vc)
			c.bits.Write(sign, 1)

			return
		}
	}

	c.bits.writeVlc(acVlcEscape)
	c.bits.Write(uint32(code.Word()), 16)
}

// IkiFormat is the Variant of iki frames: qscale and DC of every block go to
// a table compressed with LZSS in the header.
type IkiFormat struct {
	width  int
	height int
	qscale int

	top    []byte
	bottom []byte
	table  []byte

	lzss lzssCompressor
}

// Reset implements Variant.
func (f *IkiFormat) Reset(width, height int) {
	f.width = width
	f.height = height
	f.qscale = 0
	f.top = f.top[:0]
	f.bottom = f.bottom[:0]
}

// SetBlockQscale implements Variant.
func (f *IkiFormat) SetBlockQscale(block, qscale int) {
	f.qscale = qscale
}

// EncodeDC implements Variant. Nothing is written to the bitstream.
func (f *IkiFormat) EncodeDC(block, dc int, w *BitWriter) {
	word := Code{Top6: f.qscale, Bottom10: dc}.Word()
	f.top = append(f.top, byte(word>>8))
	f.bottom = append(f.bottom, byte(word))
}

// BuildHeader implements Variant.
func (f *IkiFormat) BuildHeader(codeCount int) ([]byte, error) {
	count := halfCeiling32(codeCount)
	if count > 0xffff {
		return nil, ErrTooManyCodes
	}
	if f.width > 0x7fff || f.height > 0x7fff {
		return nil, ErrUnsupportedDimensions
	}

	// High bytes of all blocks first, then the low bytes
	f.table = append(f.table[:0], f.top...)
	f.table = append(f.table, f.bottom...)

	compressed := f.lzss.compress(f.table, nil)

	return WriteHeader(Header{CodeCount: count, Width: f.width, Height: f.height}, compressed), nil
}

// halfCeiling32 is the code count stored in headers: half the codes, rounded up to a multiple of 32.
func halfCeiling32(codeCount int) int {
	return (((codeCount + 1) / 2) + 31) &^ 31
}
