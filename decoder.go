package mdec

import (
	"log/slog"
)

// Decoder is an integer implementation of the PlayStation MDEC chip. It turns
// MDEC codes into three planes of signed samples: Cr and Cb with 64 samples per
// macroblock, luma with 256. Each 8x8 block is stored contiguously and
// macroblocks follow the column-major order of the bitstream.
//
// A Decoder owns its planes and scratch blocks and must not be used from
// several goroutines at once. Use one Decoder per goroutine.
type Decoder struct {
	width    int
	height   int
	mbWidth  int
	mbHeight int

	quantMatrix [64]int

	cr   []int
	cb   []int
	luma []int

	block   [64]int
	scratch [64]int
	code    Code

	logger *slog.Logger
}

// NewDecoder creates a decoder for frames of the given dimensions.
func NewDecoder(width, height int) *Decoder {
	d := &Decoder{}
	d.quantMatrix = DefaultQuantMatrix()
	d.resize(width, height)

	return d
}

// SetLogger sets the logger, slog.Default() is used when not set.
func (d *Decoder) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Decoder) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}

	return d.logger
}

// SetQuantMatrix replaces the quantization matrix (raster order) used for dequantization.
func (d *Decoder) SetQuantMatrix(matrix [64]int) {
	d.quantMatrix = matrix
}

// Width returns the frame width.
func (d *Decoder) Width() int {
	return d.width
}

// Height returns the frame height.
func (d *Decoder) Height() int {
	return d.height
}

// MacroblockWidth returns the number of macroblock columns.
func (d *Decoder) MacroblockWidth() int {
	return d.mbWidth
}

// MacroblockHeight returns the number of macroblock rows.
func (d *Decoder) MacroblockHeight() int {
	return d.mbHeight
}

// Planes returns the decoded Cr, Cb and luma planes. They are overwritten by the next decode.
func (d *Decoder) Planes() (cr, cb, luma []int) {
	return d.cr, d.cb, d.luma
}

// Resize changes the frame dimensions. The planes are kept when the macroblock grid does not change.
func (d *Decoder) Resize(width, height int) {
	d.resize(width, height)
}

func (d *Decoder) resize(width, height int) {
	d.width = width
	d.height = height

	mbWidth := (width + 15) >> 4
	mbHeight := (height + 15) >> 4
	if mbWidth == d.mbWidth && mbHeight == d.mbHeight && d.luma != nil {
		return
	}

	d.mbWidth = mbWidth
	d.mbHeight = mbHeight

	chromaSize := mbWidth * mbHeight * 64
	base := make([]int, chromaSize*6)

	d.cr = base[0:chromaSize:chromaSize]
	d.cb = base[chromaSize : 2*chromaSize : 2*chromaSize]
	d.luma = base[2*chromaSize:]
}

// DecodeFrame decodes an iki frame. The decoder is resized to the frame dimensions.
func (d *Decoder) DecodeFrame(frame []byte) error {
	r, err := NewIkiReader(frame)
	if err != nil {
		return err
	}
	r.SetLogger(d.logger)

	d.resize(r.Width(), r.Height())

	return d.Decode(r)
}

// Decode reads all the macroblocks of a frame from r.
//
// When decoding fails, the failing block and every block after it are zeroed,
// so the planes always hold a complete (partially gray) frame, and the error is
// returned as a *CorruptError locating the failure.
func (d *Decoder) Decode(r CodeReader) error {
	mb, block := 0, 0

	var err error

decode:
	for mbX := 0; mbX < d.mbWidth; mbX++ {
		for mbY := 0; mbY < d.mbHeight; mbY++ {
			for block = 0; block < 6; block++ {
				err = d.decodeBlock(r, mb, block)
				if err != nil {
					err = locate(err, mb, mbX, mbY, block)

					break decode
				}
			}

			mb++
		}
	}

	if err == nil {
		return nil
	}

	// Fill in the remaining data with zeros
	total := d.mbWidth * d.mbHeight
	for ; mb < total; mb++ {
		for ; block < 6; block++ {
			d.writeBlock(mb, block, 0, 0)
		}
		block = 0
	}

	d.log().Debug("partial frame", slog.String("error", err.Error()))

	return err
}

// locate attaches the macroblock coordinate to a block decoding error.
func locate(err error, mb, mbX, mbY, block int) error {
	if ce, ok := err.(*CorruptError); ok {
		ce.Macroblock, ce.MbX, ce.MbY, ce.Block = mb, mbX, mbY, block

		return ce
	}

	return &CorruptError{Macroblock: mb, MbX: mbX, MbY: mbY, Block: block, Err: err}
}

func (d *Decoder) decodeBlock(r CodeReader, mb, block int) error {
	for i := range d.block {
		d.block[i] = 0
	}

	code := &d.code
	if _, err := r.ReadCode(code); err != nil {
		return err
	}

	nonZero := 0
	lastPos := 0
	if code.Bottom10 != 0 {
		d.block[0] = code.Bottom10 * d.quantMatrix[0]
		nonZero = 1
	}
	qscale := code.Top6

	pos := 0
	for {
		eob, err := r.ReadCode(code)
		if err != nil {
			return err
		}
		if eob {
			break
		}

		pos += code.Top6 + 1
		if pos > 63 {
			return &CorruptError{Macroblock: -1, Position: pos, Reason: "run length out of bounds"}
		}

		// Reverse zigzag and dequantize at the same time.
		// (i + 4) >> 3 rounds i / 8
		raster := zigZag[pos]
		d.block[raster] = (code.Bottom10*d.quantMatrix[raster]*qscale + 4) >> 3
		nonZero++
		lastPos = raster
	}

	d.writeBlock(mb, block, nonZero, lastPos)

	return nil
}

func (d *Decoder) writeBlock(mb, block, nonZero, lastPos int) {
	var dst []int
	switch block {
	case 0:
		dst = d.cr[mb*64:]
	case 1:
		dst = d.cb[mb*64:]
	default:
		dst = d.luma[mb*256+(block-2)*64:]
	}

	switch nonZero {
	case 0:
		idctZero(dst)
	case 1:
		idctOne(d.block[lastPos], lastPos, dst)
	default:
		idctFull(&d.block, &d.scratch, dst)
	}
}
