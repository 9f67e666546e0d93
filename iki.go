package mdec

import (
	"errors"
	"log/slog"
)

// EndOfBlock is the MDEC code word terminating a block.
const EndOfBlock = 0xFE00

// Code is one MDEC code: a 6-bit field and a signed 10-bit field.
// The first code of a block holds (qscale, DC), the following ones (run, AC).
type Code struct {
	Top6     int
	Bottom10 int
}

// Set unpacks a 16-bit code word.
func (c *Code) Set(word uint16) {
	c.Top6 = int(word >> 10)
	c.Bottom10 = int(int16(word<<6) >> 6)
}

// Word packs the code into a 16-bit word.
func (c Code) Word() uint16 {
	return uint16(c.Top6&0x3f)<<10 | uint16(c.Bottom10&0x3ff)
}

// IsEOB reports whether c is the end of block marker.
func (c Code) IsEOB() bool {
	return c.Word() == EndOfBlock
}

// CodeReader is a source of MDEC codes, block after block.
// ReadCode returns eob true for the code terminating a block.
type CodeReader interface {
	ReadCode(code *Code) (eob bool, err error)
}

// IkiReader reads the MDEC codes of an iki frame: qscale and DC come from the
// header table, the AC codes from the bitstream that follows it.
//
// An IkiReader must not be shared between goroutines.
type IkiReader struct {
	header Header
	bits   BitReader

	currentBlock int
	blockStart   bool

	logger *slog.Logger
}

// NewIkiReader creates a reader positioned on frame.
func NewIkiReader(frame []byte) (*IkiReader, error) {
	r := &IkiReader{}
	if err := r.Reset(frame); err != nil {
		return nil, err
	}

	return r, nil
}

// SetLogger sets the logger, slog.Default() is used when not set.
func (r *IkiReader) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

func (r *IkiReader) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}

	return r.logger
}

// Reset parses the header of frame and positions the reader on its first block.
func (r *IkiReader) Reset(frame []byte) error {
	if err := r.header.Parse(frame); err != nil {
		if errors.Is(err, ErrIncompleteHeader) {
			r.log().Warn("incomplete iki frame header", slog.Int("size", len(frame)))
		}

		return err
	}

	r.bits.Reset(frame, r.header.DataOffset())
	r.currentBlock = 0
	r.blockStart = true

	return nil
}

// Header returns the header of the current frame.
func (r *IkiReader) Header() *Header {
	return &r.header
}

// Width returns the frame width.
func (r *IkiReader) Width() int {
	return r.header.Width
}

// Height returns the frame height.
func (r *IkiReader) Height() int {
	return r.header.Height
}

// Position returns the byte offset of the bitstream word being read.
func (r *IkiReader) Position() int {
	return r.bits.Position()
}

// ReadCode implements CodeReader.
func (r *IkiReader) ReadCode(code *Code) (bool, error) {
	if r.blockStart {
		if r.currentBlock >= r.header.BlockCount {
			return false, ErrEndOfStream
		}

		*code = r.header.Code(r.currentBlock)
		r.currentBlock++
		r.blockStart = false

		return false, nil
	}

	coeff := r.bits.readVlcUint(acVlc)
	if r.bits.Overrun() {
		return false, ErrEndOfStream
	}

	switch coeff {
	case 0:
		return false, ErrInvalidCode
	case 0x0001:
		// "10" end of block, "11s" run 0 level 1
		if r.bits.read1() == 0 {
			code.Set(EndOfBlock)
			r.blockStart = true

			return true, r.overrun()
		}

		code.Top6 = 0
		code.Bottom10 = 1
		if r.bits.read1() != 0 {
			code.Bottom10 = -1
		}
	case 0xffff:
		// escape: 6 bit run, 10 bit signed level
		code.Set(uint16(r.bits.read(16)))
	default:
		code.Top6 = int(coeff >> 8)
		code.Bottom10 = int(coeff & 0xff)
		if r.bits.read1() != 0 {
			code.Bottom10 = -code.Bottom10
		}
	}

	return false, r.overrun()
}

func (r *IkiReader) overrun() error {
	if r.bits.Overrun() {
		return ErrEndOfStream
	}

	return nil
}
