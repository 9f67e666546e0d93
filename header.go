package mdec

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the size of the fixed iki frame header.
	HeaderSize = 10

	// Magic is the format tag stored at offset 2.
	Magic = 0x3800
)

// Header is the iki frame header with its decompressed qscale/DC table.
type Header struct {
	CodeCount      int
	Width          int
	Height         int
	CompressedSize int
	BlockCount     int

	// Table holds the high byte of every block's qscale/DC code, followed by the low bytes.
	Table []byte
}

// ParseHeader parses the header and decompresses the table of an iki frame.
func ParseHeader(frame []byte) (*Header, error) {
	h := &Header{}
	if err := h.Parse(frame); err != nil {
		return nil, err
	}

	return h, nil
}

// Parse parses the header of frame into h, reusing the memory of h.Table.
func (h *Header) Parse(frame []byte) error {
	if len(frame) < HeaderSize {
		return ErrNotRecognized
	}

	codeCount := int(binary.LittleEndian.Uint16(frame[0:]))
	magic := binary.LittleEndian.Uint16(frame[2:])
	width := int(int16(binary.LittleEndian.Uint16(frame[4:])))
	height := int(int16(binary.LittleEndian.Uint16(frame[6:])))
	compressedSize := int(binary.LittleEndian.Uint16(frame[8:]))

	if codeCount < 1 || magic != Magic || width < 1 || height < 1 || compressedSize < 1 {
		return ErrNotRecognized
	}

	if len(frame) < HeaderSize+compressedSize {
		return ErrIncompleteHeader
	}

	h.CodeCount = codeCount
	h.Width = width
	h.Height = height
	h.CompressedSize = compressedSize
	h.BlockCount = Blocks(width, height)

	tableSize := h.BlockCount * 2
	if cap(h.Table) < tableSize {
		h.Table = make([]byte, tableSize)
	}
	h.Table = h.Table[:tableSize]

	_, err := DecompressTable(h.Table, frame[HeaderSize:HeaderSize+compressedSize])
	if ce, ok := err.(*CorruptError); ok {
		// Report the offset in the frame, not in the table
		ce.Position += HeaderSize
	}

	return err
}

// Code returns the qscale/DC code of a block.
func (h *Header) Code(block int) Code {
	var c Code
	c.Set(uint16(h.Table[block])<<8 | uint16(h.Table[block+h.BlockCount]))

	return c
}

// QscaleRange returns the smallest and largest quantization scale used by the frame.
func (h *Header) QscaleRange() (min, max int) {
	min, max = 64, 0
	for i := 0; i < h.BlockCount; i++ {
		qs := h.Code(i).Top6
		if qs < min {
			min = qs
		}
		if qs > max {
			max = qs
		}
	}

	return min, max
}

// DataOffset returns the offset of the bitstream that follows the table.
func (h *Header) DataOffset() int {
	return HeaderSize + h.CompressedSize
}

func (h *Header) String() string {
	if len(h.Table) == 0 {
		return fmt.Sprintf("Iki %dx%d codes=%d", h.Width, h.Height, h.CodeCount)
	}

	min, max := h.QscaleRange()

	return fmt.Sprintf("Iki %dx%d codes=%d blocks=%d table=%d Qscale=%d-%d",
		h.Width, h.Height, h.CodeCount, h.BlockCount, h.CompressedSize, min, max)
}

// WriteHeader serializes h followed by the compressed table, padded to an even size.
// The CompressedSize field of h is ignored, the padded table size is written instead.
func WriteHeader(h Header, compressedTable []byte) []byte {
	size := len(compressedTable)
	if size%2 != 0 {
		size++
	}

	buf := make([]byte, HeaderSize+size)
	binary.LittleEndian.PutUint16(buf[0:], uint16(h.CodeCount))
	binary.LittleEndian.PutUint16(buf[2:], Magic)
	binary.LittleEndian.PutUint16(buf[4:], uint16(int16(h.Width)))
	binary.LittleEndian.PutUint16(buf[6:], uint16(int16(h.Height)))
	binary.LittleEndian.PutUint16(buf[8:], uint16(size))
	copy(buf[HeaderSize:], compressedTable)

	return buf
}

// Blocks returns the number of 8x8 blocks in a frame, 6 per 16x16 macroblock.
func Blocks(width, height int) int {
	return ((width + 15) >> 4) * ((height + 15) >> 4) * 6
}
