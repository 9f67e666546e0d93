// Package mdec implements a decoder and encoder for PlayStation MDEC "iki" video frames.
//
// An iki frame starts with a small header followed by an LZSS compressed table
// holding the quantization scale and DC coefficient of every 8x8 block, then a
// bitstream of MPEG-1 variable length codes for the AC coefficients. The
// picture is split into 16x16 macroblocks, stored column by column, each with
// a Cr, a Cb and four luma blocks (YCbCr 4:2:0).
//
// The high-level functions work on whole frames:
//
//	img, err := mdec.DecodeFrame(frame)
//	out, err := mdec.ReplaceFrame(frame, img)
//
// DecodeFrame never loses a frame to corruption: when the bitstream is broken
// the image is still returned, with the failing block and everything after it
// gray, together with a *CorruptError saying where decoding stopped.
//
// ReplaceFrame encodes a new picture into a frame no larger than the original,
// so it can be written back in place. It searches the lowest quantization
// scale that fits, then spends the bytes left on the macroblocks with the most
// detail.
//
// The lower level Decoder, IkiReader, Compressor and Encoder can be used to
// reuse buffers between frames, to get at the YCbCr planes or the raw MDEC
// codes, or to plug in a different bitstream Variant.
package mdec

import (
	"errors"
	"image"
	"io"
)

// DecodeFrame decodes an iki frame into an image.RGBA.
//
// If the bitstream is corrupt the partially decoded image is returned along
// with the *CorruptError.
func DecodeFrame(frame []byte) (*image.RGBA, error) {
	d := NewDecoder(0, 0)

	// A broken table leaves nothing to show, a broken bitstream a partial frame
	err := d.DecodeFrame(frame)
	var ce *CorruptError
	if err != nil && (!errors.As(err, &ce) || ce.Macroblock < 0) {
		return nil, err
	}

	img, cerr := d.RGBA()
	if cerr != nil {
		return nil, cerr
	}

	return img, err
}

// Dimensions returns the width and height stored in the header of an iki frame.
func Dimensions(frame []byte) (width, height int, err error) {
	h, err := ParseHeader(frame)
	if err != nil {
		return 0, 0, err
	}

	return h.Width, h.Height, nil
}

// ReadFrame reads a whole iki frame from r, header, table and bitstream.
// The bitstream runs to the end of r.
func ReadFrame(r io.Reader) ([]byte, error) {
	frame, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if _, err := ParseHeader(frame); err != nil {
		return nil, err
	}

	return frame, nil
}

// ReplaceFrame encodes img as an iki frame no larger than original.
// The image must have the dimensions of the original frame.
func ReplaceFrame(original []byte, img image.Image) ([]byte, error) {
	h, err := ParseHeader(original)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() != h.Width || b.Dy() != h.Height {
		return nil, ErrUnsupportedDimensions
	}

	f, err := NewFrameEncoder(img)
	if err != nil {
		return nil, err
	}

	return NewEncoder().Encode(f, len(original))
}
