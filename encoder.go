package mdec

import (
	"image"
	"log/slog"
	"math"
	"sort"
)

// MacroblockEncoder holds the DCT coefficients of one 16x16 macroblock and the
// quantization scale of each of its six blocks (Cr, Cb, then the four luma blocks).
type MacroblockEncoder struct {
	X int
	Y int

	coeffs  [6][64]float64
	qscales [6]int
	energy  float64
}

func newMacroblockEncoder(x, y int, coeffs *[6][64]float64) *MacroblockEncoder {
	m := &MacroblockEncoder{X: x, Y: y, coeffs: *coeffs}

	for b := range m.coeffs {
		for _, c := range m.coeffs[b][1:] {
			m.energy += math.Abs(c)
		}
		m.qscales[b] = 1
	}

	return m
}

// Energy is the sum of the AC coefficient magnitudes, a measure of detail.
func (m *MacroblockEncoder) Energy() float64 {
	return m.energy
}

// SetQscale sets the same quantization scale on all blocks.
func (m *MacroblockEncoder) SetQscale(qscale int) {
	for b := range m.qscales {
		m.qscales[b] = qscale
	}
}

// Qscales returns the quantization scale of each block.
func (m *MacroblockEncoder) Qscales() [6]int {
	return m.qscales
}

// SetQscales sets the quantization scale of each block.
func (m *MacroblockEncoder) SetQscales(qscales [6]int) {
	m.qscales = qscales
}

// appendCodes quantizes a block and appends its codes, terminated by the end of block.
func (m *MacroblockEncoder) appendCodes(codes []Code, block int, quant *[64]int) []Code {
	c := &m.coeffs[block]
	qscale := m.qscales[block]

	codes = append(codes, Code{Top6: qscale, Bottom10: quantize(c[0] / float64(quant[0]))})

	run := 0
	for pos := 1; pos < 64; pos++ {
		raster := zigZag[pos]

		level := quantize(c[raster] * 8 / float64(quant[raster]*qscale))
		if level == 0 {
			run++
			continue
		}

		codes = append(codes, Code{Top6: run, Bottom10: level})
		run = 0
	}

	return append(codes, endOfBlock)
}

var endOfBlock = Code{Top6: EndOfBlock >> 10, Bottom10: -512}

// quantize rounds to the nearest integer that fits a signed 10-bit field.
func quantize(v float64) int {
	n := int(math.Round(v))
	if n > 511 {
		n = 511
	} else if n < -512 {
		n = -512
	}

	return n
}

// FrameEncoder is a frame in the frequency domain, split into macroblocks in
// column-major order.
type FrameEncoder struct {
	width    int
	height   int
	mbWidth  int
	mbHeight int

	quantMatrix [64]int
	macroblocks []*MacroblockEncoder
}

// NewFrameEncoder converts img to YCbCr 4:2:0 and transforms every block.
// Partial macroblocks are padded with the edge pixels.
func NewFrameEncoder(img image.Image) (*FrameEncoder, error) {
	b := img.Bounds()

	f, err := newFrameEncoder(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	luma, cb, cr := samplePlanes(img, f.mbWidth, f.mbHeight)
	lumaStride, chromaStride := f.mbWidth*16, f.mbWidth*8

	var src [64]float64
	var coeffs [6][64]float64

	for mbX := 0; mbX < f.mbWidth; mbX++ {
		for mbY := 0; mbY < f.mbHeight; mbY++ {
			readBlock(cr, chromaStride, mbX*8, mbY*8, &src)
			fdct(&src, &coeffs[0])
			readBlock(cb, chromaStride, mbX*8, mbY*8, &src)
			fdct(&src, &coeffs[1])

			for i := 0; i < 4; i++ {
				readBlock(luma, lumaStride, mbX*16+(i&1)*8, mbY*16+(i>>1)*8, &src)
				fdct(&src, &coeffs[2+i])
			}

			f.macroblocks = append(f.macroblocks, newMacroblockEncoder(mbX, mbY, &coeffs))
		}
	}

	return f, nil
}

// NewFrameEncoderCoefficients creates a frame from DCT coefficients computed
// elsewhere, one entry per macroblock in column-major order, blocks in raster order.
func NewFrameEncoderCoefficients(width, height int, coeffs [][6][64]float64) (*FrameEncoder, error) {
	f, err := newFrameEncoder(width, height)
	if err != nil {
		return nil, err
	}

	if len(coeffs) != f.mbWidth*f.mbHeight {
		return nil, ErrUnsupportedDimensions
	}

	i := 0
	for mbX := 0; mbX < f.mbWidth; mbX++ {
		for mbY := 0; mbY < f.mbHeight; mbY++ {
			f.macroblocks = append(f.macroblocks, newMacroblockEncoder(mbX, mbY, &coeffs[i]))
			i++
		}
	}

	return f, nil
}

func newFrameEncoder(width, height int) (*FrameEncoder, error) {
	if width < 1 || height < 1 || width > 0x7fff || height > 0x7fff {
		return nil, ErrUnsupportedDimensions
	}

	f := &FrameEncoder{
		width:       width,
		height:      height,
		mbWidth:     (width + 15) >> 4,
		mbHeight:    (height + 15) >> 4,
		quantMatrix: DefaultQuantMatrix(),
	}
	f.macroblocks = make([]*MacroblockEncoder, 0, f.mbWidth*f.mbHeight)

	return f, nil
}

// Width returns the frame width.
func (f *FrameEncoder) Width() int {
	return f.width
}

// Height returns the frame height.
func (f *FrameEncoder) Height() int {
	return f.height
}

// SetQuantMatrix replaces the quantization matrix (raster order).
func (f *FrameEncoder) SetQuantMatrix(matrix [64]int) {
	f.quantMatrix = matrix
}

// SetQscale sets the same quantization scale on every block of the frame.
func (f *FrameEncoder) SetQscale(qscale int) {
	for _, m := range f.macroblocks {
		m.SetQscale(qscale)
	}
}

// Macroblocks returns the macroblocks in column-major order.
func (f *FrameEncoder) Macroblocks() []*MacroblockEncoder {
	return f.macroblocks
}

// Stream returns a CodeReader producing the quantized codes of the frame.
func (f *FrameEncoder) Stream() CodeReader {
	return &codeStream{frame: f}
}

// refineOrder sorts the macroblocks by decreasing energy, then by distance to
// the center of the frame, then by their position in the stream.
func (f *FrameEncoder) refineOrder() []*MacroblockEncoder {
	order := make([]*MacroblockEncoder, len(f.macroblocks))
	copy(order, f.macroblocks)

	cx, cy := f.mbWidth/2, f.mbHeight/2
	distance := func(m *MacroblockEncoder) int {
		dx, dy := m.X-cx, m.Y-cy
		return dx*dx + dy*dy
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].energy != order[j].energy {
			return order[i].energy > order[j].energy
		}

		return distance(order[i]) < distance(order[j])
	})

	return order
}

// codeStream quantizes one block at a time.
type codeStream struct {
	frame *FrameEncoder

	mb    int
	block int
	codes []Code
	next  int
}

func (s *codeStream) ReadCode(code *Code) (bool, error) {
	if s.next >= len(s.codes) {
		if s.mb >= len(s.frame.macroblocks) {
			return false, ErrEndOfStream
		}

		s.codes = s.frame.macroblocks[s.mb].appendCodes(s.codes[:0], s.block, &s.frame.quantMatrix)
		s.next = 0

		s.block++
		if s.block == 6 {
			s.block = 0
			s.mb++
		}
	}

	*code = s.codes[s.next]
	s.next++

	return s.next == len(s.codes), nil
}

// Encoder searches the quantization scales giving the best quality frame that
// fits a byte budget.
//
// All blocks get the same scale first, from 1 upward, until the frame fits.
// When refinement is on, the macroblocks with the most detail are then tried
// one scale lower, one at a time, as long as the frame keeps fitting.
type Encoder struct {
	compressor *Compressor
	maxQscale  int
	refine     bool

	logger *slog.Logger
}

// NewEncoder creates an encoder writing iki frames.
func NewEncoder() *Encoder {
	return &Encoder{
		compressor: NewCompressor(&IkiFormat{}),
		maxQscale:  63,
		refine:     true,
	}
}

// SetVariant changes the output format.
func (e *Encoder) SetVariant(variant Variant) {
	e.compressor = NewCompressor(variant)
}

// SetLogger sets the logger, slog.Default() is used when not set.
func (e *Encoder) SetLogger(logger *slog.Logger) {
	e.logger = logger
}

func (e *Encoder) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}

	return e.logger
}

// SetRefine enables or disables the per macroblock refinement. It is enabled by default.
func (e *Encoder) SetRefine(refine bool) {
	e.refine = refine
}

// SetMaxQscale limits the scales tried, 63 by default.
func (e *Encoder) SetMaxQscale(qscale int) {
	if qscale < 1 {
		qscale = 1
	} else if qscale > 63 {
		qscale = 63
	}

	e.maxQscale = qscale
}

// Compress encodes f with the quantization scales currently set on its macroblocks.
func (e *Encoder) Compress(f *FrameEncoder) ([]byte, error) {
	return e.compressor.Compress(f.Stream(), f.width, f.height)
}

// Encode returns the frame encoded with the lowest quantization scales that
// keep it within budget bytes, or ErrInfeasible.
func (e *Encoder) Encode(f *FrameEncoder, budget int) ([]byte, error) {
	var best []byte

	qscale := 1
	for ; qscale <= e.maxQscale; qscale++ {
		f.SetQscale(qscale)

		data, err := e.Compress(f)
		if err != nil {
			return nil, err
		}

		if len(data) <= budget {
			e.log().Debug("frame fits", slog.Int("qscale", qscale), slog.Int("size", len(data)), slog.Int("budget", budget))
			best = data

			break
		}

		e.log().Debug("frame does not fit", slog.Int("qscale", qscale), slog.Int("size", len(data)), slog.Int("budget", budget))
	}

	if best == nil {
		return nil, ErrInfeasible
	}

	if e.refine && qscale > 1 && len(best) < budget {
		return e.refineMacroblocks(f, best, budget, qscale-1)
	}

	return best, nil
}

func (e *Encoder) refineMacroblocks(f *FrameEncoder, best []byte, budget, qscale int) ([]byte, error) {
	for _, m := range f.refineOrder() {
		prev := m.Qscales()
		m.SetQscale(qscale)

		data, err := e.Compress(f)
		if err != nil {
			return nil, err
		}

		if len(data) > budget {
			m.SetQscales(prev)
			e.log().Debug("refinement stopped", slog.Int("x", m.X), slog.Int("y", m.Y), slog.Int("size", len(data)))

			break
		}

		best = data
	}

	return best, nil
}
