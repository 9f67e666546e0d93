package mdec

import (
	"slices"
	"testing"
)

func TestHalfCeiling32(t *testing.T) {
	tests := []struct {
		codes, want int
	}{
		{1, 32},
		{12, 32},
		{64, 32},
		{65, 64},
		{66, 64},
		{130, 96},
	}

	for _, tt := range tests {
		if got := halfCeiling32(tt.codes); got != tt.want {
			t.Errorf("halfCeiling32 %d: got %d, want %d", tt.codes, got, tt.want)
		}
	}
}

func TestRefineOrder(t *testing.T) {
	f, err := NewFrameEncoderCoefficients(48, 48, make([][6][64]float64, 9))
	if err != nil {
		t.Fatal(err)
	}

	index := func(order []*MacroblockEncoder) []int {
		out := make([]int, len(order))
		for i, m := range order {
			out[i] = m.X*3 + m.Y
		}

		return out
	}

	// Equal energy: center first, then by distance, then stream order
	want := []int{4, 1, 3, 5, 7, 0, 2, 6, 8}
	if got := index(f.refineOrder()); !slices.Equal(got, want) {
		t.Errorf("refineOrder: got %v, want %v", got, want)
	}

	f.macroblocks[8].energy = 10
	f.macroblocks[0].energy = 5
	f.macroblocks[2].energy = 5

	want = []int{8, 0, 2, 4, 1, 3, 5, 7, 6}
	if got := index(f.refineOrder()); !slices.Equal(got, want) {
		t.Errorf("refineOrder: got %v, want %v", got, want)
	}
}

func TestAppendCodes(t *testing.T) {
	var coeffs [6][64]float64
	coeffs[0][0] = 100
	coeffs[0][1] = 40   // zigzag 1
	coeffs[0][16] = -20 // zigzag 3
	coeffs[0][63] = 2000

	m := newMacroblockEncoder(0, 0, &coeffs)
	m.SetQscale(2)

	quant := DefaultQuantMatrix()
	got := m.appendCodes(nil, 0, &quant)

	want := []Code{
		{Top6: 2, Bottom10: 50},
		{Top6: 0, Bottom10: 10},  // 40 * 8 / (16 * 2)
		{Top6: 1, Bottom10: -4},  // -20 * 8 / (19 * 2)
		{Top6: 59, Bottom10: 96}, // 2000 * 8 / (83 * 2)
		{Top6: 0x3f, Bottom10: -512},
	}

	if !slices.Equal(got, want) {
		t.Errorf("appendCodes: got %v, want %v", got, want)
	}

	if !got[len(got)-1].IsEOB() {
		t.Error("appendCodes: last code is not end of block")
	}

	// Out of range levels are clamped
	coeffs[0][0] = 5000
	m = newMacroblockEncoder(0, 0, &coeffs)
	if got := m.appendCodes(nil, 0, &quant); got[0].Bottom10 != 511 {
		t.Errorf("appendCodes DC: got %d, want %d", got[0].Bottom10, 511)
	}
}

func TestWriteAC(t *testing.T) {
	c := NewCompressor(&IkiFormat{})

	tests := []struct {
		code   Code
		length int
	}{
		{Code{Top6: 0, Bottom10: 1}, 3},
		{Code{Top6: 0, Bottom10: -1}, 3},
		{Code{Top6: 1, Bottom10: 1}, 4},
		{Code{Top6: 0, Bottom10: 40}, 16},
		{Code{Top6: 0, Bottom10: 41}, 22},
		{Code{Top6: 31, Bottom10: 1}, 17},
		{Code{Top6: 32, Bottom10: 1}, 22},
		{Code{Top6: 0, Bottom10: -512}, 22},
	}

	for _, tt := range tests {
		c.bits.Reset()
		c.writeAC(tt.code)

		if c.bits.Len() != tt.length {
			t.Errorf("writeAC %+v: got %d bits, want %d", tt.code, c.bits.Len(), tt.length)
		}
	}
}
