package mdec_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/gen2brain/mdec"
)

func TestCompressTable(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{"zeros", make([]byte, 12), []byte{0x02, 0x00, 0x08, 0x00}},
		{"short", []byte{'a', 'a', 'a'}, []byte{0x00, 'a', 'a', 'a'}},
		{"max run", make([]byte, 259), []byte{0x02, 0x00, 0xff, 0x00}},
		{"max run plus one", make([]byte, 260), []byte{0x02, 0x00, 0xff, 0x00, 0x00}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		got := mdec.CompressTable(tt.src)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("CompressTable %s: got % x, want % x", tt.name, got, tt.want)
		}
	}
}

func TestTableRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	random := make([]byte, 4000)
	rnd.Read(random)

	// Repeats far enough apart to need the long distance form
	repeats := make([]byte, 0, 3*1000)
	chunk := make([]byte, 1000)
	rnd.Read(chunk)
	repeats = append(repeats, chunk...)
	repeats = append(repeats, chunk[:500]...)
	repeats = append(repeats, chunk...)

	// Typical table: few distinct qscale bytes, then noisy DC bytes
	table := make([]byte, 2400)
	for i := 0; i < 1200; i++ {
		table[i] = byte(4 + rnd.Intn(2))
		table[1200+i] = byte(rnd.Intn(16))
	}

	for name, src := range map[string][]byte{
		"zeros":   make([]byte, 70000),
		"random":  random,
		"repeats": repeats,
		"table":   table,
	} {
		compressed := mdec.CompressTable(src)

		dst := make([]byte, len(src))
		n, err := mdec.DecompressTable(dst, compressed)
		if err != nil {
			t.Errorf("DecompressTable %s: %v", name, err)

			continue
		}

		if n != len(compressed) {
			t.Errorf("DecompressTable %s: read %d, want %d", name, n, len(compressed))
		}

		if !bytes.Equal(dst, src) {
			t.Errorf("DecompressTable %s: data mismatch", name)
		}
	}
}

func TestDecompressTableEmpty(t *testing.T) {
	n, err := mdec.DecompressTable(nil, []byte{0xff})
	if err != nil {
		t.Fatal(err)
	}

	if n != 0 {
		t.Errorf("DecompressTable: read %d, want %d", n, 0)
	}
}

func TestDecompressTableCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		src    []byte
		reason string
		cause  error
	}{
		{"before start", 12, []byte{0x02, 0x00, 0x08, 0x05}, "table reference before start", nil},
		{"past end", 4, []byte{0x02, 0x00, 0x08, 0x00}, "table reference past end", nil},
		{"ends early", 4, []byte{0x00, 0x01}, "table ends early", mdec.ErrEndOfStream},
		{"truncated reference", 12, []byte{0x02, 0x00, 0x08}, "table ends early", mdec.ErrEndOfStream},
	}

	for _, tt := range tests {
		_, err := mdec.DecompressTable(make([]byte, tt.size), tt.src)

		var ce *mdec.CorruptError
		if !errors.As(err, &ce) {
			t.Errorf("DecompressTable %s: got %v, want *CorruptError", tt.name, err)

			continue
		}

		if !errors.Is(err, mdec.ErrCorrupt) {
			t.Errorf("DecompressTable %s: %v is not ErrCorrupt", tt.name, err)
		}

		if ce.Macroblock != -1 {
			t.Errorf("DecompressTable %s: macroblock got %d, want %d", tt.name, ce.Macroblock, -1)
		}

		if ce.Reason != tt.reason {
			t.Errorf("DecompressTable %s: reason got %q, want %q", tt.name, ce.Reason, tt.reason)
		}

		if tt.cause != nil && !errors.Is(err, tt.cause) {
			t.Errorf("DecompressTable %s: got %v, want %v", tt.name, err, tt.cause)
		}
	}
}

func BenchmarkCompressTable(b *testing.B) {
	rnd := rand.New(rand.NewSource(1))

	table := make([]byte, 2*6*20*15)
	for i := 0; i < len(table)/2; i++ {
		table[i] = byte(4 + rnd.Intn(2))
		table[len(table)/2+i] = byte(rnd.Intn(32))
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		mdec.CompressTable(table)
	}
}
