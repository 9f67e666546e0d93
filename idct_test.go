package mdec

import (
	"math"
	"math/rand"
	"testing"
)

// referenceIdct is the textbook floating point inverse DCT.
func referenceIdct(coeffs *[64]int) [64]float64 {
	var out [64]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				for u := 0; u < 8; u++ {
					cu, cv := 1.0, 1.0
					if u == 0 {
						cu = math.Sqrt2 / 2
					}
					if v == 0 {
						cv = math.Sqrt2 / 2
					}
					sum += cu * cv * float64(coeffs[v*8+u]) *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/16) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/16)
				}
			}
			out[y*8+x] = sum / 4
		}
	}

	return out
}

func TestIdctOne(t *testing.T) {
	for pos := 0; pos < 64; pos++ {
		for _, value := range []int{-700, -33, 1, 96, 1023} {
			var coeffs [64]int
			coeffs[pos] = value

			var dst [64]int
			idctOne(value, pos, dst[:])

			want := referenceIdct(&coeffs)
			for i := range dst {
				if math.Abs(float64(dst[i])-want[i]) > 1 {
					t.Fatalf("idctOne %d at %d: sample %d got %d, want %.2f", value, pos, i, dst[i], want[i])
				}
			}
		}
	}
}

func TestIdctOneDC(t *testing.T) {
	// round(F00 / 8)
	for _, value := range []int{-1024, -20, -4, 0, 4, 20, 1022} {
		var dst [64]int
		idctOne(value, 0, dst[:])

		want := int(math.Floor(float64(value)/8 + 0.5))
		for i := range dst {
			if dst[i] != want {
				t.Fatalf("idctOne DC %d: sample %d got %d, want %d", value, i, dst[i], want)
			}
		}
	}
}

func TestIdctFull(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	var scratch [64]int
	for n := 0; n < 200; n++ {
		var coeffs [64]int
		coeffs[0] = rnd.Intn(2048) - 1024
		for i := 0; i < 1+rnd.Intn(4); i++ {
			coeffs[zigZag[1+rnd.Intn(5)]] = rnd.Intn(200) - 100
		}

		var dst [64]int
		idctFull(&coeffs, &scratch, dst[:])

		want := referenceIdct(&coeffs)
		for i := range dst {
			if math.Abs(float64(dst[i])-want[i]) > 2 {
				t.Fatalf("idctFull %v: sample %d got %d, want %.2f", coeffs, i, dst[i], want[i])
			}
		}
	}
}

func TestIdctPathsAgree(t *testing.T) {
	// Low frequencies, where the premultipliers are exact to 1%
	var scratch [64]int
	for _, pos := range zigZag[:6] {
		var coeffs [64]int
		coeffs[pos] = 120

		var one, full [64]int
		idctOne(120, pos, one[:])
		idctFull(&coeffs, &scratch, full[:])

		for i := range one {
			if d := one[i] - full[i]; d < -2 || d > 2 {
				t.Errorf("Position %d sample %d: one %d, full %d", pos, i, one[i], full[i])
			}
		}
	}
}

func TestFdctInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))

	var src, freq [64]float64
	for i := range src {
		src[i] = float64(rnd.Intn(256) - 128)
	}

	fdct(&src, &freq)

	var coeffs [64]int
	for i := range freq {
		coeffs[i] = int(math.Round(freq[i]))
	}

	got := referenceIdct(&coeffs)
	for i := range src {
		if math.Abs(got[i]-src[i]) > 2 {
			t.Fatalf("Sample %d: got %.2f, want %.0f", i, got[i], src[i])
		}
	}

	// F00 is 8 times the mean
	for i := range src {
		src[i] = 50
	}
	fdct(&src, &freq)

	if math.Abs(freq[0]-400) > 1e-9 {
		t.Errorf("DC: got %v, want %v", freq[0], 400)
	}
}

func BenchmarkIdctFull(b *testing.B) {
	var coeffs, scratch [64]int
	for i := range coeffs {
		coeffs[i] = i*7 - 200
	}

	var dst [64]int

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		idctFull(&coeffs, &scratch, dst[:])
	}
}
