package mdec

const (
	lzssMinRun      = 3
	lzssMaxRun      = 255 + lzssMinRun
	lzssMaxDistance = 0x7fff + 1
	lzssShortLimit  = 0x80
)

// DecompressTable decompresses the iki qscale/DC table from src until dst is full.
// It returns the number of bytes read from src.
//
// Each flag byte is followed by up to 8 tokens, least significant flag bit first.
// A clear bit is a literal byte, a set bit a back-reference of (length-3) and
// (distance-1), the distance taking a second byte when its first byte has the high bit set.
func DecompressTable(dst, src []byte) (int, error) {
	srcPos := 0
	dstPos := 0

	next := func() (int, error) {
		if srcPos >= len(src) {
			return 0, &CorruptError{Macroblock: -1, Position: srcPos, Reason: "table ends early", Err: ErrEndOfStream}
		}
		b := int(src[srcPos])
		srcPos++

		return b, nil
	}

	for dstPos < len(dst) {
		flags, err := next()
		if err != nil {
			return srcPos, err
		}

		for bit := 0; bit < 8 && dstPos < len(dst); bit, flags = bit+1, flags>>1 {
			if flags&1 == 0 {
				b, err := next()
				if err != nil {
					return srcPos, err
				}

				dst[dstPos] = byte(b)
				dstPos++

				continue
			}

			tokenPos := srcPos

			size, err := next()
			if err != nil {
				return srcPos, err
			}
			size += lzssMinRun

			offset, err := next()
			if err != nil {
				return srcPos, err
			}
			if offset&0x80 != 0 {
				low, err := next()
				if err != nil {
					return srcPos, err
				}
				offset = (offset&0x7f)<<8 | low
			}
			offset++

			if offset > dstPos {
				return srcPos, &CorruptError{Macroblock: -1, Position: tokenPos, Reason: "table reference before start"}
			}
			if dstPos+size > len(dst) {
				return srcPos, &CorruptError{Macroblock: -1, Position: tokenPos, Reason: "table reference past end"}
			}

			// Byte by byte, the source may overlap what this copy writes
			for ; size > 0; size-- {
				dst[dstPos] = dst[dstPos-offset]
				dstPos++
			}
		}
	}

	return srcPos, nil
}

// CompressTable compresses src with the iki LZSS scheme.
// The search is greedy: the longest match wins (the nearest one on ties) and
// the last 3 bytes are never coded as a back-reference.
func CompressTable(src []byte) []byte {
	var c lzssCompressor

	return c.compress(src, nil)
}

type lzssCompressor struct {
	flags   int
	flagBit int
	tokens  []byte
}

func (c *lzssCompressor) compress(src, out []byte) []byte {
	c.reset()

	for pos := 0; pos < len(src); {
		runPos, runLen := 0, 0

		if pos < len(src)-lzssMinRun {
			farthest := pos - lzssMaxDistance
			if farthest < 0 {
				farthest = 0
			}

			for start := pos - 1; start >= farthest; start-- {
				n := matchLength(src, start, pos)
				if n <= runLen {
					continue
				}

				dist := pos - start - 1
				if (dist < lzssShortLimit && n >= 3) || (dist >= lzssShortLimit && n >= 4) {
					runLen = n
					runPos = start

					if n == lzssMaxRun || pos+n == len(src) {
						break
					}
				}
			}
		}

		if runLen > 0 {
			c.addRun(pos-runPos, runLen)
			pos += runLen
		} else {
			c.tokens = append(c.tokens, src[pos])
			pos++
		}

		out = c.next(out)
	}

	if c.flagBit > 0 {
		out = c.flush(out)
	}

	return out
}

func (c *lzssCompressor) addRun(distance, length int) {
	c.flags |= 1 << c.flagBit
	c.tokens = append(c.tokens, byte(length-lzssMinRun))

	distance--
	if distance < lzssShortLimit {
		c.tokens = append(c.tokens, byte(distance))
	} else {
		c.tokens = append(c.tokens, byte(distance>>8)|0x80, byte(distance))
	}
}

func (c *lzssCompressor) next(out []byte) []byte {
	c.flagBit++
	if c.flagBit >= 8 {
		out = c.flush(out)
	}

	return out
}

func (c *lzssCompressor) flush(out []byte) []byte {
	out = append(out, byte(c.flags))
	out = append(out, c.tokens...)
	c.reset()

	return out
}

func (c *lzssCompressor) reset() {
	c.flags = 0
	c.flagBit = 0
	c.tokens = c.tokens[:0]
}

// matchLength counts how many bytes at start match the bytes at pos, up to the maximum run.
func matchLength(data []byte, start, pos int) int {
	n := 0
	for pos+n < len(data) && n < lzssMaxRun && data[start+n] == data[pos+n] {
		n++
	}

	return n
}
