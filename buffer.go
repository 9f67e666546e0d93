package mdec

// BitReader reads a bitstream made of 16-bit little-endian words, most
// significant bit of each word first, as the PlayStation MDEC bitstreams are laid out.
type BitReader struct {
	data  []byte
	start int
	size  int

	bitIndex int
	overrun  bool
}

// Reset points the reader at data, starting at byte offset start.
func (b *BitReader) Reset(data []byte, start int) {
	b.data = data
	b.start = start
	b.size = 0
	if start < len(data) {
		// Only whole words are readable
		b.size = ((len(data) - start) &^ 1) << 3
	}

	b.bitIndex = 0
	b.overrun = false
}

// Position returns the byte offset of the word being read, relative to the start of data.
func (b *BitReader) Position() int {
	return b.start + (b.bitIndex>>4)<<1
}

// BitIndex returns the number of bits consumed since Reset.
func (b *BitReader) BitIndex() int {
	return b.bitIndex
}

// Overrun reports whether a read went past the end of the data.
func (b *BitReader) Overrun() bool {
	return b.overrun
}

func (b *BitReader) has(count int) bool {
	if b.size-b.bitIndex >= count {
		return true
	}

	b.overrun = true

	return false
}

func (b *BitReader) byteAt(bitIndex int) int {
	// Swap the bytes of each word
	return int(b.data[b.start+((bitIndex>>3)^1)])
}

func (b *BitReader) read(count int) int {
	if !b.has(count) {
		return 0
	}

	value := 0
	for count != 0 {
		currentByte := b.byteAt(b.bitIndex)

		remaining := 8 - (b.bitIndex & 7) // Remaining bits in byte
		read := count
		if remaining < count { // Bits in self run
			read = remaining
		}

		shift := remaining - read
		mask := 0xff >> (8 - read)

		value = (value << read) | ((currentByte & (mask << shift)) >> shift)

		b.bitIndex += read
		count -= read
	}

	return value
}

func (b *BitReader) read1() int {
	if !b.has(1) {
		return 0
	}

	shift := 7 - (b.bitIndex & 7)
	value := (b.byteAt(b.bitIndex) >> shift) & 1

	b.bitIndex += 1

	return value
}

func (b *BitReader) readVlcUint(table []vlcUint) uint16 {
	var state vlcUint

	for {
		state = table[int(state.Index)+b.read1()]
		if state.Index <= 0 || b.overrun {
			break
		}
	}

	return state.Value
}

// BitWriter is the counterpart of BitReader.
type BitWriter struct {
	bytes []byte

	word  uint32
	count int
}

// Reset discards everything written so far, keeping the allocated memory.
func (w *BitWriter) Reset() {
	w.bytes = w.bytes[:0]
	w.word = 0
	w.count = 0
}

// Write appends the count low bits of value, most significant first.
func (w *BitWriter) Write(value uint32, count int) {
	for count > 0 {
		free := 16 - w.count
		n := count
		if n > free {
			n = free
		}

		bits := (value >> (count - n)) & (1<<n - 1)
		w.word = w.word<<n | bits
		w.count += n
		count -= n

		if w.count == 16 {
			w.bytes = append(w.bytes, byte(w.word), byte(w.word>>8))
			w.word = 0
			w.count = 0
		}
	}
}

// Len returns the number of bits written.
func (w *BitWriter) Len() int {
	return len(w.bytes)<<3 + w.count
}

// Bytes returns the written data, zero padded to a whole word.
// The returned slice aliases the writer until the next Reset.
func (w *BitWriter) Bytes() []byte {
	if w.count > 0 {
		w.Write(0, 16-w.count)
	}

	return w.bytes
}

func (w *BitWriter) writeVlc(code vlcCode) {
	w.Write(code.Bits, code.Length)
}

type vlcUint struct {
	Index int16
	Value uint16
}
