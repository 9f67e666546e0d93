package mdec

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized is returned when the data is not an iki frame.
	ErrNotRecognized = errors.New("mdec: frame not recognized")

	// ErrIncompleteHeader is returned when the header is valid but the frame is shorter than the declared table.
	ErrIncompleteHeader = fmt.Errorf("%w: incomplete header", ErrNotRecognized)

	// ErrCorrupt matches every *CorruptError.
	ErrCorrupt = errors.New("mdec: corrupt stream")

	// ErrEndOfStream is the cause of a *CorruptError when the frame ran out of data.
	ErrEndOfStream = errors.New("mdec: unexpected end of stream")

	// ErrInvalidCode is the cause of a *CorruptError when the bitstream holds an unknown variable length code.
	ErrInvalidCode = errors.New("mdec: invalid variable length code")

	// ErrInfeasible is returned by the encoder when no quantization scale fits the byte budget.
	ErrInfeasible = errors.New("mdec: frame does not fit")

	// ErrUnsupportedDimensions is returned for image sizes the converter does not handle.
	ErrUnsupportedDimensions = errors.New("mdec: unsupported dimensions")

	// ErrTooManyCodes is returned when the code count does not fit the header.
	ErrTooManyCodes = errors.New("mdec: too many codes")
)

// CorruptError describes where decoding failed.
// Macroblock is -1 when the failure is not tied to a macroblock (table decompression).
type CorruptError struct {
	Macroblock int
	MbX        int
	MbY        int
	Block      int

	// Position is the run-length vector position for coefficient overflows,
	// otherwise a byte offset into the frame.
	Position int

	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Macroblock < 0 {
		return fmt.Sprintf("mdec: corrupt stream: %s at offset %d", msg, e.Position)
	}

	return fmt.Sprintf("mdec: corrupt stream: %s [%d] in macroblock %d (%d, %d) block %d",
		msg, e.Position, e.Macroblock, e.MbX, e.MbY, e.Block)
}

// Is makes errors.Is(err, ErrCorrupt) true for any *CorruptError.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
