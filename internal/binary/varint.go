package binary

import (
	"encoding/binary"
	"errors"
)

// MaxVarintLen is the maximum encoded length of a 64-bit varint.
const MaxVarintLen = binary.MaxVarintLen64

var (
	// ErrVarintIncomplete is returned when the buffer ends before a byte with
	// the continuation bit clear.
	ErrVarintIncomplete = errors.New("varint incomplete")

	// ErrVarintOverflow is returned when the encoding does not fit in 64 bits.
	ErrVarintOverflow = errors.New("varint overflows 64 bits")
)

// Uvarint decodes one little-endian base-128 varint from the start of buf.
//
// It returns the value and the number of bytes consumed. A buffer that runs
// out before the terminating byte is never reported as a small value:
// Uvarint returns ErrVarintIncomplete together with the number of bytes it
// inspected.
//
// Example:
//
//	length, n, err := binary.Uvarint(buf[cursor:])
//	if err != nil {
//		return err
//	}
//	cursor += n
func Uvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	switch {
	case n > 0:
		return v, n, nil
	case n == 0:
		return 0, len(buf), ErrVarintIncomplete
	default:
		return 0, -n, ErrVarintOverflow
	}
}
