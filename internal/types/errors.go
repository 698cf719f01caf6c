package types

import (
	"errors"
	"fmt"

	"github.com/simonhull/tonie/internal/binary"
)

// Sentinel errors for the decode error taxonomy. Every typed error below
// matches its sentinel through errors.Is.
var (
	// ErrEmptyInput is returned when there is no header data at all.
	ErrEmptyInput = errors.New("empty input")

	ErrBadMagic          = errors.New("bad magic")
	ErrInvalidHashLength = errors.New("invalid hash length")
	ErrUnexpectedField   = errors.New("unexpected field")
	ErrTruncatedHeader   = errors.New("truncated header")
	ErrPaddingMismatch   = errors.New("padding mismatch")
	ErrHashMismatch      = errors.New("hash mismatch")
	ErrNoHash            = errors.New("header has no hash")

	ErrVarintIncomplete = binary.ErrVarintIncomplete
	ErrVarintOverflow   = binary.ErrVarintOverflow
)

// BadMagicError is returned when the first four bytes are not the header magic.
type BadMagicError struct {
	Got []byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("unexpected beginning of file: % X", e.Got)
}

func (e *BadMagicError) Is(target error) bool { return target == ErrBadMagic }

// InvalidHashLengthError is returned when the hash field declares a length
// other than HashSize.
type InvalidHashLengthError struct {
	Length uint64
	Offset int
}

func (e *InvalidHashLengthError) Error() string {
	return fmt.Sprintf("hash length should be %d but is %d (at offset %d)", HashSize, e.Length, e.Offset)
}

func (e *InvalidHashLengthError) Is(target error) bool { return target == ErrInvalidHashLength }

// UnexpectedFieldError is returned for any field id and wire type combination
// the header format does not define.
type UnexpectedFieldError struct {
	ID       uint8
	WireType uint8
	Offset   int
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("unexpected field with id=%d and type=%d at offset %d", e.ID, e.WireType, e.Offset)
}

func (e *UnexpectedFieldError) Is(target error) bool { return target == ErrUnexpectedField }

// TruncatedHeaderError is returned when the buffer ends before a field, or the
// header as a whole, is complete. Err carries the underlying cause, if any.
type TruncatedHeaderError struct {
	What   string
	Offset int
	Err    error
}

func (e *TruncatedHeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("truncated header at offset %d while reading %s: %v", e.Offset, e.What, e.Err)
	}
	return fmt.Sprintf("truncated header at offset %d while reading %s", e.Offset, e.What)
}

func (e *TruncatedHeaderError) Is(target error) bool { return target == ErrTruncatedHeader }

func (e *TruncatedHeaderError) Unwrap() error { return e.Err }

// VarintError is returned for a malformed varint that is not simply cut off
// by the end of the buffer.
type VarintError struct {
	What   string
	Offset int
	Err    error
}

func (e *VarintError) Error() string {
	return fmt.Sprintf("malformed varint at offset %d while reading %s: %v", e.Offset, e.What, e.Err)
}

func (e *VarintError) Unwrap() error { return e.Err }

// PaddingMismatchError describes a padding field whose fill count does not
// bring the header to HeaderSize. It is carried by a Warning, not returned as
// a decode failure.
type PaddingMismatchError struct {
	Consumed int
	Fill     uint64
}

// Total returns the header size implied by the padding field.
func (e *PaddingMismatchError) Total() uint64 {
	return uint64(e.Consumed) + e.Fill
}

func (e *PaddingMismatchError) Error() string {
	return fmt.Sprintf("header length should be %d but is %d", HeaderSize, e.Total())
}

func (e *PaddingMismatchError) Is(target error) bool { return target == ErrPaddingMismatch }

// HashMismatchError is returned when the audio payload does not hash to the
// value stored in the header.
type HashMismatchError struct {
	Path string
	Want [HashSize]byte
	Got  [HashSize]byte
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("%s: audio hash mismatch: header %x, payload %x", e.Path, e.Want, e.Got)
}

func (e *HashMismatchError) Is(target error) bool { return target == ErrHashMismatch }

// Warning represents a non-fatal issue encountered during decoding.
//
// Warnings are collected in File.Warnings. Err, when set, carries the typed
// cause so callers can inspect it with errors.As.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "padding", "audio", "hash", "ogg", "chapters"

	// Warning message
	Message string

	// Header offset where the issue occurred (0 if not applicable)
	Offset int64

	Err error
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// Kind returns a short stable label for a decode error, suitable for
// metrics labels and log attributes. It returns "none" for nil and "other"
// for errors outside the decode taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, ErrInvalidHashLength):
		return "invalid_hash_length"
	case errors.Is(err, ErrUnexpectedField):
		return "unexpected_field"
	case errors.Is(err, ErrTruncatedHeader):
		return "truncated_header"
	case errors.Is(err, ErrVarintIncomplete), errors.Is(err, ErrVarintOverflow):
		return "varint"
	case errors.Is(err, ErrPaddingMismatch):
		return "padding_mismatch"
	case errors.Is(err, ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, ErrInvalidAudio):
		return "invalid_audio"
	case errors.Is(err, ErrChapterNotFound):
		return "chapter_not_found"
	default:
		return "other"
	}
}
