package tonie

import (
	"github.com/simonhull/tonie/internal/types"
)

// Sentinel errors re-exported from internal/types. Every typed decode error
// matches its sentinel through errors.Is.
var (
	ErrEmptyInput        = types.ErrEmptyInput
	ErrBadMagic          = types.ErrBadMagic
	ErrInvalidHashLength = types.ErrInvalidHashLength
	ErrUnexpectedField   = types.ErrUnexpectedField
	ErrTruncatedHeader   = types.ErrTruncatedHeader
	ErrPaddingMismatch   = types.ErrPaddingMismatch
	ErrVarintIncomplete  = types.ErrVarintIncomplete
	ErrVarintOverflow    = types.ErrVarintOverflow
	ErrHashMismatch      = types.ErrHashMismatch
	ErrNoHash            = types.ErrNoHash
	ErrInvalidAudio      = types.ErrInvalidAudio
	ErrChapterNotFound   = types.ErrChapterNotFound
)

// BadMagicError is an alias to types.BadMagicError.
type BadMagicError = types.BadMagicError

// InvalidHashLengthError is an alias to types.InvalidHashLengthError.
type InvalidHashLengthError = types.InvalidHashLengthError

// UnexpectedFieldError is an alias to types.UnexpectedFieldError.
type UnexpectedFieldError = types.UnexpectedFieldError

// TruncatedHeaderError is an alias to types.TruncatedHeaderError.
type TruncatedHeaderError = types.TruncatedHeaderError

// VarintError is an alias to types.VarintError.
type VarintError = types.VarintError

// PaddingMismatchError is an alias to types.PaddingMismatchError.
type PaddingMismatchError = types.PaddingMismatchError

// HashMismatchError is an alias to types.HashMismatchError.
type HashMismatchError = types.HashMismatchError

// ChapterNotFoundError is an alias to types.ChapterNotFoundError.
type ChapterNotFoundError = types.ChapterNotFoundError

// Warning is an alias to types.Warning.
type Warning = types.Warning

// ErrorKind returns a short stable label for a decode error, such as
// "bad_magic" or "truncated_header".
func ErrorKind(err error) string {
	return types.Kind(err)
}
