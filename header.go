package tonie

import (
	"github.com/simonhull/tonie/internal/header"
	"github.com/simonhull/tonie/internal/types"
)

// Header is an alias to types.Header.
type Header = types.Header

const (
	// HeaderSize is the fixed size of the header block. The audio payload
	// starts at this offset.
	HeaderSize = types.HeaderSize

	// HashSize is the length of the audio payload SHA-1 hash.
	HashSize = types.HashSize
)

// Magic is the fixed four byte prefix of every header.
var Magic = types.Magic

// Decode decodes a header from buf, which should hold the first HeaderSize
// bytes of a content file.
//
// On a structural problem Decode returns a typed error and no header. A
// padding field that does not add up to HeaderSize is not fatal: the header
// is returned together with a "padding" Warning.
//
// Decode keeps no reference to buf and may be called concurrently.
//
// Example:
//
//	h, warnings, err := tonie.Decode(block)
//	if err != nil {
//		return err
//	}
//	for _, w := range warnings {
//		log.Printf("Warning: %s", w)
//	}
func Decode(buf []byte) (*Header, []Warning, error) {
	return header.Decode(buf)
}
