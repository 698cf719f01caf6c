// Package types provides core data structures for Tonie content headers.
//
// This package defines the Header, Warning, and error types shared by the
// decoder and the public tonie package.
package types

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// HeaderSize is the fixed size of the header block at the start of a
	// content file. The audio payload starts right after it.
	HeaderSize = 4096

	// HashSize is the length of the audio payload hash (SHA-1).
	HashSize = 20
)

// Magic is the first four bytes of every header: the big-endian length of
// the field block (HeaderSize - 4).
var Magic = [4]byte{0x00, 0x00, 0x0F, 0xFC}

// Header is the decoded header of a Tonie content file.
//
// A Header is built fresh for each decode and holds no reference to the
// buffer it was decoded from.
type Header struct {
	// SHA-1 of the audio payload. Only meaningful when HasHash is set.
	Hash    [HashSize]byte
	HasHash bool

	// Length of the audio payload in bytes
	AudioLength uint32

	// Audio id, by convention the unix time the audio was created
	AudioID uint32

	// Chapter start markers in encoded order (Ogg page numbers)
	Chapters []uint32
}

// HashHex returns the hash as lowercase hex, or "" when no hash was decoded.
func (h *Header) HashHex() string {
	if !h.HasHash {
		return ""
	}
	return hex.EncodeToString(h.Hash[:])
}

// AudioIDTime interprets the audio id as a unix timestamp.
func (h *Header) AudioIDTime() time.Time {
	return time.Unix(int64(h.AudioID), 0).UTC()
}

// String returns a multi-line dump of the header.
func (h *Header) String() string {
	var b strings.Builder

	b.WriteString("Tonie Header\n")
	if h.HasHash {
		fmt.Fprintf(&b, " Hash: % x\n", h.Hash[:])
	} else {
		b.WriteString(" Hash: -\n")
	}
	fmt.Fprintf(&b, " Length: %db\n", h.AudioLength)
	fmt.Fprintf(&b, " ID: %d (%s)\n", h.AudioID, h.AudioIDTime().Format(time.RFC3339))
	fmt.Fprintf(&b, " Chapters: %d\n", len(h.Chapters))
	for i, c := range h.Chapters {
		fmt.Fprintf(&b, "  %d: %d\n", i+1, c)
	}

	return b.String()
}

// LogValue implements slog.LogValuer.
func (h *Header) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("hash", h.HashHex()),
		slog.Uint64("audio_length", uint64(h.AudioLength)),
		slog.Uint64("audio_id", uint64(h.AudioID)),
		slog.Any("chapters", h.Chapters),
	)
}
