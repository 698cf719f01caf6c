package tonie

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// UID is the 8-byte NFC tag id of a Tonie figure.
type UID [8]byte

// ParseUID parses a UID written as 16 hex digits, optionally separated by
// colons ("E0:04:03:50:..." as printed by NFC tools).
func ParseUID(s string) (UID, error) {
	var uid UID

	raw, err := hex.DecodeString(strings.ReplaceAll(s, ":", ""))
	if err != nil {
		return uid, fmt.Errorf("parse uid %q: %w", s, err)
	}
	if len(raw) != len(uid) {
		return uid, fmt.Errorf("parse uid %q: want %d bytes, got %d", s, len(uid), len(raw))
	}

	copy(uid[:], raw)
	return uid, nil
}

// String returns the UID as 16 upper-case hex digits.
func (u UID) String() string {
	return strings.ToUpper(hex.EncodeToString(u[:]))
}

// ContentPath returns the location of the content file for uid below base:
// the first four UID bytes name the directory and the last four the file,
// both as upper-case hex.
//
// Example:
//
//	tonie.ContentPath("/sd/CONTENT", uid) // "/sd/CONTENT/E0040350/0A1B2C3D"
func ContentPath(base string, uid UID) string {
	s := uid.String()
	return filepath.Join(base, s[:8], s[8:])
}

// OpenByUID opens the content file that belongs to uid below base.
func OpenByUID(base string, uid UID, opts ...Option) (*File, error) {
	return Open(ContentPath(base, uid), opts...)
}
