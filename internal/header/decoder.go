// Package header decodes the fixed-size header block of Tonie content files.
//
// The header is a small protobuf-style message: a four byte magic, then
// tagged fields (one tag byte, field id in the top five bits and wire type in
// the bottom three), terminated by a padding field that declares how many
// zero bytes fill the block up to types.HeaderSize.
package header

import (
	"bytes"
	"errors"
	"fmt"

	binutil "github.com/simonhull/tonie/internal/binary"
	"github.com/simonhull/tonie/internal/types"
)

// Wire types used by the header format.
const (
	wireVarint = 0
	wireBytes  = 2
)

// fieldKey identifies a field by id and wire type.
type fieldKey struct {
	id   uint8
	wire uint8
}

var (
	fieldHash        = fieldKey{1, wireBytes}
	fieldAudioLength = fieldKey{2, wireVarint}
	fieldAudioID     = fieldKey{3, wireVarint}
	fieldChapters    = fieldKey{4, wireBytes}
	fieldPadding     = fieldKey{5, wireBytes}
)

// decoder holds the state of a single Decode call.
type decoder struct {
	buf    []byte
	cursor int
	header *types.Header
}

// Decode decodes a header from buf, which should hold the first
// types.HeaderSize bytes of a content file.
//
// Structural errors abort decoding and no header is returned. A padding field
// that does not add up to types.HeaderSize is reported as a warning next to
// the fully decoded header.
func Decode(buf []byte) (*types.Header, []types.Warning, error) {
	if len(buf) == 0 {
		return nil, nil, types.ErrEmptyInput
	}
	if len(buf) < len(types.Magic) || !bytes.Equal(buf[:len(types.Magic)], types.Magic[:]) {
		got := make([]byte, min(len(buf), len(types.Magic)))
		copy(got, buf)
		return nil, nil, &types.BadMagicError{Got: got}
	}

	d := &decoder{
		buf:    buf,
		cursor: len(types.Magic),
		header: &types.Header{},
	}

	for d.cursor < len(d.buf) {
		tagOffset := d.cursor
		tag := d.buf[d.cursor]
		d.cursor++

		key := fieldKey{id: tag >> 3, wire: tag & 0b111}
		var err error

		switch key {
		case fieldHash:
			err = d.readHash()
		case fieldAudioLength:
			var v uint64
			v, err = d.uvarint("audio length")
			d.header.AudioLength = uint32(v)
		case fieldAudioID:
			var v uint64
			v, err = d.uvarint("audio id")
			d.header.AudioID = uint32(v)
		case fieldChapters:
			err = d.readChapters()
		case fieldPadding:
			warnings, err := d.readPadding()
			if err != nil {
				return nil, nil, err
			}
			return d.header, warnings, nil
		default:
			err = &types.UnexpectedFieldError{ID: key.id, WireType: key.wire, Offset: tagOffset}
		}

		if err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, &types.TruncatedHeaderError{What: "padding field", Offset: d.cursor}
}

// uvarint reads a varint at the cursor and advances past it.
func (d *decoder) uvarint(what string) (uint64, error) {
	v, n, err := binutil.Uvarint(d.buf[d.cursor:])
	if err != nil {
		if errors.Is(err, binutil.ErrVarintIncomplete) {
			return 0, &types.TruncatedHeaderError{What: what, Offset: d.cursor, Err: err}
		}
		return 0, &types.VarintError{What: what, Offset: d.cursor, Err: err}
	}
	d.cursor += n
	return v, nil
}

func (d *decoder) readHash() error {
	lengthOffset := d.cursor
	length, err := d.uvarint("hash length")
	if err != nil {
		return err
	}
	if length != types.HashSize {
		return &types.InvalidHashLengthError{Length: length, Offset: lengthOffset}
	}
	if len(d.buf)-d.cursor < types.HashSize {
		return &types.TruncatedHeaderError{What: "hash", Offset: d.cursor}
	}

	copy(d.header.Hash[:], d.buf[d.cursor:d.cursor+types.HashSize])
	d.header.HasHash = true
	d.cursor += types.HashSize
	return nil
}

func (d *decoder) readChapters() error {
	countOffset := d.cursor
	count, err := d.uvarint("chapter count")
	if err != nil {
		return err
	}
	// Every chapter takes at least one byte.
	if count > uint64(len(d.buf)-d.cursor) {
		return &types.TruncatedHeaderError{
			What:   fmt.Sprintf("%d chapters", count),
			Offset: countOffset,
		}
	}

	chapters := make([]uint32, count)
	for i := range chapters {
		v, err := d.uvarint(fmt.Sprintf("chapter %d of %d", i+1, count))
		if err != nil {
			return err
		}
		chapters[i] = uint32(v)
	}

	d.header.Chapters = chapters
	return nil
}

func (d *decoder) readPadding() ([]types.Warning, error) {
	fill, err := d.uvarint("padding length")
	if err != nil {
		return nil, err
	}

	if uint64(d.cursor) > types.HeaderSize || fill != uint64(types.HeaderSize-d.cursor) {
		mismatch := &types.PaddingMismatchError{Consumed: d.cursor, Fill: fill}
		return []types.Warning{{
			Stage:   "padding",
			Message: mismatch.Error(),
			Offset:  int64(d.cursor),
			Err:     mismatch,
		}}, nil
	}
	return nil, nil
}
