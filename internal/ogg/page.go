// Package ogg scans the Ogg Opus stream that follows a Tonie header.
package ogg

import (
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/tonie/internal/binary"
	"github.com/simonhull/tonie/internal/types"
)

const pageHeaderSize = 27

// Header type flags
const (
	flagBOS = 0x02
	flagEOS = 0x04
)

// granuleUnset marks a page on which no packet ends.
const granuleUnset = -1

// Page represents an Ogg page.
//
// An Ogg page is the fundamental unit of the Ogg container format.
// Each page contains a header and payload data.
type Page struct {
	Offset          int64  // File offset of the "OggS" capture pattern
	Size            int64  // Header, segment table and data
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition int64  // Position in samples
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
}

// readPage reads the Ogg page at the given offset. The page data is only
// read when withData is set.
func readPage(sr *binutil.SafeReader, offset int64, withData bool) (*Page, []byte, error) {
	hdr := make([]byte, pageHeaderSize)
	if err := sr.ReadAt(hdr, offset, "Ogg page header"); err != nil {
		return nil, nil, err
	}

	// Verify "OggS" magic marker
	if string(hdr[0:4]) != "OggS" {
		return nil, nil, fmt.Errorf("%w: no Ogg page at offset %d", types.ErrInvalidAudio, offset)
	}

	// Stream structure version (should be 0x00)
	if hdr[4] != 0 {
		return nil, nil, fmt.Errorf("%w: unsupported Ogg version %d at offset %d", types.ErrInvalidAudio, hdr[4], offset)
	}

	// Segment table (each byte is size of a segment, 0-255)
	segments := make([]byte, hdr[26])
	if err := sr.ReadAt(segments, offset+pageHeaderSize, "segment table"); err != nil {
		return nil, nil, err
	}

	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}
	dataOffset := offset + pageHeaderSize + int64(len(segments))

	page := &Page{
		Offset:          offset,
		Size:            pageHeaderSize + int64(len(segments)) + int64(dataSize),
		HeaderType:      hdr[5],
		GranulePosition: int64(binary.LittleEndian.Uint64(hdr[6:14])),
		SerialNumber:    binary.LittleEndian.Uint32(hdr[14:18]),
		SequenceNumber:  binary.LittleEndian.Uint32(hdr[18:22]),
	}

	if !withData {
		if dataOffset+int64(dataSize) > sr.Size() {
			return nil, nil, fmt.Errorf("%s: Ogg page %d at offset %d runs past the end of the file",
				sr.Path(), page.SequenceNumber, offset)
		}
		return page, nil, nil
	}

	data := make([]byte, dataSize)
	if dataSize > 0 {
		if err := sr.ReadAt(data, dataOffset, "page data"); err != nil {
			return nil, nil, err
		}
	}

	return page, data, nil
}

// Next returns the offset of the page following p.
func (p *Page) Next() int64 {
	return p.Offset + p.Size
}
