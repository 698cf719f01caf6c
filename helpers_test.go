package tonie_test

import (
	"crypto/sha1"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/tonie"
)

// content describes a content file to build for tests.
// This duplicates some logic from internal/header/decoder_test.go but keeps
// the public API tests independent.
type content struct {
	audio    []byte
	audioID  uint32
	chapters []uint32

	noHash      bool
	badHash     bool
	lengthDelta int // added to the declared audio length
	fillDelta   int // added to the declared padding length
}

// bytes builds the header block followed by the audio payload.
func (c content) bytes() []byte {
	buf := append([]byte(nil), tonie.Magic[:]...)

	if !c.noHash {
		sum := sha1.Sum(c.audio)
		if c.badHash {
			sum[0] ^= 0xFF
		}
		buf = append(buf, 1<<3|2)
		buf = binary.AppendUvarint(buf, tonie.HashSize)
		buf = append(buf, sum[:]...)
	}

	buf = append(buf, 2<<3|0)
	buf = binary.AppendUvarint(buf, uint64(len(c.audio)+c.lengthDelta))

	buf = append(buf, 3<<3|0)
	buf = binary.AppendUvarint(buf, uint64(c.audioID))

	buf = append(buf, 4<<3|2)
	buf = binary.AppendUvarint(buf, uint64(len(c.chapters)))
	for _, ch := range c.chapters {
		buf = binary.AppendUvarint(buf, uint64(ch))
	}

	// Fill count occupies two bytes for any realistic header.
	buf = append(buf, 5<<3|2)
	fill := tonie.HeaderSize - len(buf) - 2 + c.fillDelta
	buf = binary.AppendUvarint(buf, uint64(fill))

	block := make([]byte, tonie.HeaderSize)
	copy(block, buf)
	return append(block, c.audio...)
}

// write stores the content file in a fresh temp dir and returns its path.
func (c content) write(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "500304E0")
	if err := os.WriteFile(path, c.bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleAudio() []byte {
	audio := []byte("OggS")
	for i := 0; i < 8192; i++ {
		audio = append(audio, byte(i*7))
	}
	return audio
}

// oggAudio builds an Ogg Opus stream laid out like Tonie audio: OpusHead on
// page 0, OpusTags on page 1, then one page per second of audio.
func oggAudio(seconds int) []byte {
	var buf []byte
	page := func(seq uint32, flags byte, granule uint64, data []byte) {
		hdr := make([]byte, 27)
		copy(hdr, "OggS")
		hdr[5] = flags
		binary.LittleEndian.PutUint64(hdr[6:], granule)
		binary.LittleEndian.PutUint32(hdr[14:], 0xCAFE)
		binary.LittleEndian.PutUint32(hdr[18:], seq)
		hdr[26] = 1 // one segment, data is always < 255 bytes
		buf = append(buf, hdr...)
		buf = append(buf, byte(len(data)))
		buf = append(buf, data...)
	}

	head := []byte("OpusHead\x01\x02")
	head = binary.LittleEndian.AppendUint16(head, 0) // pre-skip
	head = binary.LittleEndian.AppendUint32(head, 48000)
	head = append(head, 0, 0, 0)
	page(0, 0x02, 0, head)
	page(1, 0, 0, []byte("OpusTags\x00\x00\x00\x00\x00\x00\x00\x00"))

	for i := 1; i <= seconds; i++ {
		flags := byte(0)
		if i == seconds {
			flags = 0x04
		}
		page(uint32(i+1), flags, uint64(i*48000), make([]byte, 100))
	}
	return buf
}
