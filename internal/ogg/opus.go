package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/tonie/internal/types"
)

// opusSampleRate is the decoder output rate and the granule position unit.
const opusSampleRate = 48000

// OpusHead holds the identification header of an Opus stream.
type OpusHead struct {
	Version         uint8
	Channels        int
	PreSkip         int
	InputSampleRate int
	OutputGain      int16 // Q7.8 dB
	MappingFamily   uint8
}

// GainDB returns the output gain in decibels.
func (h *OpusHead) GainDB() float64 {
	return float64(h.OutputGain) / 256.0
}

// parseOpusHead parses the OpusHead identification header.
//
// The OpusHead header contains audio properties:
//   - Version (must be 1)
//   - Number of channels
//   - Pre-skip (samples to skip at start)
//   - Input sample rate (original recording rate, informational)
//   - Output gain (playback volume adjustment)
//   - Channel mapping family
//
// Note: Opus always outputs at 48kHz regardless of input sample rate.
func parseOpusHead(data []byte) (*OpusHead, error) {
	if len(data) < 19 {
		return nil, fmt.Errorf("%w: OpusHead packet too short: %d bytes (need at least 19)", types.ErrInvalidAudio, len(data))
	}

	// Verify "OpusHead" magic marker
	if string(data[0:8]) != "OpusHead" {
		return nil, fmt.Errorf("%w: invalid OpusHead magic: %q", types.ErrInvalidAudio, string(data[0:8]))
	}

	// Verify version (must be 1)
	if data[8] != 1 {
		return nil, fmt.Errorf("%w: unsupported Opus version: %d (only version 1 is supported)", types.ErrInvalidAudio, data[8])
	}

	// All little-endian
	return &OpusHead{
		Version:         data[8],
		Channels:        int(data[9]),
		PreSkip:         int(binary.LittleEndian.Uint16(data[10:12])),
		InputSampleRate: int(binary.LittleEndian.Uint32(data[12:16])),
		OutputGain:      int16(binary.LittleEndian.Uint16(data[16:18])),
		MappingFamily:   data[18],
	}, nil
}
