package ogg

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	binutil "github.com/simonhull/tonie/internal/binary"
	"github.com/simonhull/tonie/internal/types"
)

// maxGranule bounds plausible granule positions: a week of audio.
const maxGranule = opusSampleRate * 60 * 60 * 24 * 7

// Stream is the page index of an Ogg Opus stream.
type Stream struct {
	Head  *OpusHead
	Pages []Page

	// Duration after pre-skip, from the last granule position
	Duration time.Duration
}

// Scan walks every page of the stream that starts at offset start and builds
// the page index. Only page headers are read, except for the first page,
// which must carry the OpusHead packet.
//
// A broken page after the first one ends the scan with a warning; the pages
// read so far stay usable.
func Scan(ctx context.Context, sr *binutil.SafeReader, start int64) (*Stream, []types.Warning, error) {
	first, data, err := readPage(sr, start, true)
	if err != nil {
		return nil, nil, fmt.Errorf("read first Ogg page: %w", err)
	}
	if first.HeaderType&flagBOS == 0 {
		return nil, nil, fmt.Errorf("%w: first Ogg page is not a beginning of stream", types.ErrInvalidAudio)
	}

	head, err := parseOpusHead(data)
	if err != nil {
		return nil, nil, err
	}

	s := &Stream{Head: head}
	var warnings []types.Warning
	if w := clampGranule(first); w != nil {
		warnings = append(warnings, *w)
	}
	s.Pages = append(s.Pages, *first)

	for offset := first.Next(); offset < sr.Size(); {
		if len(s.Pages)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		page, _, err := readPage(sr, offset, false)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "ogg",
				Message: fmt.Sprintf("stopped after %d pages: %v", len(s.Pages), err),
				Offset:  offset,
				Err:     err,
			})
			break
		}

		prev := &s.Pages[len(s.Pages)-1]
		if page.SerialNumber != prev.SerialNumber {
			warnings = append(warnings, types.Warning{
				Stage:   "ogg",
				Message: fmt.Sprintf("page %d changes serial number from %d to %d", page.SequenceNumber, prev.SerialNumber, page.SerialNumber),
				Offset:  offset,
			})
		}
		if page.SequenceNumber != prev.SequenceNumber+1 {
			warnings = append(warnings, types.Warning{
				Stage:   "ogg",
				Message: fmt.Sprintf("page %d follows page %d", page.SequenceNumber, prev.SequenceNumber),
				Offset:  offset,
			})
		}

		if w := clampGranule(page); w != nil {
			warnings = append(warnings, *w)
		}
		s.Pages = append(s.Pages, *page)
		offset = page.Next()
	}

	last := s.Pages[len(s.Pages)-1]
	if last.HeaderType&flagEOS == 0 {
		warnings = append(warnings, types.Warning{
			Stage:   "ogg",
			Message: fmt.Sprintf("last page %d is not marked end of stream", last.SequenceNumber),
			Offset:  last.Offset,
		})
	}

	s.Duration = s.StartTime(len(s.Pages))

	return s, warnings, nil
}

// Find returns the index of the page with the given sequence number.
func (s *Stream) Find(sequence uint32) (int, bool) {
	i, found := slices.BinarySearchFunc(s.Pages, sequence, func(p Page, seq uint32) int {
		switch {
		case p.SequenceNumber < seq:
			return -1
		case p.SequenceNumber > seq:
			return 1
		}
		return 0
	})
	if found {
		return i, true
	}
	// Out of order sequence numbers break the search.
	for i, p := range s.Pages {
		if p.SequenceNumber == sequence {
			return i, true
		}
	}
	return 0, false
}

// StartTime returns the playback time at which page i starts: the granule
// position of the last earlier page on which a packet ends, less pre-skip.
// i may be len(s.Pages) to get the end of the stream.
func (s *Stream) StartTime(i int) time.Duration {
	for j := min(i, len(s.Pages)) - 1; j >= 0; j-- {
		if g := s.Pages[j].GranulePosition; g != granuleUnset {
			return s.granuleTime(g)
		}
	}
	return 0
}

// clampGranule marks a granule position outside [0, maxGranule] as unset so
// it cannot produce a playback time.
func clampGranule(p *Page) *types.Warning {
	g := p.GranulePosition
	if g == granuleUnset || (g >= 0 && g <= maxGranule) {
		return nil
	}
	p.GranulePosition = granuleUnset
	return &types.Warning{
		Stage:   "ogg",
		Message: fmt.Sprintf("page %d has implausible granule position %d, ignored", p.SequenceNumber, g),
		Offset:  p.Offset,
	}
}

func (s *Stream) granuleTime(granule int64) time.Duration {
	samples := granule - int64(s.Head.PreSkip)
	if samples <= 0 {
		return 0
	}
	secs := samples / opusSampleRate
	if secs > int64(math.MaxInt64/time.Second)-1 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs)*time.Second + time.Duration(samples%opusSampleRate)*time.Second/opusSampleRate
}
