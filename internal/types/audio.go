package types

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidAudio is returned when the payload is not an Ogg Opus stream.
	ErrInvalidAudio = errors.New("invalid audio stream")

	ErrChapterNotFound = errors.New("chapter page not found")
)

// AudioInfo describes the Ogg Opus payload that follows the header.
type AudioInfo struct {
	Channels        int
	SampleRate      int // always 48000 for Opus
	InputSampleRate int // rate of the original recording, informational
	PreSkip         int // samples dropped at the start of playback
	OutputGain      float64

	// Number of Ogg pages in the payload
	Pages int

	Duration time.Duration

	// Chapters resolved against the page index, in header order
	Chapters []Chapter

	// Stream problems found while scanning
	Warnings []Warning
}

// Chapter is a header chapter entry resolved to a position in the payload.
type Chapter struct {
	Index  int    // 1-based
	Page   uint32 // Ogg page sequence number from the header
	Offset int64  // file offset of the page
	Start  time.Duration
	End    time.Duration
}

// ChapterNotFoundError reports a chapter whose page does not exist in the
// audio stream.
type ChapterNotFoundError struct {
	Index int
	Page  uint32
}

func (e *ChapterNotFoundError) Error() string {
	return fmt.Sprintf("chapter %d starts at page %d which is not in the audio stream", e.Index, e.Page)
}

func (e *ChapterNotFoundError) Is(target error) bool { return target == ErrChapterNotFound }
