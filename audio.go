package tonie

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonhull/tonie/internal/ogg"
	"github.com/simonhull/tonie/internal/types"
)

// AudioInfo is an alias to types.AudioInfo.
type AudioInfo = types.AudioInfo

// Chapter is an alias to types.Chapter.
type Chapter = types.Chapter

// ScanAudio walks the Ogg Opus payload and resolves the header chapters to
// file offsets and playback times.
//
// Only Ogg page headers are read, so the cost grows with the number of pages,
// not with the payload size. A chapter whose page is missing from the stream
// is left out and reported as a "chapters" warning carrying a
// *ChapterNotFoundError.
//
// Example:
//
//	info, err := file.ScanAudio(ctx)
//	if err != nil {
//		return err
//	}
//	for _, ch := range info.Chapters {
//		fmt.Printf("%d: %s\n", ch.Index, ch.Start)
//	}
func (f *File) ScanAudio(ctx context.Context) (*AudioInfo, error) {
	if f.AudioSize() == 0 {
		return nil, fmt.Errorf("%s: %w: no audio payload", f.Path, ErrInvalidAudio)
	}

	stream, warnings, err := ogg.Scan(ctx, f.sr, HeaderSize)
	if err != nil {
		f.logger.Error("could not scan audio stream", slog.Any("error", err))
		return nil, fmt.Errorf("%s: scan audio: %w", f.Path, err)
	}

	info := &AudioInfo{
		Channels:        stream.Head.Channels,
		SampleRate:      48000,
		InputSampleRate: stream.Head.InputSampleRate,
		PreSkip:         stream.Head.PreSkip,
		OutputGain:      stream.Head.GainDB(),
		Pages:           len(stream.Pages),
		Duration:        stream.Duration,
		Warnings:        warnings,
	}

	for i, page := range f.Header.Chapters {
		idx, ok := stream.Find(page)
		if !ok {
			err := &ChapterNotFoundError{Index: i + 1, Page: page}
			info.Warnings = append(info.Warnings, Warning{
				Stage:   "chapters",
				Message: err.Error(),
				Err:     err,
			})
			continue
		}

		info.Chapters = append(info.Chapters, Chapter{
			Index:  i + 1,
			Page:   page,
			Offset: stream.Pages[idx].Offset,
			Start:  stream.StartTime(idx),
		})
	}

	// A chapter ends where the next resolved one starts.
	for i := range info.Chapters {
		if i+1 < len(info.Chapters) {
			info.Chapters[i].End = info.Chapters[i+1].Start
		} else {
			info.Chapters[i].End = info.Duration
		}
		if info.Chapters[i].End < info.Chapters[i].Start {
			info.Warnings = append(info.Warnings, Warning{
				Stage:   "chapters",
				Message: fmt.Sprintf("chapter %d ends before it starts", info.Chapters[i].Index),
				Offset:  info.Chapters[i].Offset,
			})
		}
	}

	for _, w := range info.Warnings {
		f.metrics.RecordWarning(w.Stage)
		f.logger.Warn("audio stream warning", slog.String("stage", w.Stage), slog.String("message", w.Message))
	}
	f.logger.Debug("scanned audio stream",
		slog.Int("pages", info.Pages),
		slog.Duration("duration", info.Duration),
		slog.Int("chapters", len(info.Chapters)))

	return info, nil
}
