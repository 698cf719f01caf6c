package tonie

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	binutil "github.com/simonhull/tonie/internal/binary"
	"github.com/simonhull/tonie/internal/header"
	"github.com/simonhull/tonie/internal/types"
)

// File represents an opened Tonie content file with a decoded header.
//
// Opening a file reads only the header block. The audio payload is available
// through AudioReader.
//
// Always call Close() when done to release file resources:
//
//	file, err := tonie.Open(path)
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path to the content file
	Path string

	// File size in bytes
	Size int64

	// Decoded header
	Header *Header

	// Warnings encountered while loading (non-fatal issues)
	Warnings []Warning

	reader  io.ReaderAt
	sr      *binutil.SafeReader
	logger  *slog.Logger
	metrics *Metrics
}

// Open opens a content file and decodes its header.
//
// The file handle is kept open for AudioReader and VerifyHash and is closed
// on every error path.
//
// Example:
//
//	file, err := tonie.Open("CONTENT/0A1B2C3D/500304E0")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	fmt.Printf("%d chapters\n", len(file.Header.Chapters))
func Open(path string, opts ...Option) (*File, error) {
	return openPath(path, newOptions(opts))
}

func openPath(path string, options *openOptions) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		options.logger.Error("could not open tonie", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}

	return file, nil
}

// OpenReader decodes the header of content read from r, which holds size
// bytes. path is used in messages only.
func OpenReader(r io.ReaderAt, size int64, path string, opts ...Option) (*File, error) {
	return openReader(r, size, path, newOptions(opts))
}

func openReader(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	logger := options.logger.With(slog.String("path", path))
	logger.Info("loading tonie")

	start := time.Now()
	sr := binutil.NewSafeReader(r, size, path)

	block, err := sr.ReadBlock(0, HeaderSize, "header block")
	if err != nil {
		options.metrics.RecordDecode(false, "io", time.Since(start))
		logger.Error("could not read header block", slog.Any("error", err))
		return nil, fmt.Errorf("read header: %w", err)
	}

	h, warnings, err := header.Decode(block)
	if err != nil {
		kind := types.Kind(err)
		options.metrics.RecordDecode(false, kind, time.Since(start))
		logger.Error("could not decode tonie header", slog.String("kind", kind), slog.Any("error", err))
		return nil, fmt.Errorf("decode header: %w", err)
	}
	options.metrics.RecordHeader(len(h.Chapters), h.AudioLength)

	file := &File{
		Path:     path,
		Size:     size,
		Header:   h,
		Warnings: warnings,
		reader:   r,
		sr:       sr,
		logger:   logger,
		metrics:  options.metrics,
	}

	if payload := file.AudioSize(); payload != int64(h.AudioLength) {
		file.Warnings = append(file.Warnings, Warning{
			Stage:   "audio",
			Message: fmt.Sprintf("audio length should be %d but file holds %d bytes", h.AudioLength, payload),
			Offset:  HeaderSize,
		})
	}

	if options.verifyHash {
		err := file.VerifyHash()
		if !errors.Is(err, ErrNoHash) {
			options.metrics.RecordHashVerification(err == nil)
		}
		switch {
		case err == nil:
		case errors.Is(err, ErrHashMismatch), errors.Is(err, ErrNoHash):
			file.Warnings = append(file.Warnings, Warning{
				Stage:   "hash",
				Message: err.Error(),
				Err:     err,
			})
		default:
			options.metrics.RecordDecode(false, "io", time.Since(start))
			return nil, fmt.Errorf("verify hash: %w", err)
		}
	}

	for _, w := range file.Warnings {
		options.metrics.RecordWarning(w.Stage)
		logger.Warn("tonie header warning", slog.String("stage", w.Stage), slog.String("message", w.Message))
	}

	if options.strictParsing && len(file.Warnings) > 0 {
		w := file.Warnings[0]
		if w.Err != nil {
			options.metrics.RecordDecode(false, types.Kind(w.Err), time.Since(start))
			return nil, fmt.Errorf("strict parsing failed: %w", w.Err)
		}
		options.metrics.RecordDecode(false, "strict_"+w.Stage, time.Since(start))
		return nil, fmt.Errorf("strict parsing failed: %s", w.Message)
	}
	options.metrics.RecordDecode(true, "", time.Since(start))

	if options.ignoreWarnings {
		file.Warnings = nil
	}

	logger.Debug("tonie header", slog.Any("header", h))

	return file, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AudioSize returns the number of payload bytes following the header block.
func (f *File) AudioSize() int64 {
	if f.Size <= HeaderSize {
		return 0
	}
	return f.Size - HeaderSize
}

// AudioReader returns a reader over the audio payload, which starts right
// after the header block and runs to the end of the file.
func (f *File) AudioReader() *io.SectionReader {
	return f.sr.Section(HeaderSize, f.AudioSize())
}

// VerifyHash hashes the audio payload and compares it with the header hash.
//
// It returns ErrNoHash when the header carries no hash, and a
// *HashMismatchError when the digests differ.
func (f *File) VerifyHash() error {
	if !f.Header.HasHash {
		return fmt.Errorf("%s: %w", f.Path, ErrNoHash)
	}

	hasher := sha1.New()
	if _, err := io.Copy(hasher, f.AudioReader()); err != nil {
		return fmt.Errorf("%s: hash audio payload: %w", f.Path, err)
	}

	var got [HashSize]byte
	hasher.Sum(got[:0])
	if got != f.Header.Hash {
		return &HashMismatchError{Path: f.Path, Want: f.Header.Hash, Got: got}
	}
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// Decoding a header is bounded by HeaderSize, so the context is only checked
// before starting.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Open(path, opts...)
}

// OpenMany opens multiple content files concurrently.
//
// Files are opened in parallel using up to runtime.NumCPU() goroutines
// (see WithConcurrency). Results are returned in the same order as the input
// paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := tonie.OpenMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	options := newOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.workers)

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := openPath(path, options)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
