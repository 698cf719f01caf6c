// tonie-dump prints the header of Tonie content files.
//
// Usage:
//
//	tonie-dump [-config tonie.yaml] [-json] [-verify] [-strict] [-audio] <file>...
//	tonie-dump -uid E00403500A1B2C3D
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tonie"
	"github.com/simonhull/tonie/internal/config"
)

type uidList []string

func (u *uidList) String() string     { return strings.Join(*u, ",") }
func (u *uidList) Set(s string) error { *u = append(*u, s); return nil }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tonie-dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var uids uidList
	configPath := fs.String("config", "", "path to configuration file")
	asJSON := fs.Bool("json", false, "print headers as JSON")
	verify := fs.Bool("verify", false, "verify the SHA-1 of the audio payload")
	strict := fs.Bool("strict", false, "treat warnings as errors")
	scanAudio := fs.Bool("audio", false, "scan the Ogg stream and print chapter times")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Var(&uids, "uid", "open the content file for this tag UID (repeatable)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tonie-dump [flags] <file>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, "tonie-dump", tonie.GetVersionInfo())
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
			return 1
		}
	}
	// Flags override the file.
	cfg.Decode.VerifyHash = cfg.Decode.VerifyHash || *verify
	if *strict {
		cfg.Decode.Strict = true
		cfg.Decode.IgnoreWarnings = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, closeLog := initLogger(cfg.Logging, stderr)
	defer closeLog()

	paths := fs.Args()
	for _, s := range uids {
		uid, err := tonie.ParseUID(s)
		if err != nil {
			logger.Error("invalid uid", slog.Any("error", err))
			return 2
		}
		paths = append(paths, tonie.ContentPath(cfg.Content.BaseDir, uid))
	}
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	m := tonie.NewMetrics()
	opts := []tonie.Option{
		tonie.WithLogger(logger),
		tonie.WithMetrics(m),
	}
	if cfg.Decode.Strict {
		opts = append(opts, tonie.WithStrictParsing())
	}
	if cfg.Decode.IgnoreWarnings {
		opts = append(opts, tonie.WithIgnoreWarnings())
	}
	if cfg.Decode.VerifyHash {
		opts = append(opts, tonie.WithHashVerification())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := process(ctx, paths, cfg.Decode.Workers, *scanAudio, opts)

	status := 0
	reports := make([]report, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", res.path, res.err)
			reports = append(reports, report{Path: res.path, Error: res.err.Error(), ErrorKind: tonie.ErrorKind(res.err)})
			status = 1
			continue
		}
		if res.scanErr != nil {
			fmt.Fprintf(stderr, "%v\n", res.scanErr)
			status = 1
		}

		rep := newReport(res.file, res.info)
		if res.scanErr != nil {
			rep.AudioError = res.scanErr.Error()
			rep.AudioKind = tonie.ErrorKind(res.scanErr)
		}
		reports = append(reports, rep)
		if !*asJSON {
			printFile(stdout, res.file, res.info)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintf(stderr, "encode report: %v\n", err)
			status = 1
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("failed to write metrics", slog.String("path", cfg.Metrics.Textfile), slog.Any("error", err))
			status = 1
		}
	}

	return status
}

type result struct {
	path    string
	file    *tonie.File
	info    *tonie.AudioInfo
	err     error
	scanErr error
}

// process opens every path with up to workers goroutines. Unlike
// tonie.OpenMany it keeps going past broken files, so every path gets a
// result. Results keep input order and their files are already closed.
func process(ctx context.Context, paths []string, workers int, scanAudio bool, opts []tonie.Option) []result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]result, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			res := result{path: path}
			res.file, res.err = tonie.OpenContext(ctx, path, opts...)
			if res.err == nil {
				if scanAudio {
					res.info, res.scanErr = res.file.ScanAudio(ctx)
				}
				res.file.Close()
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	return results
}

func printFile(w io.Writer, file *tonie.File, info *tonie.AudioInfo) {
	fmt.Fprintf(w, "%s\n", file.Path)
	fmt.Fprint(w, file.Header)
	for _, warn := range file.Warnings {
		fmt.Fprintf(w, " Warning: %s\n", warn)
	}
	if info != nil {
		fmt.Fprintf(w, " Audio: %d ch, %d pages, %s\n", info.Channels, info.Pages, info.Duration.Round(time.Second))
		for _, ch := range info.Chapters {
			fmt.Fprintf(w, "  [%d] page %d @%d  %s - %s\n", ch.Index, ch.Page, ch.Offset,
				ch.Start.Round(time.Second), ch.End.Round(time.Second))
		}
		for _, warn := range info.Warnings {
			fmt.Fprintf(w, " Warning: %s\n", warn)
		}
	}
	fmt.Fprintln(w)
}

// report is the JSON form of one processed file.
type report struct {
	Path        string       `json:"path"`
	Hash        string       `json:"hash,omitempty"`
	AudioLength uint32       `json:"audio_length"`
	AudioID     uint32       `json:"audio_id"`
	Chapters    []uint32     `json:"chapters"`
	Audio       *audioReport `json:"audio,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	Error       string       `json:"error,omitempty"`
	ErrorKind   string       `json:"error_kind,omitempty"`
	AudioError  string       `json:"audio_error,omitempty"`
	AudioKind   string       `json:"audio_error_kind,omitempty"`
}

type audioReport struct {
	Channels int             `json:"channels"`
	Pages    int             `json:"pages"`
	Seconds  float64         `json:"duration_seconds"`
	Chapters []chapterReport `json:"chapters"`
}

type chapterReport struct {
	Page   uint32  `json:"page"`
	Offset int64   `json:"offset"`
	Start  float64 `json:"start_seconds"`
	End    float64 `json:"end_seconds"`
}

func newReport(file *tonie.File, info *tonie.AudioInfo) report {
	r := report{
		Path:        file.Path,
		AudioLength: file.Header.AudioLength,
		AudioID:     file.Header.AudioID,
		Chapters:    file.Header.Chapters,
	}
	if file.Header.HasHash {
		r.Hash = file.Header.HashHex()
	}
	if r.Chapters == nil {
		r.Chapters = []uint32{}
	}
	for _, w := range file.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}

	if info != nil {
		r.Audio = &audioReport{
			Channels: info.Channels,
			Pages:    info.Pages,
			Seconds:  info.Duration.Seconds(),
			Chapters: []chapterReport{},
		}
		for _, ch := range info.Chapters {
			r.Audio.Chapters = append(r.Audio.Chapters, chapterReport{
				Page:   ch.Page,
				Offset: ch.Offset,
				Start:  ch.Start.Seconds(),
				End:    ch.End.Seconds(),
			})
		}
		for _, w := range info.Warnings {
			r.Warnings = append(r.Warnings, w.String())
		}
	}
	return r
}

// initLogger builds the logger described by cfg. The returned func closes
// the log file, if one was opened.
func initLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, func()) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	output := stderr
	closeFn := func() {}
	switch cfg.Output {
	case "stderr", "":
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
		} else {
			output = file
			closeFn = func() { file.Close() }
		}
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler), closeFn
}
