package tonie

import (
	"log/slog"
	"runtime"

	"github.com/simonhull/tonie/internal/metrics"
)

// Option configures behavior when opening content files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := tonie.Open("CONTENT/0A1B2C3D/500304E0",
//	    tonie.WithStrictParsing(),
//	    tonie.WithHashVerification(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
	verifyHash     bool // Hash the audio payload during Open
	workers        int  // OpenMany concurrency limit
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.DiscardHandler),
	}
}

func newOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default a header whose padding field does not add up to HeaderSize, or
// whose declared audio length does not match the file, is returned with
// warnings. With strict parsing enabled, Open fails instead.
//
// Example:
//
//	file, err := tonie.Open(path, tonie.WithStrictParsing())
//	// errors.Is(err, tonie.ErrPaddingMismatch) for a bad padding field
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// Example:
//
//	file, err := tonie.Open(path, tonie.WithIgnoreWarnings())
//	// file.Warnings will always be empty
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithHashVerification hashes the audio payload during Open and compares it
// with the header hash. A mismatch is reported as a "hash" warning.
//
// This reads the whole file; without it Open reads only the header block.
func WithHashVerification() Option {
	return func(o *openOptions) {
		o.verifyHash = true
	}
}

// WithLogger sets the logger used to report loading progress and failures.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Metrics is an alias to metrics.Metrics, the Prometheus collectors updated
// by Open when configured with WithMetrics.
type Metrics = metrics.Metrics

// NewMetrics creates a Metrics with its own registry.
func NewMetrics() *Metrics {
	return metrics.New()
}

// WithMetrics records decode outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *openOptions) {
		o.metrics = m
	}
}

// WithConcurrency limits how many files OpenMany opens at once.
// Values below 1 keep the default of runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}
