package textproc

import (
	"log/slog"
	"time"

	"github.com/lean-apple/multi-files-processor/pkg/textproc/encoding"
)

// Hooks defines callbacks for status updates during batch processing.
// Implementations MUST be thread-safe: methods are called concurrently from
// worker goroutines.
type Hooks interface {
	// OnFileDiscovered fires once per path when a batch is scheduled.
	OnFileDiscovered(path string) error

	// OnFileStatusUpdate fires when a file's processing status changes. The
	// message carries the failure reason for StatusFailed and is empty
	// otherwise; duration is non-zero only for final states.
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error

	// OnRunComplete fires after every task of a ProcessFiles call has
	// reached a final state.
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of Hooks.
type NoOpHooks struct{}

// OnFileDiscovered implements Hooks. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements Hooks. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements Hooks. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a Processor.
type Options struct {
	// Concurrency is the number of worker goroutines. 0 auto-detects the
	// CPU count.
	Concurrency int `mapstructure:"concurrency"`

	// DefaultEncoding is the fallback charset name applied by the default
	// encoding handler when detection is uncertain (e.g. "ISO-8859-1").
	DefaultEncoding string `mapstructure:"defaultEncoding"`

	// OutputFormat selects the rendering format for the final results. The
	// library does not render; the value rides along for the CLI.
	OutputFormat OutputFormat `mapstructure:"format"`

	// Verbose enables debug logging and additional output detail.
	Verbose bool `mapstructure:"verbose"`

	// TuiEnabled hints that the CLI should present a terminal UI. Ignored
	// when Verbose is set or stderr is not a terminal.
	TuiEnabled bool `mapstructure:"tuiEnabled"`

	// EventHooks receives per-file status callbacks. Nil defaults to NoOpHooks.
	EventHooks Hooks `mapstructure:"-"`

	// Logger is the logging backend. Nil defaults to a discard handler.
	Logger slog.Handler `mapstructure:"-"`

	// EncodingHandler overrides binary detection and charset decoding. Nil
	// defaults to encoding.NewCharsetHandler(DefaultEncoding).
	EncodingHandler encoding.Handler `mapstructure:"-"`
}
