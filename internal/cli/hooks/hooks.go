// Package hooks bridges library events to the CLI's presentation layer.
// Depending on the active mode the events feed a Bubble Tea program, a
// progress bar, or the structured logger.
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

// FileDiscoveredMsg signals that a file was accepted into the batch.
type FileDiscoveredMsg struct{ Path string }

// FileStatusUpdateMsg signals a change in a file's processing status.
type FileStatusUpdateMsg struct {
	Path     string
	Status   textproc.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg signals completion of the whole batch.
type RunCompleteMsg struct{ Report textproc.Report }

// TUIProgram is the part of a Bubble Tea program the hooks need.
type TUIProgram interface {
	Send(msg interface{})
}

// ProgressBar is the part of a progress bar the hooks need.
type ProgressBar interface {
	Add(num int) error
	Describe(description string) error
	Close() error
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg interface{}) {}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Describe implements ProgressBar.
func (n *NoOpProgressBar) Describe(description string) error { return nil }

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// CLIHooks implements the textproc.Hooks interface for the CLI. All methods
// are safe for concurrent use by the processor's workers.
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
	progressBar    ProgressBar
	barActive      bool
	mu             sync.Mutex
}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProgram or
// progressBar when that surface is not in use; NoOp versions are substituted.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, progBar ProgressBar) textproc.Hooks {
	barActive := progBar != nil
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	if progBar == nil {
		progBar = &NoOpProgressBar{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		progressBar:    progBar,
		barActive:      barActive,
	}
}

// OnFileDiscovered handles a file being accepted into the batch.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileDiscoveredMsg{Path: path})
	} else if h.verboseEnabled {
		h.logger.Debug("File discovered", "path", path)
	}
	return nil
}

// OnFileStatusUpdate handles a file's processing status changing.
func (h *CLIHooks) OnFileStatusUpdate(path string, status textproc.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileStatusUpdateMsg{
			Path:     path,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if h.verboseEnabled {
		logLevel := slog.LevelDebug
		logMsg := "File status updated"
		attrs := []any{
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			logKey := "message"
			if status == textproc.StatusFailed {
				logKey = "error"
			}
			attrs = append(attrs, slog.String(logKey, message))
		}

		switch status {
		case textproc.StatusSuccess:
			logLevel = slog.LevelInfo
		case textproc.StatusFailed:
			logLevel = slog.LevelError
			logMsg = "File processing failed"
		}
		h.logger.Log(nil, logLevel, logMsg, attrs...)
		return nil
	}

	if h.barActive {
		h.mu.Lock()
		defer h.mu.Unlock()
		if status.IsFinal() {
			_ = h.progressBar.Add(1)
		}
		if status == textproc.StatusFailed {
			h.logger.Error("File processing failed", "path", path, "error", message)
		}
		return nil
	}

	// Plain mode only surfaces failures.
	if status == textproc.StatusFailed {
		h.logger.Error("File processing failed", "path", path, "error", message)
	}
	return nil
}

// OnRunComplete handles the batch finishing. Sends the final report to the
// TUI or finalizes the progress bar.
func (h *CLIHooks) OnRunComplete(report textproc.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
		return nil
	}
	if h.barActive {
		h.mu.Lock()
		_ = h.progressBar.Close()
		h.mu.Unlock()
		// Newline so the shell prompt does not overlap the finished bar.
		_, _ = fmt.Fprintf(os.Stderr, "\n")
	}
	return nil
}
