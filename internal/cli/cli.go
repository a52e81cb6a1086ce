// Package cli orchestrates a batch run: it picks the progress surface,
// wires the hooks, drives the processor, and renders the final report.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/lean-apple/multi-files-processor/internal/cli/hooks"
	"github.com/lean-apple/multi-files-processor/internal/cli/render"
	"github.com/lean-apple/multi-files-processor/internal/cli/ui"
	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

// isTerminal reports whether fd is a TTY. Variable so tests can stub it.
var isTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}

// teaProgramAdapter bridges *tea.Program to the hooks.TUIProgram interface.
type teaProgramAdapter struct{ p *tea.Program }

func (a teaProgramAdapter) Send(msg interface{}) { a.p.Send(msg) }

// progressBarAdapter bridges *progressbar.ProgressBar to hooks.ProgressBar.
type progressBarAdapter struct{ bar *progressbar.ProgressBar }

func (a progressBarAdapter) Add(n int) error { return a.bar.Add(n) }

func (a progressBarAdapter) Describe(description string) error {
	a.bar.Describe(description)
	return nil
}

func (a progressBarAdapter) Close() error { return a.bar.Close() }

// Run processes the given paths with the validated options and writes the
// report to out. It returns an error only for batch-level failures; per-file
// failures are part of the report.
func Run(ctx context.Context, paths []string, opts textproc.Options, logger *slog.Logger, out io.Writer) error {
	stderrIsTTY := isTerminal(int(os.Stderr.Fd()))
	useTUI := opts.TuiEnabled && stderrIsTTY && !opts.Verbose && opts.OutputFormat != textproc.OutputFormatJSON
	useBar := !useTUI && stderrIsTTY && !opts.Verbose

	if useTUI {
		return runWithTUI(ctx, paths, opts, logger, out)
	}

	var bar hooks.ProgressBar
	if useBar {
		pb := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Counting words"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		bar = progressBarAdapter{bar: pb}
	}
	opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, bar)

	proc, err := textproc.NewProcessor(opts)
	if err != nil {
		return err
	}
	if err := proc.ProcessFiles(ctx, paths); err != nil {
		return err
	}
	return render.Report(out, proc.Report(), opts.OutputFormat, opts.Verbose)
}

// runWithTUI drives the batch behind a Bubble Tea program. The program owns
// the terminal until the run completes or the user quits.
func runWithTUI(ctx context.Context, paths []string, opts textproc.Options, logger *slog.Logger, out io.Writer) error {
	model := ui.NewModel()
	program := tea.NewProgram(&model, tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	opts.EventHooks = hooks.NewCLIHooks(logger, true, false, teaProgramAdapter{p: program}, nil)
	proc, err := textproc.NewProcessor(opts)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- proc.ProcessFiles(ctx, paths)
	}()

	if _, uiErr := program.Run(); uiErr != nil {
		logger.Warn("TUI terminated", slog.Any("error", uiErr))
	}
	// The model quits on its own when the run completes; if the user quit
	// early the processor may still be draining, so wait either way.
	procErr := <-done
	if procErr != nil {
		return procErr
	}
	return render.Report(out, proc.Report(), opts.OutputFormat, opts.Verbose)
}
