// Package textproc implements a concurrent batch word counter. A Processor
// fans a list of file paths out to a pool of worker goroutines, counts the
// words on every line of each file, and fans the per-file outcomes into an
// accumulated result store. One file failing never aborts the rest of the
// batch; failures are recorded per file alongside the successes.
package textproc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/lean-apple/multi-files-processor/pkg/textproc/encoding"
)

// Processor orchestrates concurrent file tasks and owns the result store.
// The store accumulates across ProcessFiles calls on the same instance, with
// last-write-wins semantics per path. All methods are safe for concurrent use.
type Processor struct {
	opts            Options
	logger          *slog.Logger
	hooks           Hooks
	encodingHandler encoding.Handler
	concurrency     int

	mu           sync.RWMutex
	results      map[string]FileResult
	failures     map[string]FailureInfo
	lastDuration time.Duration
}

// NewProcessor creates a Processor, validating options and applying defaults:
// zero concurrency auto-detects the CPU count, and nil hooks, logger, or
// encoding handler fall back to no-op, discard, and charset-sniffing
// implementations respectively.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	if opts.OutputFormat != "" && opts.OutputFormat != OutputFormatText && opts.OutputFormat != OutputFormatJSON {
		return nil, fmt.Errorf("%w: unknown output format %q", ErrConfigValidation, opts.OutputFormat)
	}

	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.NewTextHandler(io.Discard, nil)
	}
	if opts.EncodingHandler == nil {
		opts.EncodingHandler = encoding.NewCharsetHandler(opts.DefaultEncoding)
	}

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
	}

	logger := slog.New(opts.Logger).With(slog.String("component", "processor"))

	return &Processor{
		opts:            opts,
		logger:          logger,
		hooks:           opts.EventHooks,
		encodingHandler: opts.EncodingHandler,
		concurrency:     concurrency,
		results:         make(map[string]FileResult),
		failures:        make(map[string]FailureInfo),
	}, nil
}

// ProcessFiles schedules one file task per path, runs them concurrently on
// the worker pool, and waits for every task to reach a final state before
// returning. A single file's failure is recorded under that file's key and
// never fails the call; the call errors only when the batch itself cannot be
// run (empty path list) or the context is cancelled. An entry becomes visible
// in the store only once its task has fully completed.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return ErrEmptyBatch
	}

	startTime := time.Now()
	p.logger.Info("Starting batch", slog.Int("files", len(paths)), slog.Int("concurrency", p.concurrency))

	for _, path := range paths {
		if hookErr := p.hooks.OnFileDiscovered(path); hookErr != nil {
			p.logger.Warn("Event hook OnFileDiscovered failed", slog.String("path", path), slog.String("error", hookErr.Error()))
		}
	}

	workerChan := make(chan string, p.concurrency)
	resultsChan := make(chan any, p.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, i, workerChan, resultsChan)
	}

	go func() {
		defer close(workerChan)
		for _, path := range paths {
			select {
			case workerChan <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	aggregatorDone := make(chan struct{})
	go func() {
		defer close(aggregatorDone)
		for outcome := range resultsChan {
			p.record(outcome)
		}
	}()

	// Workers drain the path channel; the results channel closes only after
	// every worker has exited, and the aggregator drains it fully before the
	// store is exposed to the caller again.
	wg.Wait()
	close(resultsChan)
	<-aggregatorDone

	p.mu.Lock()
	p.lastDuration = time.Since(startTime)
	p.mu.Unlock()

	report := p.Report()
	if hookErr := p.hooks.OnRunComplete(report); hookErr != nil {
		p.logger.Warn("Event hook OnRunComplete failed", slog.String("error", hookErr.Error()))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		p.logger.Info("Batch cancelled", slog.String("reason", ctxErr.Error()))
		return ctxErr
	}

	p.logger.Info("Batch finished",
		slog.Int("succeeded", report.Summary.FileCount),
		slog.Int("failed", report.Summary.FailureCount),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}

// worker is the main loop executed by each worker goroutine.
func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, workerChan <-chan string, resultsChan chan<- any) {
	wLogger := p.logger.With(slog.Int("workerID", workerID))
	currentPath := "unknown"

	defer func() {
		// A panicking task must neither crash the batch nor lose its file:
		// record it as a failure so every scheduled path ends in an outcome.
		if r := recover(); r != nil {
			wLogger.Error("Panic recovered in worker", "panicValue", r)
			resultsChan <- FailureInfo{Path: currentPath, Reason: fmt.Sprintf("panic: %v", r)}
		}
		wg.Done()
	}()

	for {
		select {
		case path, ok := <-workerChan:
			if !ok {
				wLogger.Debug("Worker shutting down (channel closed)")
				return
			}
			currentPath = path
			resultsChan <- p.processFile(ctx, path)

		case <-ctx.Done():
			wLogger.Debug("Worker shutting down (context cancelled)")
			return
		}
	}
}

// record stores a completed task's outcome. It is the only writer of the
// result store; a path occupies exactly one of the two maps at a time.
func (p *Processor) record(outcome any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch o := outcome.(type) {
	case fileEntry:
		p.results[o.Path] = o.Result
		delete(p.failures, o.Path)
	case FailureInfo:
		p.failures[o.Path] = o
		delete(p.results, o.Path)
	default:
		p.logger.Warn("Aggregator received unknown outcome type", "type", fmt.Sprintf("%T", outcome))
	}
}

// Results returns a copy of the accumulated successful entries, keyed by the
// path as supplied to ProcessFiles.
func (p *Processor) Results() map[string]FileResult {
	p.mu.RLock()
	defer p.mu.RUnlock()

	results := make(map[string]FileResult, len(p.results))
	for path, result := range p.results {
		results[path] = result.clone()
	}
	return results
}

// Failures returns a copy of the accumulated failed entries. A path that
// succeeds on a later call disappears from this mapping, and vice versa.
func (p *Processor) Failures() map[string]FailureInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	failures := make(map[string]FailureInfo, len(p.failures))
	for path, info := range p.failures {
		failures[path] = info
	}
	return failures
}

// Report compiles a consistent snapshot of the accumulated results.
func (p *Processor) Report() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()

	files := make(map[string]FileResult, len(p.results))
	totalWords := 0
	for path, result := range p.results {
		files[path] = result.clone()
		totalWords += result.TotalWords
	}
	var failures map[string]FailureInfo
	if len(p.failures) > 0 {
		failures = make(map[string]FailureInfo, len(p.failures))
		for path, info := range p.failures {
			failures[path] = info
		}
	}

	return Report{
		Summary: ReportSummary{
			FileCount:       len(files),
			FailureCount:    len(failures),
			TotalWords:      totalWords,
			Concurrency:     p.concurrency,
			DurationSeconds: p.lastDuration.Seconds(),
			Timestamp:       time.Now().UTC(),
		},
		Files:    files,
		Failures: failures,
	}
}
