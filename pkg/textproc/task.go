package textproc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lean-apple/multi-files-processor/pkg/textproc/words"
)

// fileEntry carries a completed file's result to the aggregator.
type fileEntry struct {
	Path   string
	Result FileResult
}

// processFile executes the processing pipeline for a single file path: stat,
// one read of the content, binary/encoding handling, line splitting, and
// per-line word counting. It returns either a fileEntry or a FailureInfo for
// the aggregator; it never panics the batch over a bad file.
func (p *Processor) processFile(ctx context.Context, path string) any {
	startTime := time.Now()
	logArgs := []any{slog.String("path", path)}

	var failReason string
	defer func() {
		duration := time.Since(startTime)
		if failReason != "" {
			p.logger.Error("File task failed", append(logArgs, slog.String("error", failReason), slog.Duration("duration", duration))...)
			p.notifyStatus(path, StatusFailed, failReason, duration)
			return
		}
		p.logger.Debug("File task finished", append(logArgs, slog.Duration("duration", duration))...)
		p.notifyStatus(path, StatusSuccess, "", duration)
	}()

	p.notifyStatus(path, StatusProcessing, "", 0)

	select {
	case <-ctx.Done():
		failReason = fmt.Sprintf("cancelled: %v", ctx.Err())
		return FailureInfo{Path: path, Reason: failReason}
	default:
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		failReason = fmt.Errorf("%w: %w", ErrStatFailed, statErr).Error()
		return FailureInfo{Path: path, Reason: failReason}
	}
	if info.IsDir() {
		failReason = fmt.Errorf("%w: %s is a directory", ErrStatFailed, path).Error()
		return FailureInfo{Path: path, Reason: failReason}
	}

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		failReason = fmt.Errorf("%w: %w", ErrReadFailed, readErr).Error()
		return FailureInfo{Path: path, Reason: failReason}
	}

	if p.encodingHandler.IsBinary(content) {
		failReason = fmt.Errorf("%w: cannot count words in non-text data", ErrBinaryContent).Error()
		return FailureInfo{Path: path, Reason: failReason}
	}

	utf8Content, detectedEncoding, _, decodeErr := p.encodingHandler.DetectAndDecode(content)
	if decodeErr != nil {
		failReason = fmt.Errorf("%w: %w", ErrEncodingFailed, decodeErr).Error()
		return FailureInfo{Path: path, Reason: failReason}
	}
	logArgs = append(logArgs, slog.String("encoding", detectedEncoding))

	lines := words.SplitLines(string(utf8Content))
	lineCounts := make([]int, 0, len(lines))
	totalWords := 0
	for _, line := range lines {
		n := words.Count(line)
		lineCounts = append(lineCounts, n)
		totalWords += n
	}

	return fileEntry{
		Path:   path,
		Result: FileResult{LineCounts: lineCounts, TotalWords: totalWords},
	}
}

// notifyStatus forwards a status change to the configured hooks.
func (p *Processor) notifyStatus(path string, status Status, message string, duration time.Duration) {
	if hookErr := p.hooks.OnFileStatusUpdate(path, status, message, duration); hookErr != nil {
		p.logger.Warn("Event hook OnFileStatusUpdate failed",
			slog.String("path", path), slog.String("status", string(status)), slog.String("error", hookErr.Error()))
	}
}
