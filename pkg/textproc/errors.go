package textproc

import "errors"

// Error categories returned by ProcessFiles or recorded per file in the
// failure store. Library users can check against these using errors.Is.
var (
	// ErrEmptyBatch indicates ProcessFiles was called with no paths. The
	// batch cannot be interpreted at all, so this is a call-level error
	// rather than a recorded per-file failure.
	ErrEmptyBatch = errors.New("no files provided to process")

	// ErrStatFailed indicates a file could not be stat'd: it is missing, the
	// path is not accessible, or it names a directory. Recorded per file.
	ErrStatFailed = errors.New("failed to stat file")

	// ErrReadFailed indicates a failure to read a file's content from the
	// filesystem after it was successfully stat'd. Recorded per file.
	ErrReadFailed = errors.New("failed to read file")

	// ErrBinaryContent indicates a file's content was detected as binary and
	// cannot be interpreted as lines of text. Recorded per file.
	ErrBinaryContent = errors.New("binary content")

	// ErrEncodingFailed indicates a file's content could not be converted to
	// UTF-8 text. Recorded per file.
	ErrEncodingFailed = errors.New("failed to decode content")

	// ErrConfigValidation indicates the Options passed to NewProcessor failed
	// validation.
	ErrConfigValidation = errors.New("invalid processor options")
)
