package textproc

import "time"

// FileResult is the per-file aggregate produced by a successful file task.
type FileResult struct {
	// LineCounts holds the word count of each line, in file order. Empty for
	// an empty file.
	LineCounts []int `json:"line_counts"`
	// TotalWords is the sum of LineCounts.
	TotalWords int `json:"total_words"`
}

// FailureInfo records a file that could not be processed.
type FailureInfo struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report is a consistent snapshot of a Processor's accumulated results.
type Report struct {
	Summary  ReportSummary          `json:"summary"`
	Files    map[string]FileResult  `json:"files"`
	Failures map[string]FailureInfo `json:"failures,omitempty"`
}

// ReportSummary contains aggregated statistics over the accumulated results.
type ReportSummary struct {
	FileCount       int       `json:"fileCount"`
	FailureCount    int       `json:"failureCount"`
	TotalWords      int       `json:"totalWords"`
	Concurrency     int       `json:"concurrency"`
	DurationSeconds float64   `json:"durationSeconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// clone returns a deep copy so callers never alias the store's slices.
func (r FileResult) clone() FileResult {
	counts := make([]int, len(r.LineCounts))
	copy(counts, r.LineCounts)
	return FileResult{LineCounts: counts, TotalWords: r.TotalWords}
}
