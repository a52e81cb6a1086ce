// Package render turns a textproc.Report into the CLI's output formats.
// Text output lists each file with its total and per-line counts; JSON output
// produces a stable machine-readable document keyed by file basename.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

// jsonFile is the per-file object in the JSON document.
type jsonFile struct {
	LineCounts []int `json:"line_counts"`
	TotalWords int   `json:"total_words"`
}

// jsonDocument is the top-level JSON output shape.
type jsonDocument struct {
	Files    map[string]jsonFile     `json:"files"`
	Failures map[string]string       `json:"failures,omitempty"`
	Summary  *textproc.ReportSummary `json:"summary,omitempty"`
}

// Report writes the report to w in the requested format.
func Report(w io.Writer, report textproc.Report, format textproc.OutputFormat, verbose bool) error {
	switch format {
	case textproc.OutputFormatJSON:
		return JSON(w, report, verbose)
	case textproc.OutputFormatText, "":
		return Text(w, report, verbose)
	default:
		return fmt.Errorf("%w: unknown output format %q", textproc.ErrConfigValidation, format)
	}
}

// Text renders the report in human-readable form. Files appear in sorted
// basename order, successes before the per-file counts, failures inline.
// Verbose appends a run summary footer.
func Text(w io.Writer, report textproc.Report, verbose bool) error {
	var b strings.Builder
	b.WriteString("Processing Results:\n")

	files := baseKeyed(report.Files)
	failures := baseKeyedFailures(report.Failures)

	for _, name := range sortedKeys(files) {
		result := files[name]
		fmt.Fprintf(&b, "%s: %d words total\n", name, result.TotalWords)
		fmt.Fprintf(&b, "  Line counts: %s\n", formatCounts(result.LineCounts))
	}
	for _, name := range sortedKeys(failures) {
		fmt.Fprintf(&b, "%s: failed (%s)\n", name, failures[name])
	}

	if verbose {
		s := report.Summary
		fmt.Fprintf(&b, "\nProcessed %d file(s), %d failure(s), %d words total in %.2fs\n",
			s.FileCount, s.FailureCount, s.TotalWords, s.DurationSeconds)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON renders the report as an indented JSON document. Map keys marshal in
// sorted order, so output is stable for a given report.
func JSON(w io.Writer, report textproc.Report, verbose bool) error {
	doc := jsonDocument{Files: make(map[string]jsonFile, len(report.Files))}
	for name, result := range baseKeyed(report.Files) {
		doc.Files[name] = jsonFile{LineCounts: ensureCounts(result.LineCounts), TotalWords: result.TotalWords}
	}
	if len(report.Failures) > 0 {
		doc.Failures = baseKeyedFailures(report.Failures)
	}
	if verbose {
		summary := report.Summary
		doc.Summary = &summary
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return nil
}

// baseKeyed re-keys results by file basename, matching the CLI's display
// convention. On basename collision the lexically larger path wins.
func baseKeyed(files map[string]textproc.FileResult) map[string]textproc.FileResult {
	out := make(map[string]textproc.FileResult, len(files))
	for _, path := range sortedKeys(files) {
		out[filepath.Base(path)] = files[path]
	}
	return out
}

func baseKeyedFailures(failures map[string]textproc.FailureInfo) map[string]string {
	out := make(map[string]string, len(failures))
	for _, path := range sortedKeys(failures) {
		out[filepath.Base(path)] = failures[path].Reason
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatCounts prints line counts as "[2, 1, 0, 3]".
func formatCounts(counts []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, n := range counts {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", n)
	}
	b.WriteByte(']')
	return b.String()
}

// ensureCounts keeps empty files marshalling as [] rather than null.
func ensureCounts(counts []int) []int {
	if counts == nil {
		return []int{}
	}
	return counts
}
