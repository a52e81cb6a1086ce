// Package words implements the line-level word counting primitives used by the
// textproc pipeline. Counting is whitespace-delimited: a word is a maximal run
// of non-whitespace characters, and runs of whitespace of any length separate
// words without contributing to the count.
package words

import "strings"

// Count returns the number of whitespace-delimited words in a single line.
// It is total over all input: an empty line or a line containing only
// whitespace yields 0.
func Count(line string) int {
	return len(strings.Fields(line))
}

// SplitLines splits text into lines using the platform-neutral convention:
// lines are terminated by '\n', with a preceding '\r' stripped so CRLF input
// behaves the same as LF input. A trailing terminator does not produce a
// spurious empty final line, and empty input yields zero lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	// Drop a single trailing terminator so "a\n" is one line, not two.
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
