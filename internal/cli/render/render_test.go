package render_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/lean-apple/multi-files-processor/internal/cli/render"
	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

// reportSchema pins the JSON output shape consumed by downstream tooling.
const reportSchema = `{
  "type": "object",
  "required": ["files"],
  "properties": {
    "files": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["line_counts", "total_words"],
        "properties": {
          "line_counts": {"type": "array", "items": {"type": "integer", "minimum": 0}},
          "total_words": {"type": "integer", "minimum": 0}
        },
        "additionalProperties": false
      }
    },
    "failures": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "summary": {"type": "object"}
  },
  "additionalProperties": false
}`

func sampleReport() textproc.Report {
	return textproc.Report{
		Summary: textproc.ReportSummary{
			FileCount:       2,
			FailureCount:    1,
			TotalWords:      8,
			Concurrency:     4,
			DurationSeconds: 0.05,
			Timestamp:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Files: map[string]textproc.FileResult{
			"/tmp/data/a.txt": {LineCounts: []int{2, 1, 0, 3}, TotalWords: 6},
			"/tmp/data/b.txt": {LineCounts: []int{2}, TotalWords: 2},
		},
		Failures: map[string]textproc.FailureInfo{
			"/tmp/data/missing.txt": {Path: "/tmp/data/missing.txt", Reason: "failed to stat file: no such file"},
		},
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, sampleReport(), false))

	out := buf.String()
	assert.Equal(t, "Processing Results:\n"+
		"a.txt: 6 words total\n"+
		"  Line counts: [2, 1, 0, 3]\n"+
		"b.txt: 2 words total\n"+
		"  Line counts: [2]\n"+
		"missing.txt: failed (failed to stat file: no such file)\n", out)
}

func TestTextOutputVerboseFooter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, sampleReport(), true))
	assert.Contains(t, buf.String(), "Processed 2 file(s), 1 failure(s), 8 words total in 0.05s")
}

func TestTextOutputEmptyFile(t *testing.T) {
	report := textproc.Report{
		Files: map[string]textproc.FileResult{"empty.txt": {LineCounts: []int{}, TotalWords: 0}},
	}
	var buf bytes.Buffer
	require.NoError(t, render.Text(&buf, report, false))
	assert.Contains(t, buf.String(), "empty.txt: 0 words total\n  Line counts: []\n")
}

func TestJSONOutputShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, sampleReport(), false))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	files, ok := doc["files"].(map[string]any)
	require.True(t, ok, "files must be an object keyed by basename")
	require.Contains(t, files, "a.txt")
	entry := files["a.txt"].(map[string]any)
	assert.Equal(t, []any{float64(2), float64(1), float64(0), float64(3)}, entry["line_counts"])
	assert.Equal(t, float64(6), entry["total_words"])

	failures, ok := doc["failures"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, failures["missing.txt"], "failed to stat file")

	assert.NotContains(t, doc, "summary", "summary only appears in verbose mode")
}

func TestJSONOutputValidatesAgainstSchema(t *testing.T) {
	testCases := []struct {
		name    string
		report  textproc.Report
		verbose bool
	}{
		{name: "Full report", report: sampleReport(), verbose: false},
		{name: "Verbose with summary", report: sampleReport(), verbose: true},
		{name: "Empty report", report: textproc.Report{Files: map[string]textproc.FileResult{}}, verbose: false},
		{name: "Empty file entry", report: textproc.Report{
			Files: map[string]textproc.FileResult{"empty.txt": {}},
		}, verbose: false},
	}

	schemaLoader := gojsonschema.NewStringLoader(reportSchema)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render.JSON(&buf, tc.report, tc.verbose))

			result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(buf.Bytes()))
			require.NoError(t, err)
			assert.True(t, result.Valid(), "schema violations: %v", result.Errors())
		})
	}
}

func TestJSONOutputEmptyFileMarshalsEmptyArray(t *testing.T) {
	report := textproc.Report{Files: map[string]textproc.FileResult{"empty.txt": {}}}
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, report, false))
	assert.Contains(t, buf.String(), `"line_counts": []`)
}

func TestJSONOutputRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, sampleReport(), true))

	var doc struct {
		Files map[string]struct {
			LineCounts []int `json:"line_counts"`
			TotalWords int   `json:"total_words"`
		} `json:"files"`
		Failures map[string]string       `json:"failures"`
		Summary  *textproc.ReportSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []int{2, 1, 0, 3}, doc.Files["a.txt"].LineCounts)
	assert.Equal(t, 6, doc.Files["a.txt"].TotalWords)
	assert.Len(t, doc.Failures, 1)
	require.NotNil(t, doc.Summary)
	assert.Equal(t, 8, doc.Summary.TotalWords)
}

func TestJSONOutputStable(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, render.JSON(&first, sampleReport(), false))
	require.NoError(t, render.JSON(&second, sampleReport(), false))
	assert.Equal(t, first.String(), second.String())
}

func TestReportDispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Report(&buf, sampleReport(), textproc.OutputFormatJSON, false))
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	require.NoError(t, render.Report(&buf, sampleReport(), textproc.OutputFormatText, false))
	assert.Contains(t, buf.String(), "Processing Results:")

	err := render.Report(&buf, sampleReport(), "csv", false)
	assert.ErrorIs(t, err, textproc.ErrConfigValidation)
}
