package textproc

// Status defines the processing states a file moves through during a batch.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// IsFinal reports whether a status represents a terminal state for a file.
func (s Status) IsFinal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// OutputFormat defines the rendering format for batch results.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)
