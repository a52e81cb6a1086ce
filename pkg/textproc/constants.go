package textproc

// Defaults for configuration options. These are also used when setting up
// Viper defaults in the CLI configuration loading.
const (
	// DefaultConcurrency determines the default number of workers. 0 means
	// runtime.NumCPU().
	DefaultConcurrency = 0
	// DefaultOutputFormat is the default rendering format for batch results.
	DefaultOutputFormat = OutputFormatText
	// DefaultTuiEnabled is the default state for the terminal UI.
	DefaultTuiEnabled = true
	// DefaultEncoding is the fallback charset applied when detection is
	// uncertain. Empty keeps the detector's best guess.
	DefaultEncoding = ""
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)
