// Package config loads CLI configuration with the usual precedence:
// defaults, then an optional config file, then MFP_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

const (
	EnvPrefix         = "MFP"
	DefaultConfigName = "mfp"
)

// LoadAndValidate loads configuration from all sources, validates the merged
// result, and builds the final logger. The returned Options carry the logger
// handler for the library.
func LoadAndValidate(cfgFile string, flags *pflag.FlagSet) (textproc.Options, *slog.Logger, error) {
	var opts textproc.Options
	v := viper.New()

	// Basic logger for errors raised before the final logger exists.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		tempLogger.Debug("Using configuration file", slog.String("path", v.ConfigFileUsed()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	flagKeys := []string{"verbose", "no-tui", "concurrency", "format"}
	for _, key := range flagKeys {
		if flag := flags.Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", key), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", key, err)
			}
		}
	}
	v.RegisterAlias("outputFormat", "format")

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Boolean flags need explicit handling so an explicit flag always wins.
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui {
			opts.TuiEnabled = false
		}
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateOptions(&opts, logger); err != nil {
		return opts, logger, err
	}

	// Verbose output and the TUI share the terminal; verbose wins.
	if opts.Verbose {
		opts.TuiEnabled = false
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", v.ConfigFileUsed()),
		slog.Bool("verbose", opts.Verbose),
		slog.String("format", string(opts.OutputFormat)),
	)

	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", textproc.DefaultConcurrency)
	v.SetDefault("format", string(textproc.DefaultOutputFormat))
	v.SetDefault("verbose", textproc.DefaultVerbose)
	v.SetDefault("tuiEnabled", textproc.DefaultTuiEnabled)
	v.SetDefault("defaultEncoding", textproc.DefaultEncoding)
}

// validateOptions performs semantic validation on the merged options. It
// wraps errors with textproc.ErrConfigValidation.
func validateOptions(opts *textproc.Options, logger *slog.Logger) error {
	if opts.Concurrency < 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'concurrency' (flag --concurrency). Must be >= 0", textproc.ErrConfigValidation, opts.Concurrency)
		logger.Error(err.Error(), slog.Int("value", opts.Concurrency))
		return err
	}
	switch opts.OutputFormat {
	case textproc.OutputFormatText, textproc.OutputFormatJSON:
	default:
		err := fmt.Errorf("%w: invalid value '%s' for key 'format' (flag --format). Allowed: [%s %s]",
			textproc.ErrConfigValidation, opts.OutputFormat, textproc.OutputFormatText, textproc.OutputFormatJSON)
		logger.Error(err.Error(), slog.String("value", string(opts.OutputFormat)))
		return err
	}
	return nil
}

// defaultConfig mirrors the Options fields a config file may set.
type defaultConfig struct {
	Concurrency     int    `yaml:"concurrency"`
	Format          string `yaml:"format"`
	Verbose         bool   `yaml:"verbose"`
	TuiEnabled      bool   `yaml:"tuiEnabled"`
	DefaultEncoding string `yaml:"defaultEncoding"`
}

// WriteDefault writes a commented default config file at path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file '%s' already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access '%s': %w", path, err)
	}

	body, err := yaml.Marshal(defaultConfig{
		Concurrency:     textproc.DefaultConcurrency,
		Format:          string(textproc.DefaultOutputFormat),
		Verbose:         textproc.DefaultVerbose,
		TuiEnabled:      textproc.DefaultTuiEnabled,
		DefaultEncoding: textproc.DefaultEncoding,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	header := "# mfp configuration. Values here are overridden by MFP_* environment\n" +
		"# variables and command-line flags.\n" +
		"# concurrency: 0 means one worker per CPU.\n"
	if err := os.WriteFile(path, []byte(header+string(body)), 0644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", path, err)
	}
	return nil
}
