package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lean-apple/multi-files-processor/internal/cli"
	"github.com/lean-apple/multi-files-processor/internal/cli/config"
	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

var (
	// Set during build time using -ldflags.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mfp <file>...",
	Short: "Counts words per line across many text files concurrently.",
	Long: `mfp reads each given file, counts the words on every line, and reports
per-file line counts plus totals.

It features:
  - Parallel processing with one outcome per file.
  - Tolerance for individual file failures; the batch always completes.
  - Text or JSON report output.
  - An interactive Terminal UI (TUI) for monitoring progress.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		return cli.Run(ctx, args, opts, logger, cmd.OutOrStdout())
	},
}

// initCmd writes a starter configuration file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default mfp.yaml config file in the current directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigName + ".yaml"
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	// Cobra prints the error and exits non-zero if RunE returns an error.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search ., $HOME/.config/mfp/)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	rootCmd.Flags().StringP("format", "f", string(textproc.DefaultOutputFormat), `Report format ("text", "json")`)
	rootCmd.Flags().Int("concurrency", textproc.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	rootCmd.Flags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")

	rootCmd.AddCommand(initCmd)
}
