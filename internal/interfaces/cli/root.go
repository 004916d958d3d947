// Package cli implements the urbansight command line: offline dataset
// generation, model training, and one-shot scoring against local artifacts.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
)

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "urbansight",
		Short:         "Urban Sight safety advisory toolkit",
		Long:          "Offline tooling for the Urban Sight safety service: generate training data, train the safety model, and score locations from the command line.",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	newCLILogger := func() logging.Logger {
		logger, err := logging.NewLogger(logging.Config{Level: logLevel, Format: "console"})
		if err != nil {
			return logging.NewDefaultLogger()
		}
		return logger
	}

	root.AddCommand(
		newDatasetCommand(),
		newTrainCommand(),
		newScoreCommand(newCLILogger),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
