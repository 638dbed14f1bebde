// Package cmd holds the mp3inspect command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mp3inspect/config"
	"mp3inspect/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mp3inspect",
	Short: "Inspect the structure of MP3 files",
	Long: `mp3inspect decodes the ID3v2.3 tag and the MPEG audio frame headers of an
MP3 file and reports what it finds, either from the command line or over HTTP.`,
	SilenceUsage: true,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, log, nil
}
