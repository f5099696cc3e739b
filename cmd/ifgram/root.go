// ABOUTME: Root Cobra command and global flags for the ifgram CLI.
// ABOUTME: Loads config and opens the log file before any subcommand runs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takubon0202/if-instagram-auto/internal/config"
	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/logging"
)

var globalConfig *config.Config
var globalLogger *logging.Logger

// Flags
var (
	flagSource   string
	flagView     string
	flagLogLevel string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "ifgram",
	Short: "Browse the IF Juku post stream in your terminal",
	Long: `
██╗███████╗     ██████╗ ██████╗  █████╗ ███╗   ███╗
██║██╔════╝    ██╔════╝ ██╔══██╗██╔══██╗████╗ ████║
██║█████╗      ██║  ███╗██████╔╝███████║██╔████╔██║
██║██╔══╝      ██║   ██║██╔══██╗██╔══██║██║╚██╔╝██║
██║██║         ╚██████╔╝██║  ██║██║  ██║██║ ╚═╝ ██║
╚═╝╚═╝          ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝

Posts, carousels, and stories from a static content repository.
Run without a subcommand to open the browser.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagSource != "" {
			cfg.Content.Source = flagSource
		}
		if flagView != "" {
			cfg.Display.ViewMode = flagView
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		globalConfig = cfg

		logPath, err := cfg.GetLogPath()
		if err != nil {
			return fmt.Errorf("failed to resolve log path: %w", err)
		}
		logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: logPath, Verbose: flagVerbose})
		if err != nil {
			return err
		}
		globalLogger = logger
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogger != nil {
			_ = globalLogger.Close()
			globalLogger = nil
		}
		return nil
	},
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Content directory or http(s) base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagView, "view", "", "Initial layout: grid or feed (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Also write logs to stderr")
}

// openRepository resolves the configured content source.
func openRepository() (content.Repository, string, error) {
	source, err := globalConfig.GetContentSource()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve content source: %w", err)
	}
	return content.Open(source, globalLogger.Logger), source, nil
}

func viewMode() engine.ViewMode {
	return engine.ParseViewMode(globalConfig.Display.ViewMode)
}
