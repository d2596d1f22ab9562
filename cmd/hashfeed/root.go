package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"hashfeed/pkg/auth"
	"hashfeed/pkg/config"
	"hashfeed/pkg/logger"
	"hashfeed/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFormat  string
	hashtag    string
	verbose    bool
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hashfeed",
	Short: "Aggregate a hashtag from Instagram, Facebook and Twitter",
	Long: `hashfeed searches one hashtag on Instagram, Facebook and Twitter and
serves the results as a uniform JSON feed per platform.

Credentials can come from:
  - Command line flags and environment variables (HASHFEED_*)
  - A constants file (HASHTAG, FBAppID, TWkey, ...)
  - A YAML configuration file
  - Stored credentials (use 'hashfeed auth set' to store)`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose && logLevel == "" {
			logLevel = "debug"
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.NewPrinter(os.Stderr).Error("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./hashfeed.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&hashtag, "hashtag", "", "hashtag to search, e.g. #golang")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "shorthand for --log-level debug")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`hashfeed {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// printer returns the status line printer for cmd's output
func printer(cmd *cobra.Command) *ui.Printer {
	p := ui.NewPrinter(cmd.OutOrStdout())
	if noColor {
		p.SetColor(false)
	}
	return p
}

// globalFlags collects the persistent flags in the shape config expects
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if hashtag != "" {
		flags["hashtag"] = hashtag
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if logFormat != "" {
		flags["log-format"] = logFormat
	}
	return flags
}

// loadConfig resolves the configuration, fills missing credentials from the
// credential stores, validates and initializes the global logger. Logs go to
// cmd's error stream so stdout carries command output only.
func loadConfig(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	flags := globalFlags()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.LoadUnvalidated(configFile, flags)
	if err != nil {
		return nil, err
	}

	var filled []string
	if manager, err := auth.NewManager(); err == nil {
		for _, p := range manager.Fill(cfg) {
			filled = append(filled, p.String())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := logger.InitializeWithWriter(&cfg.Logging, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	if len(filled) > 0 {
		logger.WithField("platforms", filled).Debug("credentials filled from store")
	}

	return cfg, nil
}
