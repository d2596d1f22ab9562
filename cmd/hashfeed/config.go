package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hashfeed/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage hashfeed configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - A constants file named by constants_file
  - Environment variables (HASHFEED_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'hashfeed.yaml'
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the resolved configuration. Secrets are masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Resolve the configuration from every source, including stored
credentials, and report what is missing or invalid.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# hashfeed configuration file
#
# Every value can also come from HASHFEED_* environment variables,
# for example HASHFEED_HASHTAG or HASHFEED_TWITTER_CONSUMER_KEY.

# Hashtag searched on every platform
hashtag: "#golang"

# Timezone of the human readable "time" field
timezone: "Asia/Karachi"

# Optional flat KEY=VALUE file (HASHTAG, IGClientID, FBAppID, TWkey, ...)
constants_file: ""

instagram:
  # A client id is enough for public tag feeds
  client_id: ""
  client_secret: ""
  access_token: ""

facebook:
  # App id and secret, or an access token
  app_id: ""
  app_secret: ""
  access_token: ""
  limit: 100

twitter:
  # All four values are required
  consumer_key: ""
  consumer_secret: ""
  access_token: ""
  access_token_secret: ""
  count: 20

transport:
  connect_timeout: 10s
  timeout: 60s
  user_agent: "hashfeed/1.0"

server:
  addr: ":8080"
  cors_origins: ["*"]
  read_header_timeout: 10s
  shutdown_timeout: 15s
  # Feed requests allowed per platform within rate_window; 0 disables
  rate_limit: 60
  rate_window: 1m

logging:
  # debug, info, warn, error
  level: "info"
  # console or json
  format: "console"
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = "hashfeed.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	printer(cmd).Success("Configuration file created: " + configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Set the hashtag and the credentials of the platforms you want")
	fmt.Fprintln(out, "2. Run 'hashfeed config validate' to check the configuration")
	fmt.Fprintln(out, "3. Start the gateway with 'hashfeed serve'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUnvalidated(configFile, globalFlags())
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	p := printer(cmd)
	p.Success("Configuration is valid")
	p.Highlight("\nConfiguration summary:")
	p.Info("  Hashtag", cfg.Hashtag)
	p.Info("  Timezone", cfg.Timezone)
	p.Info("  Instagram", strconv.FormatBool(cfg.InstagramEnabled()))
	p.Info("  Facebook", strconv.FormatBool(cfg.FacebookEnabled()))
	p.Info("  Twitter", strconv.FormatBool(cfg.TwitterEnabled()))
	p.Info("  Listen", cfg.Server.Addr)
	p.Info("  Log level", cfg.Logging.Level)
	return nil
}
