package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the hashfeed gateway
type Config struct {
	// Hashtag searched on every platform, including the leading '#'
	Hashtag string `yaml:"hashtag" json:"hashtag"`

	// Timezone used for the human readable "time" field
	Timezone string `yaml:"timezone" json:"timezone"`

	// ConstantsFile points to a flat KEY=VALUE file (HASHTAG, FBAppID, ...)
	ConstantsFile string `yaml:"constants_file" json:"constants_file"`

	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`
	Facebook  FacebookConfig  `yaml:"facebook" json:"facebook"`
	Twitter   TwitterConfig   `yaml:"twitter" json:"twitter"`

	// Outbound HTTP settings shared by all platform clients
	Transport TransportConfig `yaml:"transport" json:"transport"`

	// Inbound HTTP server settings
	Server ServerConfig `yaml:"server" json:"server"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram application credentials
type InstagramConfig struct {
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	AccessToken  string `yaml:"access_token" json:"access_token"`
	BaseURL      string `yaml:"base_url" json:"base_url"`
}

// FacebookConfig holds Facebook application credentials
type FacebookConfig struct {
	AppID       string `yaml:"app_id" json:"app_id"`
	AppSecret   string `yaml:"app_secret" json:"app_secret"`
	AccessToken string `yaml:"access_token" json:"access_token"`
	Limit       int    `yaml:"limit" json:"limit"`
}

// TwitterConfig holds Twitter OAuth 1.0a credentials
type TwitterConfig struct {
	ConsumerKey       string `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret" json:"consumer_secret"`
	AccessToken       string `yaml:"access_token" json:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret" json:"access_token_secret"`
	Count             int    `yaml:"count" json:"count"`
	BaseURL           string `yaml:"base_url" json:"base_url"`
}

// TransportConfig holds outbound HTTP settings
type TransportConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
}

// ServerConfig holds the gateway HTTP server settings
type ServerConfig struct {
	Addr              string        `yaml:"addr" json:"addr"`
	CORSOrigins       []string      `yaml:"cors_origins" json:"cors_origins"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// RateLimit caps feed requests per platform within RateWindow; 0 disables
	RateLimit  int           `yaml:"rate_limit" json:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window" json:"rate_window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	File   string `yaml:"file" json:"file"`
	Format string `yaml:"format" json:"format"`
}

// DefaultUserAgent is sent on every outbound request
const DefaultUserAgent = "hashfeed/1.0"

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Asia/Karachi",
		Facebook: FacebookConfig{
			Limit: 100,
		},
		Twitter: TwitterConfig{
			Count: 20,
		},
		Transport: TransportConfig{
			ConnectTimeout: 10 * time.Second,
			Timeout:        60 * time.Second,
			UserAgent:      DefaultUserAgent,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			CORSOrigins:       []string{"*"},
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RateLimit:         60,
			RateWindow:        time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// InstagramEnabled reports whether enough Instagram credentials are set
func (c *Config) InstagramEnabled() bool {
	return c.Instagram.ClientID != "" || c.Instagram.AccessToken != ""
}

// FacebookEnabled reports whether enough Facebook credentials are set
func (c *Config) FacebookEnabled() bool {
	return (c.Facebook.AppID != "" && c.Facebook.AppSecret != "") || c.Facebook.AccessToken != ""
}

// TwitterEnabled reports whether all four OAuth values are set
func (c *Config) TwitterEnabled() bool {
	t := c.Twitter
	return t.ConsumerKey != "" && t.ConsumerSecret != "" && t.AccessToken != "" && t.AccessTokenSecret != ""
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	str := map[string]*string{
		"HASHFEED_HASHTAG":                     &c.Hashtag,
		"HASHFEED_TIMEZONE":                    &c.Timezone,
		"HASHFEED_CONSTANTS_FILE":              &c.ConstantsFile,
		"HASHFEED_INSTAGRAM_CLIENT_ID":         &c.Instagram.ClientID,
		"HASHFEED_INSTAGRAM_CLIENT_SECRET":     &c.Instagram.ClientSecret,
		"HASHFEED_INSTAGRAM_ACCESS_TOKEN":      &c.Instagram.AccessToken,
		"HASHFEED_FACEBOOK_APP_ID":             &c.Facebook.AppID,
		"HASHFEED_FACEBOOK_APP_SECRET":         &c.Facebook.AppSecret,
		"HASHFEED_FACEBOOK_ACCESS_TOKEN":       &c.Facebook.AccessToken,
		"HASHFEED_TWITTER_CONSUMER_KEY":        &c.Twitter.ConsumerKey,
		"HASHFEED_TWITTER_CONSUMER_SECRET":     &c.Twitter.ConsumerSecret,
		"HASHFEED_TWITTER_ACCESS_TOKEN":        &c.Twitter.AccessToken,
		"HASHFEED_TWITTER_ACCESS_TOKEN_SECRET": &c.Twitter.AccessTokenSecret,
		"HASHFEED_USER_AGENT":                  &c.Transport.UserAgent,
		"HASHFEED_ADDR":                        &c.Server.Addr,
		"HASHFEED_LOG_LEVEL":                   &c.Logging.Level,
		"HASHFEED_LOG_FORMAT":                  &c.Logging.Format,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	var errs []error
	if v := os.Getenv("HASHFEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HASHFEED_TIMEOUT: %w", err))
		} else {
			c.Transport.Timeout = d
		}
	}
	if v := os.Getenv("HASHFEED_TWITTER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HASHFEED_TWITTER_COUNT: %w", err))
		} else {
			c.Twitter.Count = n
		}
	}
	if v := os.Getenv("HASHFEED_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("HASHFEED_RATE_LIMIT: %w", err))
		} else {
			c.Server.RateLimit = n
		}
	}
	if v := os.Getenv("HASHFEED_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

// ApplyConstants maps the flat named constants of the original deployment
// into the structured configuration. Unknown keys are ignored.
func (c *Config) ApplyConstants(consts map[string]string) {
	set := func(dst *string, key string) {
		if v, ok := consts[key]; ok && v != "" {
			*dst = v
		}
	}
	set(&c.Hashtag, "HASHTAG")
	set(&c.Timezone, "TIMEZONE")
	set(&c.Instagram.ClientID, "IGClientID")
	set(&c.Instagram.ClientSecret, "IGClientSecret")
	set(&c.Instagram.AccessToken, "IGAccessToken")
	set(&c.Facebook.AppID, "FBAppID")
	set(&c.Facebook.AppSecret, "FBAppSecret")
	set(&c.Twitter.ConsumerKey, "TWkey")
	set(&c.Twitter.ConsumerSecret, "TWSecret")
	set(&c.Twitter.AccessToken, "TWAccessToken")
	set(&c.Twitter.AccessTokenSecret, "TWAccessTokenSecret")
}

// LoadConstantsFile reads a flat KEY=VALUE constants file and applies it
func (c *Config) LoadConstantsFile(path string) error {
	consts, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read constants file: %w", err)
	}
	c.ApplyConstants(consts)
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"hashfeed.yaml",
		".hashfeed.yaml",
		".hashfeed.yml",
		filepath.Join(home, ".config", "hashfeed", "config.yaml"),
		filepath.Join(home, ".config", "hashfeed", "config.yml"),
		filepath.Join(home, ".hashfeed.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Hashtag) == "" {
		errs = append(errs, errors.New("hashtag is required"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Timezone))
	}

	if !c.InstagramEnabled() && !c.FacebookEnabled() && !c.TwitterEnabled() {
		errs = append(errs, errors.New("credentials for at least one platform are required"))
	}
	t := c.Twitter
	partial := t.ConsumerKey != "" || t.ConsumerSecret != "" || t.AccessToken != "" || t.AccessTokenSecret != ""
	if partial && !c.TwitterEnabled() {
		errs = append(errs, errors.New("twitter needs consumer key, consumer secret, access token and access token secret"))
	}
	if c.Facebook.AccessToken == "" && (c.Facebook.AppID == "") != (c.Facebook.AppSecret == "") {
		errs = append(errs, errors.New("facebook needs both app id and app secret"))
	}

	if c.Facebook.Limit <= 0 {
		errs = append(errs, errors.New("facebook limit must be positive"))
	}
	if c.Twitter.Count <= 0 || c.Twitter.Count > 100 {
		errs = append(errs, errors.New("twitter count must be between 1 and 100"))
	}

	if c.Transport.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("connect timeout must be positive"))
	}
	if c.Transport.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.Transport.Timeout < c.Transport.ConnectTimeout {
		errs = append(errs, errors.New("timeout must not be shorter than connect timeout"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		errs = append(errs, errors.New("rate window must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Redacted returns a copy of the configuration with secrets masked
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	cp.Instagram.ClientSecret = Mask(cp.Instagram.ClientSecret)
	cp.Instagram.AccessToken = Mask(cp.Instagram.AccessToken)
	cp.Facebook.AppSecret = Mask(cp.Facebook.AppSecret)
	cp.Facebook.AccessToken = Mask(cp.Facebook.AccessToken)
	cp.Twitter.ConsumerSecret = Mask(cp.Twitter.ConsumerSecret)
	cp.Twitter.AccessToken = Mask(cp.Twitter.AccessToken)
	cp.Twitter.AccessTokenSecret = Mask(cp.Twitter.AccessTokenSecret)
	return &cp
}

// Mask hides all but the first and last 4 characters of a secret
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if hashtag, ok := flags["hashtag"].(string); ok && hashtag != "" {
		c.Hashtag = hashtag
	}
	if addr, ok := flags["addr"].(string); ok && addr != "" {
		c.Server.Addr = addr
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if format, ok := flags["log-format"].(string); ok && format != "" {
		c.Logging.Format = format
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Transport.Timeout = timeout
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadUnvalidated runs every source of Load except validation, so callers can
// fill missing credentials from other stores first.
func LoadUnvalidated(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".hashfeed.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if config.ConstantsFile != "" {
		if err := config.LoadConstantsFile(config.ConstantsFile); err != nil {
			return nil, err
		}
	}

	config.MergeCommandLineFlags(flags)

	return config, nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Constants file > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	config, err := LoadUnvalidated(configPath, flags)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
