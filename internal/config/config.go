// Package config provides configuration management for redditmigrate.
// It supports YAML or TOML configuration files, environment variables, and
// sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/redditmigrate/internal/util"
)

// Account roles.
const (
	RoleDownload = "download"
	RoleUpload   = "upload"
)

// MaxSubscribeBatchSize is the most communities Reddit accepts in one
// subscribe call.
const MaxSubscribeBatchSize = 1000

// Config represents the complete redditmigrate configuration.
type Config struct {
	// Accounts holds optional preset credentials for each role
	Accounts AccountsConfig `yaml:"accounts" toml:"accounts"`

	// DataDir is the directory holding the JSON snapshots
	DataDir string `yaml:"data_dir" toml:"data_dir"`

	// UserAgent is sent with every Reddit request
	UserAgent string `yaml:"user_agent" toml:"user_agent"`

	// Upload configures pacing of mutating calls
	Upload UploadConfig `yaml:"upload" toml:"upload"`

	// Reminders configures the RemindMeBot exchange
	Reminders RemindersConfig `yaml:"reminders" toml:"reminders"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// AccountsConfig holds one account per role.
type AccountsConfig struct {
	Download AccountConfig `yaml:"download" toml:"download"`
	Upload   AccountConfig `yaml:"upload" toml:"upload"`
}

// AccountConfig holds a Reddit script application key and, optionally, the
// account credentials to use with it.
type AccountConfig struct {
	ClientID     string `yaml:"client_id" toml:"client_id"`
	ClientSecret string `yaml:"client_secret" toml:"client_secret"`
	Username     string `yaml:"username,omitempty" toml:"username,omitempty"`
	Password     string `yaml:"password,omitempty" toml:"password,omitempty"`
}

// HasPresetCredentials reports whether both username and password are set.
func (a AccountConfig) HasPresetCredentials() bool {
	return a.Username != "" && a.Password != ""
}

// ValidateApplication checks that the script application key for role is
// set. Reddit rejects a token request without it however the user answers
// the credential prompts.
func (a AccountConfig) ValidateApplication(role string) error {
	if a.ClientID == "" || a.ClientSecret == "" {
		return fmt.Errorf("%s account has no Reddit application key: set accounts.%s.client_id and accounts.%s.client_secret",
			role, role, role)
	}
	return nil
}

// UploadConfig holds upload pacing settings.
type UploadConfig struct {
	// SubscribeBatchSize is the number of communities per subscribe call (1-1000)
	SubscribeBatchSize int `yaml:"subscribe_batch_size" toml:"subscribe_batch_size"`
	// SubscribeDelay is the pause after each subscribe call
	SubscribeDelay time.Duration `yaml:"subscribe_delay" toml:"subscribe_delay"`
}

// RemindersConfig holds RemindMeBot settings.
type RemindersConfig struct {
	// PollInterval is how long to wait between inbox checks
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:   "data",
		UserAgent: "reddit-account-migration",
		Upload: UploadConfig{
			SubscribeBatchSize: MaxSubscribeBatchSize,
			SubscribeDelay:     10 * time.Second,
		},
		Reminders: RemindersConfig{
			PollInterval: 10 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// configFileName is the name of the default config file.
const configFileName = "config.yaml"

// FilePath returns the path to the default config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the default config file merged over defaults. A missing file
// is not an error.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path. Files ending in
// .toml are parsed as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	path = util.ExpandPath(path)
	// #nosec G304 - path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Upload.SubscribeBatchSize < 1 || c.Upload.SubscribeBatchSize > MaxSubscribeBatchSize {
		return fmt.Errorf("upload.subscribe_batch_size must be between 1 and %d, got %d",
			MaxSubscribeBatchSize, c.Upload.SubscribeBatchSize)
	}
	if c.Upload.SubscribeDelay <= 0 {
		return fmt.Errorf("upload.subscribe_delay must be positive, got %s", c.Upload.SubscribeDelay)
	}
	if c.Reminders.PollInterval <= 0 {
		return fmt.Errorf("reminders.poll_interval must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// Account returns the account configured for role.
func (c *Config) Account(role string) AccountConfig {
	if role == RoleUpload {
		return c.Accounts.Upload
	}
	return c.Accounts.Download
}

// Masked returns a copy of the configuration with secrets replaced, for display.
func (c *Config) Masked() *Config {
	masked := *c
	masked.Accounts.Download = maskAccount(c.Accounts.Download)
	masked.Accounts.Upload = maskAccount(c.Accounts.Upload)
	return &masked
}

func maskAccount(a AccountConfig) AccountConfig {
	if a.ClientSecret != "" {
		a.ClientSecret = "********"
	}
	if a.Password != "" {
		a.Password = "********"
	}
	return a
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern REDDITMIGRATE_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	applyAccountEnvironment("DOWNLOAD", &c.Accounts.Download)
	applyAccountEnvironment("UPLOAD", &c.Accounts.Upload)

	if v := os.Getenv("REDDITMIGRATE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("REDDITMIGRATE_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("REDDITMIGRATE_UPLOAD_SUBSCRIBE_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Upload.SubscribeBatchSize = n
		}
	}
	if v := os.Getenv("REDDITMIGRATE_UPLOAD_SUBSCRIBE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Upload.SubscribeDelay = d
		}
	}
	if v := os.Getenv("REDDITMIGRATE_REMINDERS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Reminders.PollInterval = d
		}
	}
	if v := os.Getenv("REDDITMIGRATE_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

func applyAccountEnvironment(role string, a *AccountConfig) {
	prefix := "REDDITMIGRATE_" + role + "_"
	if v := os.Getenv(prefix + "CLIENT_ID"); v != "" {
		a.ClientID = v
	}
	if v := os.Getenv(prefix + "CLIENT_SECRET"); v != "" {
		a.ClientSecret = v
	}
	if v := os.Getenv(prefix + "USERNAME"); v != "" {
		a.Username = v
	}
	if v := os.Getenv(prefix + "PASSWORD"); v != "" {
		a.Password = v
	}
}
