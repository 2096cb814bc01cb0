package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config key constants
const (
	ConfigKeyBaseURL            = "base-url"
	ConfigKeyToken              = "token"
	ConfigKeyProject            = "project"
	ConfigKeyTimeout            = "timeout"
	ConfigKeyVerbose            = "verbose"
	ConfigKeyOutputFormat       = "output-format"
	ConfigKeyColor              = "color"
	ConfigKeyInsecureSkipVerify = "insecure-skip-verify"
)

// EnvPrefix is prepended to every config key when read from the environment
const EnvPrefix = "IIOT"

var configKeys = []string{
	ConfigKeyBaseURL,
	ConfigKeyToken,
	ConfigKeyProject,
	ConfigKeyTimeout,
	ConfigKeyVerbose,
	ConfigKeyOutputFormat,
	ConfigKeyColor,
	ConfigKeyInsecureSkipVerify,
}

// Config holds the configuration for the platform client
type Config struct {
	BaseURL string `json:"base-url" yaml:"base-url" mapstructure:"base-url"`
	// Token is sent as a bearer token
	Token   string `json:"token" yaml:"token" mapstructure:"token"`
	Project string `json:"project" yaml:"project" mapstructure:"project"`
	// Timeout is in seconds and must be at least 1
	Timeout int  `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	// OutputFormat is table, json or yaml
	OutputFormat string `json:"output-format" yaml:"output-format" mapstructure:"output-format"`
	// Color is auto, always or never
	Color              string `json:"color" yaml:"color" mapstructure:"color"`
	InsecureSkipVerify bool   `json:"insecure-skip-verify" yaml:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`
}

// FlagValues holds command-line flag values for merging with config
type FlagValues struct {
	BaseURL            string
	Token              string
	Project            string
	Timeout            int
	Verbose            bool
	OutputFormat       string
	Color              string
	InsecureSkipVerify bool
}

// LoadConfig loads configuration from multiple sources:
// 1. Config file (configFile if set, else ~/.config/iiot/config.yaml or platform-equivalent)
// 2. Environment variables (IIOT_*)
// 3. Command-line flags, applied afterwards with MergeWithFlags
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(getConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetDefault(ConfigKeyTimeout, 30)
	v.SetDefault(ConfigKeyVerbose, false)
	v.SetDefault(ConfigKeyOutputFormat, "table")
	v.SetDefault(ConfigKeyColor, "auto")

	// A missing default config file is fine; an explicit one must exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// MergeWithFlags merges configuration with command-line flags
func (c *Config) MergeWithFlags(flags FlagValues) {
	if flags.BaseURL != "" {
		c.BaseURL = flags.BaseURL
	}
	if flags.Token != "" {
		c.Token = flags.Token
	}
	if flags.Project != "" {
		c.Project = flags.Project
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.Verbose {
		c.Verbose = flags.Verbose
	}
	if flags.OutputFormat != "" {
		c.OutputFormat = flags.OutputFormat
	}
	if flags.Color != "" {
		c.Color = flags.Color
	}
	if flags.InsecureSkipVerify {
		c.InsecureSkipVerify = true
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.Project, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(1)),
		validation.Field(&c.OutputFormat, validation.In("table", "json", "yaml")),
		validation.Field(&c.Color, validation.In("auto", "always", "never")),
	)
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	return nil
}

// getConfigDir is a variable that returns the platform-specific config directory
// It's a variable (not a function) to allow tests to override it
var getConfigDir = func() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "iiot")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "iiot")
		}
		return filepath.Join(os.Getenv("HOME"), ".config", "iiot")
	}
}

// GetConfigPath returns the default config file location
func GetConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// InitConfigFile creates a sample config file at the default location
func InitConfigFile() (string, error) {
	configDir := getConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := GetConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}

	sampleConfig := `# iiot CLI configuration
# You can also use environment variables (IIOT_*) or command-line flags

# Base URL of the platform API (required)
# base-url: "https://api.example.com"

# API token (required)
# token: "your-api-token"

# Default project (required)
# project: "my-plant"

# Request timeout in seconds
timeout: 30

# Verbose output
verbose: false

# Default output format (table, json or yaml)
output-format: table

# Color output (auto, always, never)
color: auto
`

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configPath, nil
}
