package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
	"golang.org/x/term"
)

var (
	// Global flags
	cfgFile            string
	baseURL            string
	token              string
	project            string
	timeout            int
	verbose            bool
	outputFormat       string
	colorMode          string
	insecureSkipVerify bool

	// Global config
	cfg *platform.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iiot",
	Short: "IIoT CLI - Work with assets, events, files and metrics",
	Long: `A command-line client for the industrial IoT platform.

The platform exposes several services (assets, events, files, coordinator,
metrics) under a project. This CLI lists and manages their resources and
offers offline helpers to reshape JSON payloads between the platform's
snake_case wire format and camelCase.

Configuration can be provided via:
  - Config file: ~/.config/iiot/config.yaml (or platform-equivalent)
  - Environment variables: IIOT_BASE_URL, IIOT_TOKEN, IIOT_PROJECT, etc.
  - Command-line flags: --url, --token, --project, etc.

Examples:
  # List the first 20 assets of a project
  iiot assets list --project plant-a --limit 20

  # Convert a payload to camelCase, leaving "metadata" keys untouched
  iiot convert camel payload.json --exclude-transform metadata`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		skipCommands := []string{"completion", "version", "help", "config", "convert"}
		for _, skip := range skipCommands {
			if cmd.Name() == skip || cmd.Parent() != nil && cmd.Parent().Name() == skip {
				return nil
			}
		}

		var err error
		cfg, err = platform.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w (use 'iiot config init' to create one)", err)
		}

		// Command-line flags override everything (highest priority)
		cfg.MergeWithFlags(platform.FlagValues{
			BaseURL:            baseURL,
			Token:              token,
			Project:            project,
			Timeout:            timeout,
			Verbose:            verbose,
			OutputFormat:       outputFormat,
			Color:              colorMode,
			InsecureSkipVerify: insecureSkipVerify,
		})

		configureColorOutput(cfg.Color)

		if cfg.Verbose {
			logEnvironmentVariables(cmd)
			logEffectiveConfig(cmd, cfg)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/iiot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Platform API base URL (env: IIOT_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API token (env: IIOT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "Project (env: IIOT_PROJECT)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "Request timeout in seconds (default: 30)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json or yaml (default: table)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "Color output: auto, always or never")
	rootCmd.PersistentFlags().BoolVarP(&insecureSkipVerify, "insecure", "k", false, "Skip TLS certificate verification (insecure)")

	rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.RegisterFlagCompletionFunc("color", cobra.FixedCompletions(
		[]string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp))
}

// GetConfig returns the global configuration
func GetConfig() *platform.Config {
	return cfg
}

// getOutputFormat returns the effective output format
func getOutputFormat() output.Format {
	if cfg != nil && cfg.OutputFormat != "" {
		return output.Format(cfg.OutputFormat)
	}
	if outputFormat != "" {
		return output.Format(outputFormat)
	}
	return output.Table
}

// newClient builds a platform client from the global config
func newClient() (*platform.Client, error) {
	client, err := platform.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	client.SetLogger(platform.NewLogger(cfg.Verbose))
	return client, nil
}

// sensitiveEnvVars lists environment variable names whose values should be redacted in verbose output.
var sensitiveEnvVars = map[string]bool{
	"IIOT_TOKEN": true,
}

// configFieldInfo describes a config field for verbose source reporting.
type configFieldInfo struct {
	key       string                         // display name (e.g., "base-url")
	flagName  string                         // cobra flag name (empty if no flag)
	envVar    string                         // env var name
	getValue  func(*platform.Config) string // extracts the effective value
	sensitive bool                           // whether to redact the value
}

// configFields lists the config fields to display in verbose mode.
var configFields = []configFieldInfo{
	{key: platform.ConfigKeyBaseURL, flagName: "url", envVar: "IIOT_BASE_URL", getValue: func(c *platform.Config) string { return c.BaseURL }},
	{key: platform.ConfigKeyToken, flagName: "token", envVar: "IIOT_TOKEN", getValue: func(c *platform.Config) string { return c.Token }, sensitive: true},
	{key: platform.ConfigKeyProject, flagName: "project", envVar: "IIOT_PROJECT", getValue: func(c *platform.Config) string { return c.Project }},
	{key: platform.ConfigKeyTimeout, flagName: "timeout", envVar: "IIOT_TIMEOUT", getValue: func(c *platform.Config) string { return strconv.Itoa(c.Timeout) }},
	{key: platform.ConfigKeyOutputFormat, flagName: "output", envVar: "IIOT_OUTPUT_FORMAT", getValue: func(c *platform.Config) string { return c.OutputFormat }},
	{key: platform.ConfigKeyInsecureSkipVerify, flagName: "insecure", envVar: "IIOT_INSECURE_SKIP_VERIFY", getValue: func(c *platform.Config) string { return strconv.FormatBool(c.InsecureSkipVerify) }},
}

// logEffectiveConfig prints each effective config value with its source in verbose mode.
func logEffectiveConfig(cmd *cobra.Command, cfg *platform.Config) {
	for _, field := range configFields {
		value := field.getValue(cfg)

		// Skip unset string fields
		if value == "" {
			continue
		}
		// Skip insecure when false (uninteresting default)
		if field.key == platform.ConfigKeyInsecureSkipVerify && value == "false" {
			continue
		}

		displayValue := value
		if field.sensitive {
			displayValue = platform.RedactedValue
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] Config: %s=%s (source: %s)\n", field.key, displayValue, determineConfigSource(cmd, field))
	}
}

// determineConfigSource checks layers in priority order to determine where
// the effective config value came from.
func determineConfigSource(cmd *cobra.Command, field configFieldInfo) string {
	if field.flagName != "" && cmd.Flags().Changed(field.flagName) {
		return "flag"
	}
	if field.envVar != "" && os.Getenv(field.envVar) != "" {
		return "env"
	}
	return "file/default"
}

// logEnvironmentVariables prints all IIOT_* environment variables in verbose mode,
// redacting values for sensitive variables.
func logEnvironmentVariables(cmd *cobra.Command) {
	var vars []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, platform.EnvPrefix+"_") {
			vars = append(vars, env)
		}
	}

	if len(vars) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] Environment: no %s_* variables set\n", platform.EnvPrefix)
		return
	}

	sort.Strings(vars)
	for _, env := range vars {
		name, value, _ := strings.Cut(env, "=")
		if sensitiveEnvVars[name] {
			value = platform.RedactedValue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] Environment: %s=%s\n", name, value)
	}
}

// configureColorOutput configures color output based on the color setting
func configureColorOutput(colorSetting string) {
	switch colorSetting {
	case "never":
		// Disable all colors
		color.NoColor = true
	case "always":
		// Force colors even if not a TTY
		color.NoColor = false
	case "auto", "":
		// Auto-detect: enable colors only if stdout is a terminal
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	}
}
