package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

var configShowSecrets bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration settings.

Configuration can be set via:
  - Config file (~/.config/iiot/config.yaml)
  - Environment variables (IIOT_*)
  - Command-line flags

Use subcommands to view and create configuration.`,
}

// configPathCmd represents the config path command
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Long: `Show the path to the configuration file.

This is useful for troubleshooting configuration issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		configPath := platform.GetConfigPath()

		fmt.Fprintf(out, "Config file: %s\n", configPath)
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Status: exists\n")
		} else {
			fmt.Fprintf(out, "Status: not created (run 'iiot config init' to create)\n")
		}

		fmt.Fprintf(out, "\nConfig file search paths:\n")
		fmt.Fprintf(out, "  1. %s\n", configPath)
		fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
		return nil
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Create a sample configuration file at the default location.

The configuration file will be created at:
  - Linux/macOS: ~/.config/iiot/config.yaml
  - Windows: %APPDATA%\iiot\config.yaml

The file contains commented examples. Edit it to add your platform URL,
API token and project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := platform.InitConfigFile()
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Configuration file created at: %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit the config file and uncomment/set your values")
		fmt.Fprintln(out, "  2. Or use environment variables (IIOT_BASE_URL, IIOT_TOKEN, IIOT_PROJECT)")
		fmt.Fprintln(out, "  3. Or use command-line flags (--url, --token, --project)")

		fmt.Fprintln(out, "\n⚠️  SECURITY NOTICE:")
		fmt.Fprintln(out, "   - File permissions set to 0600 (owner read/write only)")
		fmt.Fprintln(out, "   - Tokens stored in plaintext - never commit to version control")
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging the config file, environment
variables and command-line flags. The token is redacted unless
--show-secrets is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		effective, err := platform.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		effective.MergeWithFlags(platform.FlagValues{
			BaseURL:            baseURL,
			Token:              token,
			Project:            project,
			Timeout:            timeout,
			Verbose:            verbose,
			OutputFormat:       outputFormat,
			Color:              colorMode,
			InsecureSkipVerify: insecureSkipVerify,
		})
		if effective.Token != "" && !configShowSecrets {
			effective.Token = platform.RedactedValue
		}

		format := output.Format(effective.OutputFormat)
		if format == output.Table {
			format = output.YAML
		}
		return output.PrintTo(cmd.OutOrStdout(), effective, format)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowSecrets, "show-secrets", false, "Show sensitive values (tokens)")
}
