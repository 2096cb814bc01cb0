package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for the IIoT CLI.

To load completions:

Bash:

  # To test the completion once without permanently installing it:
  $ source <(iiot completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ iiot completion bash > /etc/bash_completion.d/iiot
  # macOS:
  $ iiot completion bash > $(brew --prefix)/etc/bash_completion.d/iiot

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ iiot completion zsh > "${fpath[1]}/_iiot"

  # You will need to start a new shell for this setup to take effect.

  # To test the completion once without permanently installing it:
  # Generate and source the completion script directly
  $ source <(iiot completion zsh)

  # After running this, you can immediately test iiot <TAB> in the current shell session. The completion will be lost when you close
  # the terminal.

Fish:

  # To test the completion once without permanently installing it:
  $ iiot completion fish | source

  # To load completions for each session, execute once:
  $ iiot completion fish > ~/.config/fish/completions/iiot.fish

PowerShell:

  # To test the completion once without permanently installing it:
  PS> iiot completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> iiot completion powershell > iiot.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
