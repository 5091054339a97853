package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell
// completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for archon.

To load completions:

Bash:
  $ source <(archon completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ archon completion bash > /etc/bash_completion.d/archon
  # macOS:
  $ archon completion bash > $(brew --prefix)/etc/bash_completion.d/archon

Zsh:
  $ archon completion zsh > "${fpath[1]}/_archon"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ archon completion fish | source

  # To load completions for each session, execute once:
  $ archon completion fish > ~/.config/fish/completions/archon.fish

PowerShell:
  PS> archon completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
