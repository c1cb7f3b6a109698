package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/bridgegad/bridgegad/pkg/io"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bridgegad to stdout.

  bash        source <(bridgegad completion bash)
  zsh         bridgegad completion zsh > "${fpath[1]}/_bridgegad"
  fish        bridgegad completion fish > ~/.config/fish/completions/bridgegad.fish
  powershell  bridgegad completion powershell | Out-String | Invoke-Expression

Parameter file arguments complete to .xlsx, .toml, .yaml, .yml and .json
files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeParamsFile completes the single parameter file argument of
// generate and validate.
func completeParamsFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	exts := pkgio.Extensions()
	for i, e := range exts {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	return exts, cobra.ShellCompDirectiveFilterFileExt
}
