package cli

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
)

type completionGen func(root *cobra.Command, w io.Writer) error

var completionGens = map[string]completionGen{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGens))
	for name := range completionGens {
		shells = append(shells, name)
	}
	sort.Strings(shells)
	return shells
}

// completionCommand prints a completion script for one shell to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell.

Completion covers subcommands and flags, plus the values of --path,
--store and --cache.`,
		Example: `  source <(skilltree completion bash)
  skilltree completion zsh > "${fpath[1]}/_skilltree"
  skilltree completion fish > ~/.config/fish/completions/skilltree.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGens[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeValues offers a fixed set of values for flag.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	})
}
