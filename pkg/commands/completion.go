package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(taskflow completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(taskflow completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(os.Stdout)
			case "fish":
				return topLevel.GenFishCompletion(os.Stdout, true)
			}
			return topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// registerWorkspaceCompletion completes --workspace with the user's workspace names on
// every command that has the flag.
func registerWorkspaceCompletion(c *cobra.Command) {
	if c.Flags().Lookup("workspace") != nil {
		_ = c.RegisterFlagCompletionFunc("workspace", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return workspaceCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		})
	}
	for _, sub := range c.Commands() {
		registerWorkspaceCompletion(sub)
	}
}

func workspaceCompletions(toComplete string) []string {
	var names []string
	_ = withService(func(a *app.Service) error {
		ws, err := a.Workspaces(context.Background())
		if err != nil {
			return err
		}
		for _, w := range ws {
			if strings.HasPrefix(strings.ToLower(w.Name), strings.ToLower(toComplete)) {
				names = append(names, w.Name)
			}
		}
		return nil
	})
	return names
}
