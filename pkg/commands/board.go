package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/board"
	"tableflip.dev/taskflow/pkg/view"
)

func addBoard(topLevel *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	var kind string

	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"ui"},
		Short:   "Open the interactive board",
		Example: `
taskflow board
taskflow board --view month -w team
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				if kind == "" {
					kind = viper.GetString("view")
				}
				var k view.Kind
				if kind != "" {
					var err error
					if k, err = view.ParseKind(kind); err != nil {
						return err
					}
				}
				b := board.Board{
					App:       a,
					Workspace: wo.Workspace,
					Kind:      k,
					Preview:   viper.GetInt("month.preview"),
				}
				return b.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "view", "", "Initial view: list, kanban, day, week or month.")
	options.AddWorkspaceArgs(cmd, wo)

	topLevel.AddCommand(cmd)
}
