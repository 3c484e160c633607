package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/get"
	"tableflip.dev/taskflow/pkg/runner/watch"
	"tableflip.dev/taskflow/pkg/view"
)

func addWatch(topLevel *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var kind string
	var clearScreen bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a view and reprint it whenever tasks change",
		Example: `
taskflow watch --view kanban -w team
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				k, err := view.ParseKind(kind)
				if err != nil {
					return err
				}
				s := watch.Watch{
					Get: get.Get{
						App:       a,
						Workspace: wo.Workspace,
						Kind:      k,
						ShowID:    io.ShowID,
						Preview:   viper.GetInt("month.preview"),
					},
					Clear: clearScreen,
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "view", string(view.KindList), "View to print: list, kanban, day, week or month.")
	cmd.Flags().BoolVar(&clearScreen, "clear", true, "Clear the terminal before each print.")
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
