package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	addStatusCommand(topLevel, "done <id>...", "Mark tasks done", []string{"complete", "x"}, false, false)
	addStatusCommand(topLevel, "undo <id>...", "Mark tasks todo again", []string{"uncomplete"}, true, false)
	addStatusCommand(topLevel, "status <status> <id>...", "Move tasks to todo, in_progress or done", []string{"mv"}, false, true)
}

func addStatusCommand(topLevel *cobra.Command, use, short string, aliases []string, undo, withStatus bool) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}

	n := 1
	what := "at least one task id"
	if withStatus {
		n = 2
		what = "a status and at least one task id"
	}

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Aliases: aliases,
		Args:    requireArgs(n, what),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := complete.Complete{
					App:       a,
					Workspace: wo.Workspace,
					IDs:       args,
					Undo:      undo,
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				if withStatus {
					s.Status = args[0]
					s.IDs = args[1:]
				}
				return s.Do(ctx)
			})
		},
	}
	if withStatus {
		cmd.ValidArgs = []string{"todo", "in_progress", "done"}
	}

	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
