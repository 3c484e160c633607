package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/add"
	"tableflip.dev/taskflow/pkg/runner/edit"
	"tableflip.dev/taskflow/pkg/runner/remove"
	"tableflip.dev/taskflow/pkg/task"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `
taskflow add call the dentist --due tomorrow --at 09:30
taskflow add write the release notes -p high -w team
`,
		Args: requireArgs(1, "a title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				due, err := dueDate(to.Due)
				if err != nil {
					return err
				}
				s := add.Add{
					App:       a,
					Workspace: wo.Workspace,
					Input:     to.Input(strings.Join(args, " "), due),
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var title string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  "Change fields of a task. Only the flags given are changed; the id may be a unique prefix.",
		Example: `
taskflow edit 3f2a --title "call the dentist again" --due 4/2
taskflow edit 3f2a --at ""
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				var due *task.Date
				if cmd.Flags().Changed("due") {
					d, err := dueDate(to.Due)
					if err != nil {
						return err
					}
					due = &d
				}
				p, err := to.Patch(cmd, due)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("title") {
					p.Title = &title
				}
				if p.Empty() {
					return errors.New("nothing to change, pass at least one flag")
				}
				s := edit.Edit{
					App:       a,
					Workspace: wo.Workspace,
					ID:        args[0],
					Patch:     p,
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title.")
	options.AddTaskArgs(cmd, to)
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	wo := &options.WorkspaceOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete tasks",
		Example: `
taskflow rm 3f2a 9c01
`,
		Args: requireArgs(1, "at least one task id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := remove.Remove{
					App:       a,
					Workspace: wo.Workspace,
					IDs:       args,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)

	topLevel.AddCommand(cmd)
}
