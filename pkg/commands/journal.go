package commands

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/timeutil"

	rj "tableflip.dev/taskflow/pkg/runner/journal"
)

func addJournal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "journal",
		Aliases: []string{"j"},
		Short:   "Write and read journal entries",
		Long: options.Wrap80("Journal entries are markdown notes. Types: " +
			joinTypes(journal.EntryTypes()) + "."),
	}

	addJournalList(cmd)
	addJournalWrite(cmd, rj.Add)
	addJournalWrite(cmd, rj.Edit)
	addJournalRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addJournalList(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var last string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List journal entries, newest first",
		Example: `
taskflow journal list --last 1w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := rj.Journal{
					App:       a,
					Workspace: wo.Workspace,
					Action:    rj.List,
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				if last != "" {
					w, err := timeutil.ParseWindow(last)
					if err != nil {
						return err
					}
					s.Since, _ = w.Since(time.Now())
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", "", "Only entries written within this window, example: --last=3d.")
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addJournalWrite(parent *cobra.Command, action rj.Action) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var typ string

	use, short, example, check := "add <markdown>", "Write a journal entry", `
taskflow journal add "Shipped **v2** today" --type achieved_goal
`, requireArgs(1, "the entry content")
	if action == rj.Edit {
		use, short, example, check = "edit <id> <markdown>", "Rewrite a journal entry", `
taskflow journal edit 5e1c "Shipped **v2.1** today"
`, requireArgs(2, "an entry id and the new content")
	}

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    check,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := rj.Journal{
					App:       a,
					Workspace: wo.Workspace,
					Action:    action,
					Content:   strings.Join(args, " "),
					Type:      typ,
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				if action == rj.Edit {
					s.ID = args[0]
					s.Content = strings.Join(args[1:], " ")
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "Entry type: "+joinTypes(journal.EntryTypes())+".")
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addJournalRemove(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a journal entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := rj.Journal{App: a, Workspace: wo.Workspace, Action: rj.Remove, ID: args[0]}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)
	parent.AddCommand(cmd)
}

func addThought(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "thought",
		Short: "Share thoughts, goals and achievements with a workspace",
		Long: options.Wrap80("Thoughts belong to a workspace; pass --workspace. Types: " +
			joinTypes(journal.ThoughtTypes()) + "."),
	}

	for _, action := range []rj.Action{rj.List, rj.Add, rj.Remove} {
		addThoughtAction(cmd, action)
	}

	topLevel.AddCommand(cmd)
}

func addThoughtAction(parent *cobra.Command, action rj.Action) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var typ string

	cmd := &cobra.Command{}
	switch action {
	case rj.List:
		cmd.Use, cmd.Aliases, cmd.Short, cmd.Args = "list", []string{"ls"}, "List the workspace's thoughts", cobra.NoArgs
	case rj.Add:
		cmd.Use, cmd.Short, cmd.Args = "add <text>", "Share a thought", requireArgs(1, "the thought")
		cmd.Example = `
taskflow thought add "Pairing on Fridays?" -w team --type thought
`
		cmd.Flags().StringVarP(&typ, "type", "t", "", "Thought type: "+joinTypes(journal.ThoughtTypes())+".")
	case rj.Remove:
		cmd.Use, cmd.Aliases, cmd.Short, cmd.Args = "rm <id>", []string{"remove", "delete"}, "Delete one of your thoughts", cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(ctx context.Context, a *app.Service) error {
			s := rj.Thoughts{
				App:       a,
				Workspace: wo.Workspace,
				Action:    action,
				Type:      typ,
				ShowID:    io.ShowID,
				Format:    output.Format(),
			}
			switch action {
			case rj.Add:
				s.Content = strings.Join(args, " ")
			case rj.Remove:
				s.ID = args[0]
			}
			return s.Do(ctx)
		})
	}

	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func joinTypes[T ~string](types []T) string {
	s := make([]string, 0, len(types))
	for _, t := range types {
		s = append(s, string(t))
	}
	return strings.Join(s, ", ")
}
