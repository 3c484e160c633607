package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/get"
	"tableflip.dev/taskflow/pkg/view"
)

type viewCommand struct {
	kind    view.Kind
	use     string
	aliases []string
	short   string
	example string
	stats   bool
}

var viewCommands = []viewCommand{{
	kind:    view.KindList,
	use:     "list",
	aliases: []string{"ls", "get"},
	short:   "List every task",
	example: `
taskflow list
taskflow list -w team --json
`,
}, {
	kind:    view.KindKanban,
	use:     "kanban",
	short:   "Print tasks in status columns",
	example: `
taskflow kanban
`,
}, {
	kind:    view.KindDay,
	use:     "day",
	aliases: []string{"today"},
	short:   "Print the tasks of a day by hour",
	example: `
taskflow day
taskflow day --on tomorrow
`,
}, {
	kind:  view.KindWeek,
	use:   "week",
	short: "Print the tasks of the week, Monday to Sunday",
	example: `
taskflow week --on 3/18
`,
}, {
	kind:  view.KindMonth,
	use:   "month",
	short: "Print a month calendar with task previews",
	example: `
taskflow month
taskflow month --on 2024-4-1 --preview 3
`,
}, {
	use:   "stats",
	short: "Count tasks by status, plus overdue",
	example: `
taskflow stats -w team
`,
	stats: true,
}}

func addViews(topLevel *cobra.Command) {
	for _, vc := range viewCommands {
		addView(topLevel, vc)
	}
}

func addView(topLevel *cobra.Command, vc viewCommand) {
	on := &options.OnOptions{}
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var preview, width int

	cmd := &cobra.Command{
		Use:     vc.use,
		Aliases: vc.aliases,
		Short:   vc.short,
		Example: vc.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				date, err := on.GetOn(time.Now())
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("preview") {
					preview = viper.GetInt("month.preview")
				}
				s := get.Get{
					App:       a,
					Workspace: wo.Workspace,
					Kind:      vc.kind,
					On:        date,
					Stats:     vc.stats,
					ShowID:    io.ShowID,
					Preview:   preview,
					Width:     width,
					Format:    output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	if vc.kind.Dated() {
		options.AddOnArgs(cmd, on)
	}
	if vc.kind == view.KindMonth {
		cmd.Flags().IntVar(&preview, "preview", 2, "Tasks shown per day before \"+N more\".")
	}
	cmd.Flags().IntVar(&width, "width", 0, "Output width; defaults to 80.")
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
