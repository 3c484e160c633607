package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/report"
	"tableflip.dev/taskflow/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize completed tasks and journal activity",
		Example: `
taskflow report
taskflow report --last 2d12h -w team
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := report.Report{
					App:       a,
					Workspace: wo.Workspace,
					Last:      last,
					ShowID:    io.ShowID,
					Format:    output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, `Window to look back, example: --last=3d, --last=1w2d, --last=1mo.`)
	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
