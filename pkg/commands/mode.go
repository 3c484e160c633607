package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/view"
)

func addMode(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mode [tasks|calendar]",
		Short: "Show or change which views the board offers",
		Long: options.Wrap80("In tasks mode the board offers the day and week views. " +
			"Calendar mode adds the list, kanban and month views."),
		Example: `
taskflow mode
taskflow mode tasks
`,
		ValidArgs: []string{string(view.ModeTasks), string(view.ModeCalendar)},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				if len(args) == 0 {
					p, err := a.Profile(ctx)
					if err != nil {
						return err
					}
					if output.Format().Structured() {
						return output.Format().Encode(p)
					}
					_, _ = fmt.Fprintln(color.Output, p.AppMode)
					return nil
				}
				md, err := view.ParseMode(args[0])
				if err != nil {
					return err
				}
				p, err := a.SetMode(ctx, md)
				if err != nil {
					return err
				}
				if output.Format().Structured() {
					return output.Format().Encode(p)
				}
				_, _ = fmt.Fprintf(color.Output, "Mode set to %s\n", p.AppMode)
				return nil
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
