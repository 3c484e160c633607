package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"info"},
		Short:   "Show where configuration and records come from.",
		Example: `
taskflow config
TASKFLOW_BACKEND=sqlite taskflow config --yaml
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := info.Info{
					App:    a,
					Format: output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
