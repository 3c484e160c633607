// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// WorkspaceOptions selects the scope a command works on.
type WorkspaceOptions struct {
	Workspace string
}

// AddWorkspaceArgs wires the workspace flag on the provided command. An empty value is
// the private scope.
func AddWorkspaceArgs(cmd *cobra.Command, o *WorkspaceOptions) {
	cmd.Flags().StringVarP(&o.Workspace, "workspace", "w", "",
		"Workspace name or id; private tasks when unset.")
}
