package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/workspace"
)

func addWorkspace(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Create, list and leave shared workspaces, and manage their members",
	}

	addWorkspaceCreate(cmd)
	addWorkspaceList(cmd)
	addWorkspaceMembers(cmd)
	addWorkspaceRemoveMember(cmd)
	addWorkspaceLeave(cmd)

	topLevel.AddCommand(cmd)
}

func addWorkspaceCreate(parent *cobra.Command) {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace you own",
		Example: `
taskflow workspace create platform -d "Platform team"
`,
		Args: requireArgs(1, "a name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Create{
					App:         a,
					Name:        strings.Join(args, " "),
					Description: description,
					Format:      output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "What the workspace is for.")
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addWorkspaceList(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workspaces you are a member of",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.List{App: a, ShowID: io.ShowID, Format: output.Format()}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addWorkspaceMembers(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members of a workspace",
		Example: `
taskflow workspace members -w platform
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Members{App: a, Workspace: wo.Workspace, Format: output.Format()}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)
	options.AddOutputArg(cmd, output)
	_ = cmd.MarkFlagRequired("workspace")
	parent.AddCommand(cmd)
}

func addWorkspaceRemoveMember(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}

	cmd := &cobra.Command{
		Use:     "remove <user>...",
		Aliases: []string{"kick"},
		Short:   "Remove members from a workspace you own",
		Example: `
taskflow workspace remove bob -w platform
`,
		Args: requireArgs(1, "at least one user id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.RemoveMember{App: a, Workspace: wo.Workspace, Users: args}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)
	_ = cmd.MarkFlagRequired("workspace")
	parent.AddCommand(cmd)
}

func addWorkspaceLeave(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "leave <workspace>",
		Short: "Leave a workspace; owners cannot leave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Leave{App: a, Workspace: args[0]}
				return s.Do(ctx)
			})
		},
	}
	parent.AddCommand(cmd)
}

func addInvite(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Create, list, revoke and redeem workspace invite codes",
	}

	addInviteCreate(cmd)
	addInviteList(cmd)
	addInviteRemove(cmd)
	addInviteJoin(cmd)

	topLevel.AddCommand(cmd)
}

func addInviteCreate(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	var expires string
	var maxUses int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invite code for a workspace",
		Example: `
taskflow invite create -w platform --expires 1w --max-uses 5
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Invite{
					App:       a,
					Workspace: wo.Workspace,
					Expires:   expires,
					MaxUses:   maxUses,
					Format:    output.Format(),
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&expires, "expires", "", "Window after which the code stops working, example: --expires=2d.")
	cmd.Flags().IntVar(&maxUses, "max-uses", 0, "How many times the code can be redeemed; 0 is unlimited.")
	options.AddWorkspaceArgs(cmd, wo)
	options.AddOutputArg(cmd, output)
	_ = cmd.MarkFlagRequired("workspace")
	parent.AddCommand(cmd)
}

func addInviteList(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the invite codes of a workspace, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Invites{App: a, Workspace: wo.Workspace, ShowID: io.ShowID, Format: output.Format()}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	_ = cmd.MarkFlagRequired("workspace")
	parent.AddCommand(cmd)
}

func addInviteRemove(parent *cobra.Command) {
	wo := &options.WorkspaceOptions{}

	cmd := &cobra.Command{
		Use:     "rm <code|id>...",
		Aliases: []string{"revoke", "delete"},
		Short:   "Revoke invite codes",
		Example: `
taskflow invite rm k3x9q0d2ab -w platform
`,
		Args: requireArgs(1, "at least one invite code or id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.RevokeInvite{App: a, Workspace: wo.Workspace, Refs: args}
				return s.Do(ctx)
			})
		},
	}

	options.AddWorkspaceArgs(cmd, wo)
	_ = cmd.MarkFlagRequired("workspace")
	parent.AddCommand(cmd)
}

func addInviteJoin(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "join <code>",
		Aliases: []string{"redeem"},
		Short:   "Join a workspace with an invite code",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app.Service) error {
				s := workspace.Join{App: a, Code: args[0]}
				return s.Do(ctx)
			})
		},
	}
	parent.AddCommand(cmd)
}
