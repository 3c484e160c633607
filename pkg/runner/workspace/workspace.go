// Package workspace runs workspace, membership and invite commands.
package workspace

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/timeutil"
)

type Create struct {
	App         *app.Service
	Name        string
	Description string

	ShowID bool
	Format printers.Format
}

func (n *Create) Do(ctx context.Context) error {
	w, err := n.App.CreateWorkspace(ctx, n.Name, n.Description)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(w)
	}
	pp := printers.PrettyPrint{ShowID: true}
	pp.Workspaces(w)
	return nil
}

type List struct {
	App *app.Service

	ShowID bool
	Format printers.Format
}

func (n *List) Do(ctx context.Context) error {
	ws, err := n.App.Workspaces(ctx)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(ws)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Workspaces(ws...)
	return nil
}

// Invite creates an invite code for a workspace.
type Invite struct {
	App       *app.Service
	Workspace string
	// Expires is a window such as "1w"; empty never expires.
	Expires string
	MaxUses int

	Format printers.Format
}

func (n *Invite) Do(ctx context.Context) error {
	var window timeutil.Window
	if n.Expires != "" {
		var err error
		if window, err = timeutil.ParseWindow(n.Expires); err != nil {
			return err
		}
	}
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	inv, err := n.App.CreateInvite(ctx, s, window, n.MaxUses)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(inv)
	}
	pp := printers.PrettyPrint{}
	pp.Invite(inv)
	return nil
}

// Join redeems an invite code.
type Join struct {
	App  *app.Service
	Code string
}

func (n *Join) Do(ctx context.Context) error {
	res, err := n.App.Join(ctx, n.Code)
	if err != nil {
		return err
	}
	if res.Already {
		_, _ = fmt.Fprintf(color.Output, "Already a member of %s\n", res.Workspace.Name)
		return nil
	}
	_, _ = fmt.Fprintf(color.Output, "Joined %s\n", res.Workspace.Name)
	return nil
}

type Leave struct {
	App       *app.Service
	Workspace string
}

func (n *Leave) Do(ctx context.Context) error {
	if n.Workspace == "" {
		return fmt.Errorf("workspace: name the workspace to leave")
	}
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	if err := n.App.Leave(ctx, s); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "Left %s\n", n.Workspace)
	return nil
}

// Members lists the members of a workspace.
type Members struct {
	App       *app.Service
	Workspace string

	Format printers.Format
}

func (n *Members) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	ms, err := n.App.Members(ctx, s)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(ms)
	}
	pp := printers.PrettyPrint{}
	pp.Members(ms...)
	return nil
}

// RemoveMember removes users from a workspace. Only the owner may do this.
type RemoveMember struct {
	App       *app.Service
	Workspace string
	Users     []string
}

func (n *RemoveMember) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	for _, u := range n.Users {
		m, err := n.App.RemoveMember(ctx, s, u)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(color.Output, "Removed %s from %s\n", m.UserID, n.Workspace)
	}
	return nil
}

// Invites lists the invite codes of a workspace.
type Invites struct {
	App       *app.Service
	Workspace string

	ShowID bool
	Format printers.Format
}

func (n *Invites) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	is, err := n.App.Invites(ctx, s)
	if err != nil {
		return err
	}
	if n.Format.Structured() {
		return n.Format.Encode(is)
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.Invites(is...)
	return nil
}

// RevokeInvite deletes invite codes so they can no longer be redeemed.
type RevokeInvite struct {
	App       *app.Service
	Workspace string
	Refs      []string
}

func (n *RevokeInvite) Do(ctx context.Context) error {
	s, err := n.App.Scope(ctx, n.Workspace)
	if err != nil {
		return err
	}
	for _, ref := range n.Refs {
		inv, err := n.App.DeleteInvite(ctx, s, ref)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(color.Output, "Revoked invite %s\n", inv.Code)
	}
	return nil
}
