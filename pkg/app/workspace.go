package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
	"tableflip.dev/taskflow/pkg/workspace"
)

// CreateWorkspace creates a workspace owned by the signed-in user.
func (s *Service) CreateWorkspace(ctx context.Context, name, description string) (workspace.Workspace, error) {
	if err := s.ready(); err != nil {
		return workspace.Workspace{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return workspace.Workspace{}, err
	}
	w, err := s.Persistence.CreateWorkspace(ctx, workspace.New(name, description, sess.UserID))
	if err != nil {
		return workspace.Workspace{}, err
	}
	if err := s.Persistence.SaveMember(ctx, workspace.NewMember(w.ID, sess.UserID, workspace.RoleOwner)); err != nil {
		return workspace.Workspace{}, err
	}
	return w, nil
}

// Workspaces lists the workspaces the signed-in user belongs to.
func (s *Service) Workspaces(ctx context.Context) ([]workspace.Workspace, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s.Persistence.Workspaces(ctx, sess.UserID)
}

// resolveWorkspace finds one of the user's workspaces by ID, ID prefix or name.
func (s *Service) resolveWorkspace(ctx context.Context, userID, ref string) (workspace.Workspace, error) {
	all, err := s.Persistence.Workspaces(ctx, userID)
	if err != nil {
		return workspace.Workspace{}, err
	}
	for _, w := range all {
		if strings.EqualFold(w.Name, ref) {
			return w, nil
		}
	}
	w, err := findByID(all, ref, "workspace", func(w workspace.Workspace) string { return w.ID })
	if errors.Is(err, store.ErrNotFound) {
		return workspace.Workspace{}, ErrNotMember
	}
	return w, err
}

func (s *Service) member(ctx context.Context, workspaceID, userID string) (workspace.Member, bool, error) {
	members, err := s.Persistence.Members(ctx, workspaceID)
	if err != nil {
		return workspace.Member{}, false, err
	}
	for _, m := range members {
		if m.UserID == userID {
			return m, true, nil
		}
	}
	return workspace.Member{}, false, nil
}

// CreateInvite creates an invite for the scope's workspace. A zero window or maxUses
// leaves the invite unlimited in that dimension.
func (s *Service) CreateInvite(ctx context.Context, scope store.Scope, expires timeutil.Window, maxUses int) (workspace.Invite, error) {
	if err := s.ready(); err != nil {
		return workspace.Invite{}, err
	}
	sess, m, err := s.membership(ctx, scope)
	if err != nil {
		return workspace.Invite{}, err
	}
	if !m.Role.CanInvite() {
		return workspace.Invite{}, ErrForbidden
	}
	var until time.Time
	if expires.Duration > 0 {
		until = expires.After(s.now())
	}
	inv := workspace.NewInvite(scope.Workspace, sess.UserID, until, maxUses)
	if err := s.Persistence.SaveInvite(ctx, inv); err != nil {
		return workspace.Invite{}, err
	}
	return inv, nil
}

// JoinResult is the outcome of redeeming an invite.
type JoinResult struct {
	Workspace workspace.Workspace
	// Already is set when the user was a member before redeeming.
	Already bool
}

// Join redeems an invite code for the signed-in user.
func (s *Service) Join(ctx context.Context, code string) (JoinResult, error) {
	if err := s.ready(); err != nil {
		return JoinResult{}, err
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return JoinResult{}, err
	}
	inv, err := s.Persistence.InviteByCode(ctx, code)
	if err != nil {
		return JoinResult{}, err
	}
	w, err := s.Persistence.GetWorkspace(ctx, inv.WorkspaceID)
	if err != nil {
		return JoinResult{}, err
	}
	if _, ok, err := s.member(ctx, w.ID, sess.UserID); err != nil {
		return JoinResult{}, err
	} else if ok {
		return JoinResult{Workspace: w, Already: true}, nil
	}
	if err := inv.Check(s.now()); err != nil {
		return JoinResult{}, err
	}
	if err := s.Persistence.SaveMember(ctx, workspace.NewMember(w.ID, sess.UserID, workspace.RoleMember)); err != nil {
		return JoinResult{}, err
	}
	inv.UseCount++
	if err := s.Persistence.SaveInvite(ctx, inv); err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Workspace: w}, nil
}

// Leave removes the signed-in user from a workspace. Owners cannot leave.
func (s *Service) Leave(ctx context.Context, scope store.Scope) error {
	if err := s.ready(); err != nil {
		return err
	}
	sess, m, err := s.membership(ctx, scope)
	if err != nil {
		return err
	}
	if m.Role == workspace.RoleOwner {
		return ErrForbidden
	}
	return s.Persistence.RemoveMember(ctx, scope.Workspace, sess.UserID)
}

// membership returns the signed-in user and their membership of the scope's workspace.
func (s *Service) membership(ctx context.Context, scope store.Scope) (account.Session, workspace.Member, error) {
	if scope.IsPrivate() {
		return account.Session{}, workspace.Member{}, ErrNoWorkspace
	}
	sess, err := s.Session(ctx)
	if err != nil {
		return account.Session{}, workspace.Member{}, err
	}
	m, ok, err := s.member(ctx, scope.Workspace, sess.UserID)
	if err != nil {
		return account.Session{}, workspace.Member{}, err
	}
	if !ok {
		return account.Session{}, workspace.Member{}, ErrNotMember
	}
	return sess, m, nil
}

// Members lists the members of the scope's workspace, oldest first. Any member may
// look.
func (s *Service) Members(ctx context.Context, scope store.Scope) ([]workspace.Member, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, _, err := s.membership(ctx, scope); err != nil {
		return nil, err
	}
	return s.Persistence.Members(ctx, scope.Workspace)
}

// RemoveMember removes another user from the scope's workspace. Only the owner may
// remove members, and the owner cannot remove themselves.
func (s *Service) RemoveMember(ctx context.Context, scope store.Scope, userID string) (workspace.Member, error) {
	if err := s.ready(); err != nil {
		return workspace.Member{}, err
	}
	sess, m, err := s.membership(ctx, scope)
	if err != nil {
		return workspace.Member{}, err
	}
	if m.Role != workspace.RoleOwner || userID == sess.UserID {
		return workspace.Member{}, ErrForbidden
	}
	target, ok, err := s.member(ctx, scope.Workspace, userID)
	if err != nil {
		return workspace.Member{}, err
	}
	if !ok {
		return workspace.Member{}, notFound("member", userID)
	}
	return target, s.Persistence.RemoveMember(ctx, scope.Workspace, userID)
}

// Invites lists the invites of the scope's workspace, newest first, for members allowed
// to invite.
func (s *Service) Invites(ctx context.Context, scope store.Scope) ([]workspace.Invite, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	_, m, err := s.membership(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !m.Role.CanInvite() {
		return nil, ErrForbidden
	}
	return s.Persistence.ListInvites(ctx, scope.Workspace)
}

// DeleteInvite revokes an invite of the scope's workspace, found by code or by ID
// prefix.
func (s *Service) DeleteInvite(ctx context.Context, scope store.Scope, ref string) (workspace.Invite, error) {
	invites, err := s.Invites(ctx, scope)
	if err != nil {
		return workspace.Invite{}, err
	}
	inv, err := findInvite(invites, strings.TrimSpace(ref))
	if err != nil {
		return workspace.Invite{}, err
	}
	return inv, s.Persistence.DeleteInvite(ctx, inv.ID)
}

func findInvite(invites []workspace.Invite, ref string) (workspace.Invite, error) {
	for _, i := range invites {
		if ref != "" && i.Code == ref {
			return i, nil
		}
	}
	return findByID(invites, ref, "invite", func(i workspace.Invite) string { return i.ID })
}
