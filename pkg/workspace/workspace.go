// Package workspace models shared collaboration scopes, their members and the invite
// codes used to join them.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInviteNotFound  = errors.New("workspace: invite not found")
	ErrInviteExpired   = errors.New("workspace: invite expired")
	ErrInviteExhausted = errors.New("workspace: invite has reached its maximum uses")
	ErrInvalidRole     = errors.New("workspace: invalid role")
)

// Role is a member's permission level.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole converts raw input to a Role. Empty input yields member.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RoleMember, nil
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidRole, raw)
}

// CanInvite reports whether the role may create invites.
func (r Role) CanInvite() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Workspace is a shared scope for tasks, journal entries and thoughts.
type Workspace struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerID     string    `json:"owner_id" yaml:"owner_id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// New returns a workspace with a fresh ID owned by ownerID.
func New(name, description, ownerID string) Workspace {
	return Workspace{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks the workspace can be stored.
func (w Workspace) Validate() error {
	if w.ID == "" || w.OwnerID == "" {
		return errors.New("workspace: missing id or owner")
	}
	if strings.TrimSpace(w.Name) == "" {
		return errors.New("workspace: empty name")
	}
	return nil
}

// Member links a user to a workspace.
type Member struct {
	ID          string    `json:"id" yaml:"id"`
	WorkspaceID string    `json:"workspace_id" yaml:"workspace_id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	Role        Role      `json:"role" yaml:"role"`
	JoinedAt    time.Time `json:"joined_at" yaml:"joined_at"`
}

// NewMember returns a membership with a fresh ID.
func NewMember(workspaceID, userID string, role Role) Member {
	return Member{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
}

// Invite is a shareable code granting membership.
type Invite struct {
	ID          string     `json:"id" yaml:"id"`
	WorkspaceID string     `json:"workspace_id" yaml:"workspace_id"`
	Code        string     `json:"invite_code" yaml:"invite_code"`
	CreatedBy   string     `json:"created_by" yaml:"created_by"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	MaxUses     *int       `json:"max_uses,omitempty" yaml:"max_uses,omitempty"`
	UseCount    int        `json:"use_count" yaml:"use_count"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// CodeLength is the length of generated invite codes.
const CodeLength = 10

// NewInvite returns an invite with a fresh code. Zero expiry or maxUses means unlimited.
func NewInvite(workspaceID, createdBy string, expires time.Time, maxUses int) Invite {
	inv := Invite{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Code:        NewCode(),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if !expires.IsZero() {
		e := expires.UTC()
		inv.ExpiresAt = &e
	}
	if maxUses > 0 {
		inv.MaxUses = &maxUses
	}
	return inv
}

// NewCode returns a random code of CodeLength lowercase letters and digits.
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength]
}

// Check reports whether the invite may still be used at now.
func (i Invite) Check(now time.Time) error {
	if i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
		return fmt.Errorf("%w at %s", ErrInviteExpired, i.ExpiresAt.Format(time.RFC3339))
	}
	if i.MaxUses != nil && i.UseCount >= *i.MaxUses {
		return ErrInviteExhausted
	}
	return nil
}
