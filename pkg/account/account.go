// Package account is the identity collaborator: who is signed in, and the profile
// preferences stored for them.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/view"
)

// ErrNotAuthenticated is returned when there is no signed-in user.
var ErrNotAuthenticated = errors.New("account: not authenticated")

// Session is the signed-in user.
type Session struct {
	UserID      string `json:"user_id" yaml:"user_id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
}

// Provider resolves the current session.
type Provider interface {
	Current(ctx context.Context) (Session, error)
}

// Theme is the stored colour preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Profile holds per-user preferences.
type Profile struct {
	UserID      string    `json:"id" yaml:"id"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	AppMode     view.Mode `json:"app_mode" yaml:"app_mode"`
	Theme       Theme     `json:"theme" yaml:"theme"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// DefaultProfile is the profile of a user who never saved one.
func DefaultProfile(s Session) Profile {
	return Profile{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		AppMode:     view.DefaultMode,
		Theme:       ThemeSystem,
	}
}

// User converts the session to the view's display identity.
func (s Session) User() view.User {
	return view.User{ID: s.UserID, Name: s.DisplayName, AvatarURL: s.AvatarURL}
}

// ConfigProvider reads the session from configuration keys user.id, user.name and
// user.avatar.
type ConfigProvider struct {
	Config *viper.Viper
}

// Current implements Provider.
func (p ConfigProvider) Current(_ context.Context) (Session, error) {
	v := p.Config
	if v == nil {
		v = viper.GetViper()
	}
	id := strings.TrimSpace(v.GetString("user.id"))
	if id == "" {
		return Session{}, ErrNotAuthenticated
	}
	name := strings.TrimSpace(v.GetString("user.name"))
	if name == "" {
		name = id
	}
	return Session{UserID: id, DisplayName: name, AvatarURL: v.GetString("user.avatar")}, nil
}

// Static always returns the same session. It is meant for tests and embedding.
type Static Session

// Current implements Provider.
func (s Static) Current(_ context.Context) (Session, error) {
	if s.UserID == "" {
		return Session{}, ErrNotAuthenticated
	}
	return Session(s), nil
}
