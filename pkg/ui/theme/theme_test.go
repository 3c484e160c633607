package theme

import (
	"testing"

	"tableflip.dev/taskflow/pkg/account"
)

func TestForExplicitPreference(t *testing.T) {
	if got, want := For(account.ThemeLight).Footer.Mode.GetForeground(), Light().Footer.Mode.GetForeground(); got != want {
		t.Errorf("light: got %v, want %v", got, want)
	}
	if got, want := For(account.ThemeDark).Footer.Mode.GetForeground(), Default().Footer.Mode.GetForeground(); got != want {
		t.Errorf("dark: got %v, want %v", got, want)
	}
}
