package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"

	"tableflip.dev/taskflow/pkg/account"
)

// Theme centralizes Lip Gloss styles for the board.
type Theme struct {
	Footer FooterTheme
	Header HeaderTheme
	Column ColumnTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Mode   lipgloss.Style
}

// HeaderTheme styles the view switcher and the signed-in user.
type HeaderTheme struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Disabled  lipgloss.Style
	User      lipgloss.Style
	Title     lipgloss.Style
}

// ColumnTheme styles kanban columns and task rows.
type ColumnTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Dragging lipgloss.Style
	Done     lipgloss.Style
	Faint    lipgloss.Style
}

// ModalTheme styles centered overlays such as help.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in dark theme.
func Default() Theme {
	return build(false)
}

// Light returns the theme for light terminals.
func Light() Theme {
	return build(true)
}

// For picks the theme matching a stored preference. The system preference follows the
// terminal background.
func For(pref account.Theme) Theme {
	switch pref {
	case account.ThemeLight:
		return Light()
	case account.ThemeDark:
		return Default()
	}
	if termenv.HasDarkBackground() {
		return Default()
	}
	return Light()
}

func build(light bool) Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")
	faint := lipgloss.Color("240")
	var border color.Color = lipgloss.Color("238")
	if light {
		accent = lipgloss.Color("127")
		muted = lipgloss.Color("242")
		faint = lipgloss.Color("248")
		border = lipgloss.Color("250")
	}

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(muted),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			Mode:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Header: HeaderTheme{
			Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
			ActiveTab: lipgloss.NewStyle().Padding(0, 1).Foreground(accent).Bold(true).Underline(true),
			Disabled:  lipgloss.NewStyle().Padding(0, 1).Foreground(faint).Strikethrough(true),
			User:      lipgloss.NewStyle().Foreground(muted).Italic(true),
			Title:     lipgloss.NewStyle().Bold(true),
		},
		Column: ColumnTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(border).
				Padding(0, 1),
			Title:    lipgloss.NewStyle().Bold(true),
			Row:      lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
			Dragging: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(faint),
			Faint:    lipgloss.NewStyle().Foreground(faint),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
