package printers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/taskflow/pkg/glyph"
	"tableflip.dev/taskflow/pkg/journal"
)

// Markdown renders journal content. It falls back to plain word wrapping when the
// renderer cannot be built.
func (pp *PrettyPrint) Markdown(body string) string {
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	if color.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(pp.width()-4),
	)
	if err == nil {
		if out, err := r.Render(body); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(body, pp.width()-4)
}

// Entries prints journal entries, newest first, with their content rendered as markdown.
func (pp *PrettyPrint) Entries(entries ...journal.Entry) {
	pp.titleWithCount("Journal", len(entries), "entry", "entries")
	if len(entries) == 0 {
		pp.none()
		return
	}
	h := color.New(color.Bold)
	f := color.New(color.Faint)
	for _, e := range entries {
		pp.id(e.ID)
		_, _ = h.Fprintf(pp.out(), "%s %s", glyph.Entry(e.Type), strings.ReplaceAll(string(e.Type), "_", " "))
		_, _ = f.Fprintf(pp.out(), "  %s\n", e.CreatedAt.Local().Format("Mon Jan 2 15:04"))
		_, _ = fmt.Fprintln(pp.out(), pp.Markdown(e.Content))
		pp.NewLine()
	}
}

// Summary prints the per-type count of journal entries.
func (pp *PrettyPrint) Summary(s journal.Summary) {
	f := color.New(color.Faint)
	parts := make([]string, 0, len(s.ByType))
	for _, t := range journal.EntryTypes() {
		parts = append(parts, fmt.Sprintf("%s %d %s", glyph.Entry(t), s.ByType[t], t.Label()))
	}
	_, _ = f.Fprintln(pp.out(), strings.Join(parts, "   "))
}

// Thoughts prints the thoughts shared with a workspace.
func (pp *PrettyPrint) Thoughts(thoughts ...journal.Thought) {
	pp.titleWithCount("Thoughts", len(thoughts), "thought", "thoughts")
	if len(thoughts) == 0 {
		pp.none()
		return
	}
	f := color.New(color.Faint)
	for _, t := range thoughts {
		pp.id(t.ID)
		_, _ = fmt.Fprintf(pp.out(), "%s %s", glyph.Thought(t.Type), t.Content)
		_, _ = f.Fprintf(pp.out(), "  %s\n", t.CreatedAt.Local().Format("Jan 2"))
	}
	pp.NewLine()
}
