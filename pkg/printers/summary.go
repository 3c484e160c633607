package printers

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/glyph"
	"tableflip.dev/taskflow/pkg/timeutil"
	"tableflip.dev/taskflow/pkg/workspace"
)

// Stats prints the task counts.
func (pp *PrettyPrint) Stats(s bucket.Stats) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Total"), s.Total)
	tbl.AddRow(glyph.Status("todo").String()+" To Do", s.Todo)
	tbl.AddRow(glyph.Status("in_progress").String()+" In Progress", s.InProgress)
	tbl.AddRow(glyph.Status("done").String()+" Done", fmt.Sprintf("%d (%d%%)", s.Done, s.Percent()))
	if s.Overdue > 0 {
		tbl.AddRow(red.Sprint("Overdue"), red.Sprint(s.Overdue))
	} else {
		tbl.AddRow("Overdue", s.Overdue)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Report prints the tasks completed in a window, grouped by due date.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	window := timeutil.FormatWindow(r.Until.Sub(r.Since))
	pp.TitleWithCount(fmt.Sprintf("Completed in the last %s", window), r.Total)
	f := color.New(color.Faint)
	_, _ = f.Fprintf(pp.out(), "%s → %s\n\n", r.Since.Local().Format(time.RFC822), r.Until.Local().Format(time.RFC822))

	if r.Total == 0 {
		pp.none()
	}
	for _, s := range r.Sections {
		pp.Title(s.Date)
		for _, t := range s.Tasks {
			pp.Task(t, false)
		}
		pp.NewLine()
	}
	pp.Stats(r.Stats)
	if r.Journal.Total > 0 {
		pp.Summary(r.Journal)
		pp.NewLine()
	}
}

// Workspaces prints the user's workspaces.
func (pp *PrettyPrint) Workspaces(ws ...workspace.Workspace) {
	pp.titleWithCount("Workspaces", len(ws), "workspace", "workspaces")
	if len(ws) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	f := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width() / 2)
	tbl.Wrap = true
	for _, w := range ws {
		row := []interface{}{bold.Sprint(w.Name), f.Sprint(w.Description)}
		if pp.ShowID {
			row = append([]interface{}{w.ID}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Invite prints a freshly created invite code.
func (pp *PrettyPrint) Invite(i workspace.Invite) {
	bold := color.New(color.Bold, color.FgHiGreen)
	f := color.New(color.Faint)
	_, _ = fmt.Fprint(pp.out(), "Invite code: ")
	_, _ = bold.Fprintln(pp.out(), i.Code)
	if i.ExpiresAt != nil {
		_, _ = f.Fprintf(pp.out(), "expires %s\n", i.ExpiresAt.Local().Format(time.RFC822))
	}
	if i.MaxUses != nil {
		_, _ = f.Fprintf(pp.out(), "usable %d times\n", *i.MaxUses)
	}
}

// Members prints the members of a workspace with their roles.
func (pp *PrettyPrint) Members(ms ...workspace.Member) {
	pp.titleWithCount("Members", len(ms), "member", "members")
	if len(ms) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	f := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, m := range ms {
		role := f.Sprint(m.Role)
		if m.Role == workspace.RoleOwner {
			role = bold.Sprint(m.Role)
		}
		tbl.AddRow(m.UserID, role, f.Sprint("joined "+m.JoinedAt.Local().Format("Jan 2 2006")))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Invites prints the invites of a workspace. Expired and used up codes are dimmed.
func (pp *PrettyPrint) Invites(is ...workspace.Invite) {
	pp.titleWithCount("Invites", len(is), "invite", "invites")
	if len(is) == 0 {
		pp.none()
		return
	}
	live := color.New(color.Bold, color.FgHiGreen)
	f := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, i := range is {
		code := live.Sprint(i.Code)
		state := "active"
		if err := i.Check(pp.today()); err != nil {
			code = f.Sprint(i.Code)
			state = "inactive"
		}
		uses := fmt.Sprintf("%d uses", i.UseCount)
		if i.MaxUses != nil {
			uses = fmt.Sprintf("%d/%d uses", i.UseCount, *i.MaxUses)
		}
		expires := "never expires"
		if i.ExpiresAt != nil {
			expires = "expires " + i.ExpiresAt.Local().Format(time.RFC822)
		}
		row := []interface{}{code, state, f.Sprint(uses), f.Sprint(expires)}
		if pp.ShowID {
			row = append([]interface{}{i.ID}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Legend prints every glyph with its meaning, grouped.
func (pp *PrettyPrint) Legend() {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	group := ""
	for _, g := range glyph.Legend() {
		if g.Group != group {
			if group != "" {
				tbl.AddRow("", "")
			}
			group = g.Group
			tbl.AddRow("", bold.Sprint(group))
		}
		tbl.AddRow(g.Symbol, g.Meaning)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
