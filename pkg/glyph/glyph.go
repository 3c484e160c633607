package glyph

import (
	"fmt"

	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
)

// Glyph is a symbol printed next to a record.
type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	// Group is the legend section the glyph belongs to.
	Group string
}

const (
	GroupStatus   = "Status"
	GroupPriority = "Priority"
	GroupJournal  = "Journal"
	GroupThought  = "Thoughts"
)

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	faintCode     = 2
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Faint(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, faintCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

var statuses = map[task.Status]Glyph{
	task.StatusTodo:       {Key: "todo", Symbol: "○", Meaning: "to do", Group: GroupStatus},
	task.StatusInProgress: {Key: "in_progress", Symbol: "◐", Meaning: "in progress", Group: GroupStatus},
	task.StatusDone:       {Key: "done", Symbol: "✔", Meaning: "done", Group: GroupStatus},
}

var priorities = map[task.Priority]Glyph{
	task.PriorityLow:    {Key: "low", Symbol: " ", Meaning: "low priority", Group: GroupPriority},
	task.PriorityMedium: {Key: "medium", Symbol: "·", Meaning: "medium priority", Group: GroupPriority},
	task.PriorityHigh:   {Key: "high", Symbol: "!", Meaning: "high priority", Group: GroupPriority},
	task.PriorityUrgent: {Key: "urgent", Symbol: "‼", Meaning: "urgent", Group: GroupPriority},
}

var entries = map[journal.EntryType]Glyph{
	journal.TypeNote:         {Key: "note", Symbol: "⁃", Meaning: "note", Group: GroupJournal},
	journal.TypeAchievedGoal: {Key: "achieved_goal", Symbol: "★", Meaning: "achieved goal", Group: GroupJournal},
	journal.TypeImprovement:  {Key: "improvement", Symbol: "↑", Meaning: "improvement", Group: GroupJournal},
}

var thoughts = map[journal.ThoughtType]Glyph{
	journal.ThoughtPlain:       {Key: "thought", Symbol: "~", Meaning: "thought", Group: GroupThought},
	journal.ThoughtGoal:        {Key: "goal", Symbol: "◎", Meaning: "goal", Group: GroupThought},
	journal.ThoughtAchievement: {Key: "achievement", Symbol: "✷", Meaning: "achievement", Group: GroupThought},
}

// Unknown is printed for values outside the known sets.
var Unknown = Glyph{Key: "", Symbol: "?", Meaning: "unknown"}

func Status(s task.Status) Glyph {
	if g, ok := statuses[s]; ok {
		return g
	}
	return Unknown
}

func Priority(p task.Priority) Glyph {
	if g, ok := priorities[p]; ok {
		return g
	}
	return Unknown
}

func Entry(t journal.EntryType) Glyph {
	if g, ok := entries[t]; ok {
		return g
	}
	return Unknown
}

func Thought(t journal.ThoughtType) Glyph {
	if g, ok := thoughts[t]; ok {
		return g
	}
	return Unknown
}

// Legend returns every glyph in display order.
func Legend() []Glyph {
	g := make([]Glyph, 0, 13)
	for _, s := range task.Statuses() {
		g = append(g, statuses[s])
	}
	for _, p := range task.Priorities() {
		g = append(g, priorities[p])
	}
	for _, t := range journal.EntryTypes() {
		g = append(g, entries[t])
	}
	for _, t := range journal.ThoughtTypes() {
		g = append(g, thoughts[t])
	}
	return g
}

func (g Glyph) String() string {
	return g.Symbol
}
