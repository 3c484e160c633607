// Package journal holds reflective records: journal entries, which may be private or
// shared with a workspace, and thoughts, which always belong to a workspace.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidType is returned for an unknown entry or thought type.
	ErrInvalidType = errors.New("journal: invalid type")
	// ErrEmpty is returned when content is blank.
	ErrEmpty = errors.New("journal: empty content")
	// ErrNoWorkspace is returned for a thought without a workspace.
	ErrNoWorkspace = errors.New("journal: thoughts require a workspace")
)

// EntryType classifies a journal entry.
type EntryType string

const (
	TypeNote         EntryType = "note"
	TypeAchievedGoal EntryType = "achieved_goal"
	TypeImprovement  EntryType = "improvement"
)

// EntryTypes returns every entry type in display order.
func EntryTypes() []EntryType {
	return []EntryType{TypeNote, TypeAchievedGoal, TypeImprovement}
}

// ParseEntryType converts raw input to an EntryType. Empty input yields note.
func ParseEntryType(raw string) (EntryType, error) {
	t := EntryType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if t == "" {
		return TypeNote, nil
	}
	for _, c := range EntryTypes() {
		if c == t {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrInvalidType, raw)
}

// Label is the heading used in summaries.
func (t EntryType) Label() string {
	switch t {
	case TypeAchievedGoal:
		return "Achieved goals"
	case TypeImprovement:
		return "Improvements"
	}
	return "Notes"
}

// Entry is a journal entry.
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	Content     string    `json:"content" yaml:"content"`
	Type        EntryType `json:"entry_type" yaml:"entry_type"`
	WorkspaceID string    `json:"workspace_id,omitempty" yaml:"workspace_id,omitempty"`
	CreatedBy   string    `json:"created_by" yaml:"created_by"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewEntry returns an entry with a fresh ID.
func NewEntry(content string, typ EntryType, createdBy string) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(content),
		Type:      typ,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the entry can be stored.
func (e Entry) Validate() error {
	if e.ID == "" {
		return errors.New("journal: missing id")
	}
	if strings.TrimSpace(e.Content) == "" {
		return ErrEmpty
	}
	if _, err := ParseEntryType(string(e.Type)); err != nil || e.Type == "" {
		return fmt.Errorf("%w %q", ErrInvalidType, e.Type)
	}
	return nil
}

// Summary counts entries per type.
type Summary struct {
	Total  int               `json:"total" yaml:"total"`
	ByType map[EntryType]int `json:"by_type" yaml:"by_type"`
}

// Summarize counts entries per type.
func Summarize(entries []Entry) Summary {
	s := Summary{ByType: make(map[EntryType]int, len(EntryTypes()))}
	for _, t := range EntryTypes() {
		s.ByType[t] = 0
	}
	for _, e := range entries {
		s.Total++
		s.ByType[e.Type]++
	}
	return s
}

// ThoughtType classifies a thought.
type ThoughtType string

const (
	ThoughtPlain       ThoughtType = "thought"
	ThoughtGoal        ThoughtType = "goal"
	ThoughtAchievement ThoughtType = "achievement"
)

// ThoughtTypes returns every thought type.
func ThoughtTypes() []ThoughtType {
	return []ThoughtType{ThoughtPlain, ThoughtGoal, ThoughtAchievement}
}

// ParseThoughtType converts raw input to a ThoughtType. Empty input yields thought.
func ParseThoughtType(raw string) (ThoughtType, error) {
	t := ThoughtType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return ThoughtPlain, nil
	}
	for _, c := range ThoughtTypes() {
		if c == t {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrInvalidType, raw)
}

// Thought is a short idea shared with a workspace.
type Thought struct {
	ID          string      `json:"id" yaml:"id"`
	Content     string      `json:"content" yaml:"content"`
	Type        ThoughtType `json:"thought_type" yaml:"thought_type"`
	WorkspaceID string      `json:"workspace_id" yaml:"workspace_id"`
	CreatedBy   string      `json:"created_by" yaml:"created_by"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// NewThought returns a thought with a fresh ID.
func NewThought(content string, typ ThoughtType, workspaceID, createdBy string) Thought {
	return Thought{
		ID:          uuid.NewString(),
		Content:     strings.TrimSpace(content),
		Type:        typ,
		WorkspaceID: workspaceID,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks the thought can be stored.
func (t Thought) Validate() error {
	switch {
	case t.ID == "":
		return errors.New("journal: missing id")
	case strings.TrimSpace(t.Content) == "":
		return ErrEmpty
	case t.WorkspaceID == "":
		return ErrNoWorkspace
	}
	if _, err := ParseThoughtType(string(t.Type)); err != nil || t.Type == "" {
		return fmt.Errorf("%w %q", ErrInvalidType, t.Type)
	}
	return nil
}
