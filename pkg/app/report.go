package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/taskflow/pkg/bucket"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

// NoDateSection names the report section of completed tasks without a due date.
const NoDateSection = "No date"

// ReportSection groups completed tasks by due date.
type ReportSection struct {
	Date  string      `json:"date" yaml:"date"`
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
}

// ReportResult encapsulates what was finished during a time window.
type ReportResult struct {
	Since    time.Time       `json:"since" yaml:"since"`
	Until    time.Time       `json:"until" yaml:"until"`
	Sections []ReportSection `json:"sections" yaml:"sections"`
	Total    int             `json:"total" yaml:"total"`
	Stats    bucket.Stats    `json:"stats" yaml:"stats"`
	Journal  journal.Summary `json:"journal" yaml:"journal"`
}

// Report returns the tasks of scope completed between the provided bounds, grouped by
// due date, along with the current counts and a summary of journal entries written in
// the window. Completion time is the task's last update.
func (s *Service) Report(ctx context.Context, scope store.Scope, since, until time.Time) (ReportResult, error) {
	if err := s.ready(); err != nil {
		return ReportResult{}, err
	}
	if since.After(until) {
		since, until = until, since
	}
	all, err := s.Persistence.ListTasks(ctx, scope)
	if err != nil {
		return ReportResult{}, err
	}
	entries, err := s.Persistence.ListEntries(ctx, scope)
	if err != nil {
		return ReportResult{}, err
	}

	res := ReportResult{
		Since: since,
		Until: until,
		Stats: bucket.Count(all, s.now()),
	}

	grouped := make(map[string][]task.Task)
	for _, t := range all {
		if t.Status != task.StatusDone {
			continue
		}
		if t.UpdatedAt.Before(since) || t.UpdatedAt.After(until) {
			continue
		}
		key := NoDateSection
		if t.DueDate.Valid() {
			key = t.DueDate.String()
		}
		grouped[key] = append(grouped[key], t)
		res.Total++
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	// Dates sort lexically; the undated section goes last.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == NoDateSection || keys[j] == NoDateSection {
			return keys[j] == NoDateSection && keys[i] != NoDateSection
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		tasks := grouped[k]
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].UpdatedAt.Before(tasks[j].UpdatedAt)
		})
		res.Sections = append(res.Sections, ReportSection{Date: k, Tasks: tasks})
	}

	var written []journal.Entry
	for _, e := range entries {
		if e.CreatedAt.Before(since) || e.CreatedAt.After(until) {
			continue
		}
		written = append(written, e)
	}
	res.Journal = journal.Summarize(written)
	return res, nil
}
