package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/task"
)

// TaskOptions holds the task fields settable from flags.
type TaskOptions struct {
	Description string
	Priority    string
	Status      string
	Due         string
	At          string
	Assign      string
	Position    int
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "description", "d", "",
		"Longer description of the task.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Priority: low, medium, high or urgent.")
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Status: todo, in_progress or done.")
	cmd.Flags().StringVar(&o.Due, "due", "",
		`Due date, example: --due=2024-03-11, --due=3/11, --due=tomorrow.`)
	cmd.Flags().StringVar(&o.At, "at", "",
		`Due time as HH:MM, example: --at=09:30.`)
	cmd.Flags().StringVar(&o.Assign, "assign", "",
		"User id the task is assigned to.")
	cmd.Flags().IntVar(&o.Position, "position", 0,
		"Sort position; lower comes first.")
}

// Input converts the flags to a new task. due is the already resolved due date.
func (o *TaskOptions) Input(title string, due task.Date) app.TaskInput {
	return app.TaskInput{
		Title:       title,
		Description: o.Description,
		Status:      o.Status,
		Priority:    o.Priority,
		DueDate:     due.String(),
		DueTime:     o.At,
		AssignedTo:  o.Assign,
		Position:    o.Position,
	}
}

// Patch converts the flags that were set on cmd to a patch.
func (o *TaskOptions) Patch(cmd *cobra.Command, due *task.Date) (task.Patch, error) {
	var p task.Patch
	f := cmd.Flags()
	if f.Changed("description") {
		p.Description = &o.Description
	}
	if f.Changed("priority") {
		pr, err := task.ParsePriority(o.Priority)
		if err != nil {
			return task.Patch{}, err
		}
		p.Priority = &pr
	}
	if f.Changed("status") {
		s, err := task.ParseStatus(o.Status)
		if err != nil {
			return task.Patch{}, err
		}
		p.Status = &s
	}
	if due != nil {
		p.DueDate = due
	}
	if f.Changed("at") {
		c := task.Clock("")
		if o.At != "" {
			var err error
			if c, err = task.ParseClock(o.At); err != nil {
				return task.Patch{}, err
			}
		}
		p.DueTime = &c
	}
	if f.Changed("assign") {
		p.AssignedTo = &o.Assign
	}
	if f.Changed("position") {
		p.Position = &o.Position
	}
	return p, nil
}
