// Command demo seeds the configured store with a week of sample tasks and journal entries.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

var demo = []struct {
	title, priority, status string
	days                    int
	at                      string
}{
	{"Plan the sprint", "high", "in_progress", 0, "09:30"},
	{"Review open pull requests", "medium", "todo", 0, ""},
	{"Lunch with Sam", "low", "todo", 1, "12:00"},
	{"Write release notes", "urgent", "todo", 2, ""},
	{"Fix flaky calendar test", "high", "done", -1, ""},
	{"Book flights", "medium", "todo", 6, "18:00"},
	{"Clean up old branches", "low", "todo", -3, ""},
}

func main() {
	cfg, err := store.LoadConfig()
	if err != nil {
		panic(err)
	}
	p, err := store.Load(cfg)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	ctx := context.Background()
	svc := &app.Service{Persistence: p, Accounts: account.ConfigProvider{Config: viper.GetViper()}}
	s, err := svc.Scope(ctx, "")
	if err != nil {
		panic(err)
	}
	tasks, err := svc.Tasks(ctx, s)
	if err != nil {
		panic(err)
	}

	today := time.Now()
	for _, d := range demo {
		in := app.TaskInput{
			Title:    d.title,
			Priority: d.priority,
			Status:   d.status,
			DueDate:  task.DateOf(today.AddDate(0, 0, d.days)).String(),
			DueTime:  d.at,
		}
		if _, err := svc.AddTask(ctx, tasks, in); err != nil {
			panic(err)
		}
	}
	if _, err := svc.AddEntry(ctx, s, "Shipped the **calendar** view.", "achieved_goal"); err != nil {
		panic(err)
	}

	for _, t := range tasks.Items() {
		fmt.Printf("%s %-11s %s %s\n", t.ID[:8], t.Status, t.DueDate, t.Title)
	}
}
