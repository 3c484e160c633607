package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/journal"
	"tableflip.dev/taskflow/pkg/task"
)

var (
	statusEnum   = []string{string(task.StatusTodo), string(task.StatusInProgress), string(task.StatusDone)}
	priorityEnum = []string{string(task.PriorityLow), string(task.PriorityMedium), string(task.PriorityHigh), string(task.PriorityUrgent)}
	entryEnum    = []string{string(journal.TypeNote), string(journal.TypeAchievedGoal), string(journal.TypeImprovement)}
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListTasksTool(srv, svc)
	registerGetTaskTool(srv, svc)
	registerViewTools(srv, svc)
	registerKanbanTool(srv, svc)
	registerStatsTool(srv, svc)
	registerCreateTaskTool(srv, svc)
	registerUpdateTaskTool(srv, svc)
	registerChangeStatusTool(srv, svc)
	registerToggleTaskTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerJournalTools(srv, svc)
	registerListWorkspacesTool(srv, svc)
}

func workspaceArg() mcp.ToolOption {
	return mcp.WithString("workspace",
		mcp.Description("Workspace name or id. Omit for private tasks."),
	)
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks ordered by position, newest first."),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ws := request.GetString("workspace", "")
		tasks, err := svc.ListTasks(ctx, ws)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"tasks": nonNil(tasks),
			"count": len(tasks),
		})
	})
}

func registerGetTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_task",
		mcp.WithDescription("Fetch a single task by identifier or unique identifier prefix."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.GetTask(ctx, request.GetString("workspace", ""), id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerViewTools(srv *server.MCPServer, svc *Service) {
	dateArg := mcp.WithString("date",
		mcp.Description("Reference date as YYYY-MM-DD. Defaults to today."),
	)

	day := mcp.NewTool(
		"view_day",
		mcp.WithDescription("Tasks of a day bucketed by hour, plus all-day and unscheduled tasks."),
		dateArg,
		workspaceArg(),
	)
	srv.AddTool(day, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := svc.Day(ctx, request.GetString("workspace", ""), request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(v)
	})

	week := mcp.NewTool(
		"view_week",
		mcp.WithDescription("Tasks of the Monday to Sunday week containing the date."),
		dateArg,
		workspaceArg(),
	)
	srv.AddTool(week, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := svc.Week(ctx, request.GetString("workspace", ""), request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(v)
	})

	month := mcp.NewTool(
		"view_month",
		mcp.WithDescription("Month grid containing the date, Monday first, with the tasks due on each day."),
		dateArg,
		workspaceArg(),
	)
	srv.AddTool(month, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := svc.Month(ctx, request.GetString("workspace", ""), request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(v)
	})
}

func registerKanbanTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"view_kanban",
		mcp.WithDescription("Tasks grouped into To Do, In Progress and Done columns."),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cols, err := svc.Kanban(ctx, request.GetString("workspace", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"columns": cols})
	})
}

func registerStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"task_stats",
		mcp.WithDescription("Count tasks per status and overdue tasks."),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := svc.Stats(ctx, request.GetString("workspace", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(stats)
	})
}

func registerCreateTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a new task."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithString("status",
			mcp.Description("Initial status, defaults to todo."),
			mcp.Enum(statusEnum...),
		),
		mcp.WithString("priority",
			mcp.Description("Priority, defaults to medium."),
			mcp.Enum(priorityEnum...),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date as YYYY-MM-DD."),
		),
		mcp.WithString("due_time",
			mcp.Description("Optional due time as HH:MM."),
		),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Status      string `json:"status"`
			Priority    string `json:"priority"`
			DueDate     string `json:"due_date"`
			DueTime     string `json:"due_time"`
			Workspace   string `json:"workspace"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		t, err := svc.CreateTask(ctx, args.Workspace, app.TaskInput{
			Title:       args.Title,
			Description: args.Description,
			Status:      args.Status,
			Priority:    args.Priority,
			DueDate:     args.DueDate,
			DueTime:     args.DueTime,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerUpdateTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_task",
		mcp.WithDescription("Change the title, description, priority or due date of a task. Omitted fields are left alone; an empty due_date clears it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("description", mcp.Description("New description.")),
		mcp.WithString("priority",
			mcp.Description("New priority."),
			mcp.Enum(priorityEnum...),
		),
		mcp.WithString("due_date", mcp.Description("New due date as YYYY-MM-DD.")),
		mcp.WithString("due_time", mcp.Description("New due time as HH:MM.")),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := patchFromArguments(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.UpdateTask(ctx, request.GetString("workspace", ""), id, p)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func patchFromArguments(args map[string]any) (task.Patch, error) {
	var p task.Patch
	str := func(key string) (string, bool) {
		v, ok := args[key]
		if !ok {
			return "", false
		}
		s, _ := v.(string)
		return s, true
	}
	if s, ok := str("title"); ok {
		p.Title = &s
	}
	if s, ok := str("description"); ok {
		p.Description = &s
	}
	if s, ok := str("priority"); ok {
		pr, err := task.ParsePriority(s)
		if err != nil {
			return task.Patch{}, err
		}
		p.Priority = &pr
	}
	if s, ok := str("due_date"); ok {
		d := task.Date(s)
		if s != "" {
			var err error
			if d, err = task.ParseDate(s); err != nil {
				return task.Patch{}, err
			}
		}
		p.DueDate = &d
	}
	if s, ok := str("due_time"); ok {
		c := task.Clock(s)
		if s != "" {
			var err error
			if c, err = task.ParseClock(s); err != nil {
				return task.Patch{}, err
			}
		}
		p.DueTime = &c
	}
	return p, nil
}

func registerChangeStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"change_status",
		mcp.WithDescription("Move a task to another status."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("Target status."),
			mcp.Enum(statusEnum...),
		),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := request.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.ChangeStatus(ctx, request.GetString("workspace", ""), id, status)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerToggleTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_task",
		mcp.WithDescription("Check a task off (done) or uncheck it (todo)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithBoolean("checked",
			mcp.Required(),
			mcp.Description("True marks the task done, false marks it todo."),
		),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		checked, err := request.RequireBool("checked")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.ToggleTask(ctx, request.GetString("workspace", ""), id, checked)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		workspaceArg(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.DeleteTask(ctx, request.GetString("workspace", ""), id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": t})
	})
}

func registerJournalTools(srv *server.MCPServer, svc *Service) {
	list := mcp.NewTool(
		"list_journal",
		mcp.WithDescription("List journal entries, newest first."),
		workspaceArg(),
	)
	srv.AddTool(list, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := svc.Journal(ctx, request.GetString("workspace", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		return toJSONResult(map[string]any{
			"entries": entries,
			"summary": journal.Summarize(entries),
		})
	})

	add := mcp.NewTool(
		"add_journal_entry",
		mcp.WithDescription("Write a journal entry. Content may be markdown."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Entry content."),
		),
		mcp.WithString("type",
			mcp.Description("Entry type, defaults to note."),
			mcp.Enum(entryEnum...),
		),
		workspaceArg(),
	)
	srv.AddTool(add, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := request.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		e, err := svc.AddJournalEntry(ctx, request.GetString("workspace", ""), content, request.GetString("type", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(e)
	})
}

func registerListWorkspacesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_workspaces",
		mcp.WithDescription("List the workspaces the user belongs to."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ws, err := svc.Workspaces(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"workspaces": ws,
			"count":      len(ws),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
