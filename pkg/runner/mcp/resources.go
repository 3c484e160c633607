package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerTasksResource(srv, svc)
	registerWorkspaceTasksTemplate(srv, svc)
	registerTaskTemplate(srv, svc)
	registerWorkspacesResource(srv, svc)
}

func registerTasksResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskflow://tasks",
		"Private tasks",
		mcp.WithResourceDescription("The signed-in user's private tasks with status counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return tasksPayload(ctx, svc, request.Params.URI, "")
	})
}

func registerWorkspaceTasksTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"taskflow://workspaces/{workspace}/tasks",
		"Workspace tasks",
		mcp.WithTemplateDescription("Tasks shared with a workspace."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ws := argument(request, "workspace")
		if ws == "" {
			return nil, fmt.Errorf("workspace is required")
		}
		return tasksPayload(ctx, svc, request.Params.URI, ws)
	})
}

func tasksPayload(ctx context.Context, svc *Service, uri, ws string) ([]mcp.ResourceContents, error) {
	tasks, err := svc.ListTasks(ctx, ws)
	if err != nil {
		return nil, err
	}
	stats, err := svc.Stats(ctx, ws)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"tasks": nonNil(tasks),
		"count": len(tasks),
		"stats": stats,
	}
	if ws != "" {
		payload["workspace"] = ws
	}
	return encodeResourceJSON(uri, payload)
}

func registerTaskTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"taskflow://tasks/{id}",
		"Task details",
		mcp.WithTemplateDescription("A single private task."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request, "id")
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}

		t, err := svc.GetTask(ctx, "", id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"task": t})
	})
}

func registerWorkspacesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taskflow://workspaces",
		"Workspaces",
		mcp.WithResourceDescription("Workspaces the signed-in user belongs to."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ws, err := svc.Workspaces(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"workspaces": ws,
			"count":      len(ws),
		})
	})
}

// argument reads a template variable. Depending on the matcher, values arrive as a
// string or a single-element slice.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
