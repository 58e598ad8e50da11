package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shughuli/internal/breadcrumb"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

type dashboardSummaryInput struct{}

type listTasksInput struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID; omit to list tasks you created or are assigned"`
}

type listTasksOutput struct {
	Tasks []model.Task `json:"tasks"`
}

type updateTaskStatusInput struct {
	TaskID string           `json:"task_id" jsonschema:"Task ID"`
	Status model.TaskStatus `json:"status" jsonschema:"New status: BACKLOG, TODO, IN_PROGRESS, REVIEW, DONE or CANCELLED"`
}

type completeProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type resolveBreadcrumbsInput struct {
	Path string `json:"path" jsonschema:"Slash-delimited route path such as /dashboard/projects/42"`
}

type resolveBreadcrumbsOutput struct {
	Crumbs []breadcrumb.Crumb `json:"crumbs"`
}

type listNotificationsInput struct {
	UnreadOnly bool `json:"unread_only,omitempty" jsonschema:"Only return unread notifications"`
	Limit      int  `json:"limit,omitempty" jsonschema:"Maximum number of notifications"`
}

type listNotificationsOutput struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

func registerTools(server *sdkmcp.Server, svc Services, now func() time.Time) {
	if svc.Dashboard != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "dashboard_summary",
			Description: "Summarize your tasks and owned projects: status counts, overdue work, today's agenda and project schedule",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ dashboardSummaryInput) (*sdkmcp.CallToolResult, any, error) {
			summary, err := svc.Dashboard.ForActor(ctx, identityFrom(ctx), now())
			if err != nil {
				return nil, nil, MapError(err)
			}
			return nil, summary, nil
		})
	}

	if svc.Tasks != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_tasks",
			Description: "List tasks in a project you own, or your own tasks when no project is given",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listTasksInput) (*sdkmcp.CallToolResult, any, error) {
			actor := identityFrom(ctx)
			var (
				tasks []model.Task
				err   error
			)
			if in.ProjectID != "" {
				tasks, err = svc.Tasks.ListForProject(ctx, actor, in.ProjectID)
			} else {
				tasks, err = svc.Tasks.ListForUser(ctx, actor)
			}
			if err != nil {
				return nil, nil, MapError(err)
			}
			return nil, listTasksOutput{Tasks: tasks}, nil
		})

		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "update_task_status",
			Description: "Move a task to a new status. DONE sets progress to 100",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateTaskStatusInput) (*sdkmcp.CallToolResult, any, error) {
			t, err := svc.Tasks.UpdateStatus(ctx, identityFrom(ctx), in.TaskID, in.Status)
			if err != nil {
				return nil, nil, MapError(err)
			}
			return nil, t, nil
		})
	}

	if svc.Projects != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "complete_project",
			Description: "Mark a project COMPLETED and every one of its tasks DONE",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in completeProjectInput) (*sdkmcp.CallToolResult, any, error) {
			p, err := svc.Projects.Complete(ctx, identityFrom(ctx), in.ProjectID)
			if err != nil {
				return nil, nil, MapError(err)
			}
			return nil, p, nil
		})
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_breadcrumbs",
		Description: "Turn a route path into labelled breadcrumbs",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, in resolveBreadcrumbsInput) (*sdkmcp.CallToolResult, any, error) {
		return nil, resolveBreadcrumbsOutput{Crumbs: breadcrumb.Build(in.Path)}, nil
	})

	if svc.Notifications != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_notifications",
			Description: "List your notifications, newest first, with the unread count",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listNotificationsInput) (*sdkmcp.CallToolResult, any, error) {
			actor := identityFrom(ctx)
			list, err := svc.Notifications.List(ctx, actor, repository.ListNotificationsOptions{
				UnreadOnly: in.UnreadOnly,
				Limit:      in.Limit,
			})
			if err != nil {
				return nil, nil, MapError(err)
			}
			unread, err := svc.Notifications.UnreadCount(ctx, actor)
			if err != nil {
				return nil, nil, MapError(err)
			}
			return nil, listNotificationsOutput{Notifications: list, Unread: unread}, nil
		})
	}
}
