package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Shughuli tracks Projects, Tasks and Teams for the signed-in user.

Core concepts:
- Project: owned by one user, optionally attached to a team. Status OPEN, ONGOING, COMPLETED or CANCELLED.
- Task: belongs to a project. Status BACKLOG, TODO, IN_PROGRESS, REVIEW, DONE or CANCELLED.
- Completing a project marks every task DONE in one step.

Suggested workflow:
1) Orient: call dashboard_summary for counts, overdue work and the agenda.
2) Browse: list_tasks (optionally for one project_id).
3) Act: update_task_status or complete_project.
4) Check the inbox with list_notifications.

Docs:
- shughuli://docs/statuses
- shughuli://docs/dashboard
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "shughuli://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Statuses and transitions",
		Description: "Project and task statuses and the rules that move between them.",
		Content: `# Statuses

## Project
OPEN and ONGOING move freely between each other and on to COMPLETED or
CANCELLED. A COMPLETED project can be reopened as ONGOING; a CANCELLED one
as OPEN. Only the owner can change a project. Completing it marks every
task DONE with progress 100 and sets the project end date. A completed
project cannot be completed again.

## Task
BACKLOG, TODO, IN_PROGRESS, REVIEW, DONE, CANCELLED.
Moving a task to DONE sets progress to 100 and records completion time.
Moving it out of DONE clears the completion time.
`,
	},
	{
		URI:         "shughuli://docs/dashboard",
		Name:        "docs_dashboard",
		Title:       "Dashboard summary",
		Description: "What dashboard_summary reports and how thresholds apply.",
		Content: `# Dashboard summary

- status_histogram: tasks per status for the user.
- completion_percentage and overdue_percentage over the user's tasks.
- overdue_tasks: unfinished tasks past their due date.
- todays_agenda: unfinished tasks due today.
- active_projects, due_soon_projects, overdue_projects: owned projects by
  schedule.

Thresholds are server configuration (due-soon days, overdue grace hours,
active and agenda limits).
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
