package dashboard_test

import (
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestAggregates_EmptyInput(t *testing.T) {
	require.Equal(t, 0, dashboard.CompletionPercentage(nil))
	require.Equal(t, 0, dashboard.OverduePercentage(nil, now))
	require.Empty(t, dashboard.OverdueTasks(nil, now))
	require.Empty(t, dashboard.TodaysAgenda(nil, now, 3))
	require.Empty(t, dashboard.ActiveProjects(nil, 3))
	require.Empty(t, dashboard.DueSoon(nil, now, dashboard.DefaultDueSoonWindow))
	require.Empty(t, dashboard.ProjectOverdue(nil, now, dashboard.DefaultOverdueGrace))

	hist := dashboard.StatusHistogram(nil)
	require.Len(t, hist, 7)
	for _, s := range model.AllTaskStatuses() {
		require.Equal(t, 0, hist[s])
	}
}

func TestCompletionPercentage_Rounds(t *testing.T) {
	tasks := []model.Task{
		{Status: model.TaskDone},
		{Status: model.TaskTodo},
		{Status: model.TaskTodo},
	}
	require.Equal(t, 33, dashboard.CompletionPercentage(tasks))

	tasks = append(tasks, model.Task{Status: model.TaskDone}, model.Task{Status: model.TaskDone})
	require.Equal(t, 60, dashboard.CompletionPercentage(tasks))
}

func TestCompletionPercentage_Bounds(t *testing.T) {
	statuses := model.AllTaskStatuses()
	for n := 0; n < 30; n++ {
		var tasks []model.Task
		for i := 0; i < n; i++ {
			tasks = append(tasks, model.Task{Status: statuses[(i*n)%len(statuses)]})
		}
		pct := dashboard.CompletionPercentage(tasks)
		require.GreaterOrEqual(t, pct, 0)
		require.LessOrEqual(t, pct, 100)

		total := 0
		for _, count := range dashboard.StatusHistogram(tasks) {
			total += count
		}
		require.Equal(t, len(tasks), total)
	}
}

func TestProjectScenario(t *testing.T) {
	tasks := []model.Task{
		{ID: "done-1", Status: model.TaskDone},
		{ID: "done-2", Status: model.TaskDone, DueDate: at(now.Add(-72 * time.Hour))},
		{ID: "late", Status: model.TaskTodo, DueDate: at(now.AddDate(0, 0, -1))},
		{ID: "today", Status: model.TaskInProgress, DueDate: at(time.Date(2026, 4, 10, 17, 30, 0, 0, time.UTC))},
	}

	require.Equal(t, 50, dashboard.CompletionPercentage(tasks))

	overdue := dashboard.OverdueTasks(tasks, now)
	require.Len(t, overdue, 1)
	require.Equal(t, "late", overdue[0].ID)
	require.Equal(t, 25, dashboard.OverduePercentage(tasks, now))

	agenda := dashboard.TodaysAgenda(tasks, now, 3)
	require.Len(t, agenda, 1)
	require.Equal(t, "today", agenda[0].ID)

	hist := dashboard.StatusHistogram(tasks)
	require.Equal(t, 2, hist[model.TaskDone])
	require.Equal(t, 1, hist[model.TaskTodo])
	require.Equal(t, 1, hist[model.TaskInProgress])
	require.Equal(t, 0, hist[model.TaskArchived])
}

func TestTodaysAgenda_DateOnlyAndLimit(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	today := time.Date(2026, 4, 10, 1, 0, 0, 0, nairobi)

	tasks := []model.Task{
		{ID: "a", Status: model.TaskTodo, DueDate: at(time.Date(2026, 4, 9, 22, 0, 0, 0, time.UTC))}, // 01:00 EAT on the 10th
		{ID: "b", Status: model.TaskTodo, DueDate: at(time.Date(2026, 4, 10, 23, 59, 0, 0, nairobi))},
		{ID: "c", Status: model.TaskDone, DueDate: at(time.Date(2026, 4, 10, 8, 0, 0, 0, nairobi))},
		{ID: "d", Status: model.TaskReview, DueDate: at(time.Date(2026, 4, 10, 9, 0, 0, 0, nairobi))},
		{ID: "e", Status: model.TaskBacklog, DueDate: at(time.Date(2026, 4, 10, 10, 0, 0, 0, nairobi))},
		{ID: "f", Status: model.TaskTodo, DueDate: at(time.Date(2026, 4, 11, 0, 0, 0, 0, nairobi))},
		{ID: "g", Status: model.TaskTodo},
	}

	agenda := dashboard.TodaysAgenda(tasks, today, 3)
	require.Len(t, agenda, 3)
	require.Equal(t, "a", agenda[0].ID)
	require.Equal(t, "b", agenda[1].ID)
	require.Equal(t, "d", agenda[2].ID)
}

func TestActiveProjects(t *testing.T) {
	projects := []model.Project{
		{ID: "old", Status: model.ProjectOpen, UpdatedAt: now.Add(-5 * time.Hour)},
		{ID: "done", Status: model.ProjectCompleted, UpdatedAt: now},
		{ID: "newest", Status: model.ProjectOngoing, UpdatedAt: now.Add(-1 * time.Hour)},
		{ID: "cancelled", Status: model.ProjectCancelled, UpdatedAt: now},
		{ID: "mid", Status: model.ProjectOpen, UpdatedAt: now.Add(-3 * time.Hour)},
		{ID: "oldest", Status: model.ProjectOngoing, UpdatedAt: now.Add(-9 * time.Hour)},
	}

	active := dashboard.ActiveProjects(projects, 3)
	require.Len(t, active, 3)
	require.Equal(t, []string{"newest", "mid", "old"}, []string{active[0].ID, active[1].ID, active[2].ID})
	for i := range active {
		require.NotEqual(t, model.ProjectCompleted, active[i].Status)
		require.NotEqual(t, model.ProjectCancelled, active[i].Status)
		if i > 0 {
			require.False(t, active[i].UpdatedAt.After(active[i-1].UpdatedAt))
		}
	}

	require.Len(t, dashboard.ActiveProjects(projects, 10), 4)
	require.Empty(t, dashboard.ActiveProjects(projects, 0))
}

func TestDueSoonAndOverdue_AsymmetricThresholds(t *testing.T) {
	projects := []model.Project{
		{ID: "in-3-days", Status: model.ProjectOpen, DueDate: now.Add(3 * 24 * time.Hour)},
		{ID: "in-7-days", Status: model.ProjectOpen, DueDate: now.Add(7 * 24 * time.Hour)},
		{ID: "in-8-days", Status: model.ProjectOpen, DueDate: now.Add(8 * 24 * time.Hour)},
		{ID: "12h-ago", Status: model.ProjectOngoing, DueDate: now.Add(-12 * time.Hour)},
		{ID: "2-days-ago", Status: model.ProjectOngoing, DueDate: now.Add(-48 * time.Hour)},
		{ID: "completed-late", Status: model.ProjectCompleted, DueDate: now.Add(-48 * time.Hour)},
	}

	soon := ids(dashboard.DueSoon(projects, now, dashboard.DefaultDueSoonWindow))
	require.Equal(t, []string{"in-3-days", "in-7-days", "12h-ago", "2-days-ago"}, soon)

	overdue := ids(dashboard.ProjectOverdue(projects, now, dashboard.DefaultOverdueGrace))
	require.Equal(t, []string{"2-days-ago"}, overdue)
}

func TestProjectProgress(t *testing.T) {
	p := model.Project{ID: "p1", Status: model.ProjectOngoing, Progress: 10}
	require.Equal(t, 10, dashboard.ProjectProgress(p, nil))

	tasks := []model.Task{
		{ProjectID: "p1", Status: model.TaskDone},
		{ProjectID: "p1", Status: model.TaskTodo},
		{ProjectID: "p2", Status: model.TaskDone},
	}
	require.Equal(t, 50, dashboard.ProjectProgress(p, tasks))

	p.Status = model.ProjectCompleted
	require.Equal(t, 100, dashboard.ProjectProgress(p, tasks))
}

func ids(projects []model.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}
