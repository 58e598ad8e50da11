package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_ForActor(t *testing.T) {
	ctx := context.Background()
	actor := &model.Identity{UserID: "u1", Username: "wanjiku"}

	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	tasks.On("ListForUser", ctx, "u1").Return([]model.Task{
		{ID: "t1", Status: model.TaskDone},
		{ID: "t2", Status: model.TaskTodo, DueDate: at(now.Add(-48 * time.Hour))},
	}, nil)
	projects.On("ListByOwner", ctx, "u1").Return([]model.Project{
		{ID: "p1", Status: model.ProjectOngoing, DueDate: now.Add(2 * 24 * time.Hour), UpdatedAt: now},
	}, nil)

	svc := dashboard.NewService(tasks, projects, dashboard.DefaultThresholds(), nil)
	summary, err := svc.ForActor(ctx, actor, now)
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalTasks)
	require.Equal(t, 50, summary.CompletionPercentage)
	require.Len(t, summary.OverdueTasks, 1)
	require.Len(t, summary.ActiveProjects, 1)
	require.Len(t, summary.DueSoonProjects, 1)
	require.Empty(t, summary.OverdueProjects)
	require.Len(t, summary.StatusHistogram, 7)
}

func TestDashboardService_NoActor(t *testing.T) {
	svc := dashboard.NewService(&mocks.TaskRepository{}, &mocks.ProjectRepository{}, dashboard.DefaultThresholds(), nil)
	_, err := svc.ForActor(context.Background(), nil, now)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestDashboardService_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	tasks.On("ListForUser", ctx, "u1").Return(nil, errors.New("disk I/O error"))

	svc := dashboard.NewService(tasks, &mocks.ProjectRepository{}, dashboard.DefaultThresholds(), nil)
	_, err := svc.ForActor(ctx, &model.Identity{UserID: "u1"}, now)
	require.True(t, apperr.Is(err, apperr.KindInternal))
	require.Equal(t, "load dashboard tasks failed", apperr.MessageOf(err))
}

func TestDashboardService_ForProject(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	tasks.On("ListByProject", ctx, "p1").Return([]model.Task{
		{ProjectID: "p1", Status: model.TaskDone},
		{ProjectID: "p1", Status: model.TaskDone},
		{ProjectID: "p1", Status: model.TaskReview},
		{ProjectID: "p1", Status: model.TaskTodo},
	}, nil)

	svc := dashboard.NewService(tasks, &mocks.ProjectRepository{}, dashboard.DefaultThresholds(), nil)
	summary, err := svc.ForProject(ctx, &model.Project{ID: "p1", Status: model.ProjectOngoing}, now)
	require.NoError(t, err)
	require.Equal(t, 50, summary.Progress)
	require.Equal(t, 1, summary.StatusHistogram[model.TaskReview])
}
