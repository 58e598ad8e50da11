package lifecycle_test

import (
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/lifecycle"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestValidateProjectTransition(t *testing.T) {
	require.NoError(t, lifecycle.ValidateProjectTransition(model.ProjectOpen, model.ProjectOngoing))
	require.NoError(t, lifecycle.ValidateProjectTransition(model.ProjectOngoing, model.ProjectCompleted))
	require.NoError(t, lifecycle.ValidateProjectTransition(model.ProjectCompleted, model.ProjectOngoing))

	err := lifecycle.ValidateProjectTransition(model.ProjectCompleted, model.ProjectCompleted)
	require.True(t, apperr.Is(err, apperr.KindConflict))
	require.Equal(t, "Project is already completed", apperr.MessageOf(err))

	err = lifecycle.ValidateProjectTransition(model.ProjectCancelled, model.ProjectCompleted)
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))

	err = lifecycle.ValidateProjectTransition(model.ProjectOpen, "ARCHIVED")
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestCompleteProject_CascadesToTasks(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)
	proj := model.Project{ID: "p1", Status: model.ProjectOngoing, Progress: 40}
	tasks := []model.Task{
		{ID: "t1", ProjectID: "p1", Status: model.TaskTodo, Progress: 0},
		{ID: "t2", ProjectID: "p1", Status: model.TaskInProgress, Progress: 60},
		{ID: "t3", ProjectID: "p1", Status: model.TaskDone, Progress: 100, CompletedAt: &earlier},
	}

	done, updated, err := lifecycle.CompleteProject(proj, tasks, now)
	require.NoError(t, err)
	require.Equal(t, model.ProjectCompleted, done.Status)
	require.Equal(t, 100, done.Progress)
	require.NotNil(t, done.EndDate)
	require.Len(t, updated, 3)
	for _, task := range updated {
		require.Equal(t, model.TaskDone, task.Status)
		require.Equal(t, 100, task.Progress)
		require.NotNil(t, task.CompletedAt)
	}
	require.Equal(t, earlier, *updated[2].CompletedAt)

	// inputs are untouched
	require.Equal(t, model.ProjectOngoing, proj.Status)
	require.Equal(t, model.TaskTodo, tasks[0].Status)
}

func TestCompleteProject_AlreadyCompleted(t *testing.T) {
	_, _, err := lifecycle.CompleteProject(model.Project{Status: model.ProjectCompleted}, nil, now)
	require.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestApplyTaskStatus(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.TaskTodo, Progress: 30}

	done, err := lifecycle.ApplyTaskStatus(task, model.TaskDone, now)
	require.NoError(t, err)
	require.Equal(t, 100, done.Progress)
	require.NotNil(t, done.CompletedAt)

	reopened, err := lifecycle.ApplyTaskStatus(done, model.TaskReview, now)
	require.NoError(t, err)
	require.Equal(t, model.TaskReview, reopened.Status)
	require.Nil(t, reopened.CompletedAt)

	_, err = lifecycle.ApplyTaskStatus(task, "FINISHED", now)
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestClampProgress(t *testing.T) {
	require.Equal(t, 0, lifecycle.ClampProgress(-5))
	require.Equal(t, 55, lifecycle.ClampProgress(55))
	require.Equal(t, 100, lifecycle.ClampProgress(130))
}

func TestSetTaskProgress(t *testing.T) {
	open := model.Task{ID: "t1", Status: model.TaskInProgress, Progress: 20}
	got, err := lifecycle.SetTaskProgress(open, 150, now)
	require.NoError(t, err)
	require.Equal(t, 100, got.Progress)
	require.Equal(t, now, got.UpdatedAt)

	done := model.Task{ID: "t2", Status: model.TaskDone, Progress: 100}
	_, err = lifecycle.SetTaskProgress(done, 40, now)
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))

	got, err = lifecycle.SetTaskProgress(done, 120, now)
	require.NoError(t, err)
	require.Equal(t, 100, got.Progress)
}

func TestAcceptInvitation(t *testing.T) {
	inv := model.TeamInvitation{
		ID:        "i1",
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: lifecycle.InvitationExpiry(now.Add(-time.Hour), 24*time.Hour),
	}
	require.Equal(t, lifecycle.InvitationPending, lifecycle.InvitationStateAt(&inv, now))

	accepted, err := lifecycle.AcceptInvitation(inv, now)
	require.NoError(t, err)
	require.True(t, accepted.Accepted)
	require.NotNil(t, accepted.AcceptedAt)

	_, err = lifecycle.AcceptInvitation(accepted, now)
	require.ErrorIs(t, err, lifecycle.ErrInvitationAccepted)

	_, err = lifecycle.AcceptInvitation(inv, now.Add(48*time.Hour))
	require.ErrorIs(t, err, lifecycle.ErrInvitationExpired)
}

func TestInvitationExpiry_Disabled(t *testing.T) {
	require.Nil(t, lifecycle.InvitationExpiry(now, 0))

	inv := model.TeamInvitation{CreatedAt: now.AddDate(-1, 0, 0)}
	require.Equal(t, lifecycle.InvitationPending, lifecycle.InvitationStateAt(&inv, now))
}
