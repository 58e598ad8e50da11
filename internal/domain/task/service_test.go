package task_test

import (
	"context"
	"testing"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/domain/notification"
	"github.com/rpggio/shughuli/internal/domain/task"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/rpggio/shughuli/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) Emit(ctx context.Context, req notification.CreateRequest) {
	m.Called(ctx, req)
}

var (
	owner    = &model.Identity{UserID: "owner", Username: "amani"}
	assignee = &model.Identity{UserID: "assignee", Username: "zawadi"}
	stranger = &model.Identity{UserID: "stranger", Username: "juma"}
)

func strPtr(s string) *string { return &s }

func newService(tasks *mocks.TaskRepository, projects *mocks.ProjectRepository, teams task.TeamReader, notifier task.Notifier) *task.Service {
	return task.NewService(tasks, projects, teams, notifier, nil)
}

func TestTaskService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	notifier := &notifierMock{}

	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Create", ctx, mock.Anything).Return(nil)
	notifier.On("Emit", ctx, mock.MatchedBy(func(req notification.CreateRequest) bool {
		return req.UserID == "assignee" && req.Link != ""
	})).Return()

	svc := newService(tasks, projects, &mocks.TeamRepository{}, notifier)
	created, err := svc.Create(ctx, owner, task.CreateRequest{Title: "Draft brief", ProjectID: "p1", AssigneeID: "assignee"})
	require.NoError(t, err)
	require.Equal(t, model.TaskTodo, created.Status)
	require.Equal(t, model.PriorityMedium, created.Priority)
	require.Equal(t, "owner", created.CreatorID)
	notifier.AssertExpectations(t)
}

func TestTaskService_CreateDoneSetsCompletion(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Create", ctx, mock.Anything).Return(nil)

	svc := newService(tasks, projects, nil, &notifierMock{})
	created, err := svc.Create(ctx, owner, task.CreateRequest{Title: "Ship", ProjectID: "p1", Status: model.TaskDone})
	require.NoError(t, err)
	require.Equal(t, 100, created.Progress)
	require.NotNil(t, created.CompletedAt)
}

func TestTaskService_CreateByTeamMember(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	teams := &mocks.TeamRepository{}

	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner", TeamID: strPtr("team1")}, nil)
	teams.On("Get", ctx, "team1").Return(&model.Team{ID: "team1", Members: []model.Member{{UserID: "assignee"}}}, nil)
	tasks.On("Create", ctx, mock.Anything).Return(nil)

	svc := newService(tasks, projects, teams, &notifierMock{})
	_, err := svc.Create(ctx, assignee, task.CreateRequest{Title: "Review copy", ProjectID: "p1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, stranger, task.CreateRequest{Title: "Sneak in", ProjectID: "p1"})
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	projects.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
	tasks.On("Get", ctx, "other-parent").Return(&model.Task{ID: "other-parent", ProjectID: "p2"}, nil)

	svc := newService(tasks, projects, nil, &notifierMock{})

	_, err := svc.Create(ctx, owner, task.CreateRequest{Title: "", ProjectID: "p1"})
	require.ErrorIs(t, err, task.ErrInvalidInput)

	_, err = svc.Create(ctx, owner, task.CreateRequest{Title: "x", ProjectID: "p1", Priority: "SOMEDAY"})
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.Create(ctx, owner, task.CreateRequest{Title: "x", ProjectID: "missing"})
	require.ErrorIs(t, err, task.ErrProjectNotFound)

	_, err = svc.Create(ctx, owner, task.CreateRequest{Title: "x", ProjectID: "p1", ParentID: "other-parent"})
	require.ErrorIs(t, err, task.ErrParentMismatch)
}

func TestTaskService_GetVisibility(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	tasks.On("Get", ctx, "t1").Return(&model.Task{ID: "t1", CreatorID: "owner", AssigneeID: strPtr("assignee")}, nil)

	svc := newService(tasks, &mocks.ProjectRepository{}, nil, nil)

	_, err := svc.Get(ctx, assignee, "t1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger, "t1")
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	require.Equal(t, "Forbidden", apperr.MessageOf(err))

	_, err = svc.Get(ctx, nil, "t1")
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestTaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	tasks.On("Get", ctx, "t1").Return(&model.Task{ID: "t1", ProjectID: "p1", CreatorID: "someone", Status: model.TaskInProgress, Progress: 40}, nil)
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Update", ctx, mock.Anything).Return(nil)

	svc := newService(tasks, projects, nil, nil)

	done, err := svc.UpdateStatus(ctx, owner, "t1", model.TaskDone)
	require.NoError(t, err)
	require.Equal(t, 100, done.Progress)
	require.NotNil(t, done.CompletedAt)

	_, err = svc.UpdateStatus(ctx, owner, "t1", "WAITING")
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.UpdateStatus(ctx, stranger, "t1", model.TaskReview)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestTaskService_UpdateProgressOfDoneTask(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	tasks.On("Get", ctx, "done").Return(&model.Task{ID: "done", ProjectID: "p1", CreatorID: "owner", Status: model.TaskDone, Progress: 100}, nil)
	tasks.On("Get", ctx, "open").Return(&model.Task{ID: "open", ProjectID: "p1", CreatorID: "owner", Status: model.TaskTodo}, nil)
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Update", ctx, mock.Anything).Return(nil)

	svc := newService(tasks, projects, nil, nil)

	progress := 40
	_, err := svc.Update(ctx, owner, "done", task.UpdateRequest{Progress: &progress})
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))
	tasks.AssertNotCalled(t, "Update", ctx, mock.Anything)

	updated, err := svc.Update(ctx, owner, "open", task.UpdateRequest{Progress: &progress})
	require.NoError(t, err)
	require.Equal(t, 40, updated.Progress)
}

func TestTaskService_AssignNotifiesNewAssignee(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	notifier := &notifierMock{}

	tasks.On("Get", ctx, "t1").Return(&model.Task{ID: "t1", ProjectID: "p1", CreatorID: "owner", Title: "Draft brief"}, nil)
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Update", ctx, mock.MatchedBy(func(t *model.Task) bool { return t.IsAssignedTo("assignee") })).Return(nil)
	notifier.On("Emit", ctx, mock.MatchedBy(func(req notification.CreateRequest) bool {
		return req.UserID == "assignee" && req.Link == "/tasks/t1"
	})).Return().Once()

	svc := newService(tasks, projects, nil, notifier)
	updated, err := svc.Assign(ctx, owner, "t1", "assignee")
	require.NoError(t, err)
	require.True(t, updated.IsAssignedTo("assignee"))
	notifier.AssertExpectations(t)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	tasks.On("Get", ctx, "t1").Return(&model.Task{ID: "t1", ProjectID: "p1", CreatorID: "someone", AssigneeID: strPtr("assignee")}, nil)
	projects.On("Get", ctx, "p1").Return(&model.Project{ID: "p1", OwnerID: "owner"}, nil)
	tasks.On("Delete", ctx, "t1").Return(nil)

	svc := newService(tasks, projects, nil, nil)

	err := svc.Delete(ctx, assignee, "t1")
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(ctx, owner, "t1"))
}
