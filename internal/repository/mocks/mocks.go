package mocks

import (
	"context"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	args := m.Called(ctx, slug)
	if p, ok := args.Get(0).(*model.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]model.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) CompleteCascade(ctx context.Context, p *model.Project, tasks []model.Task) error {
	args := m.Called(ctx, p, tasks)
	return args.Error(0)
}

// TaskRepository is a mock for repository.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*model.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]model.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListForUser(ctx context.Context, userID string) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]model.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TeamRepository is a mock for repository.TeamRepository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *TeamRepository) Get(ctx context.Context, id string) (*model.Team, error) {
	args := m.Called(ctx, id)
	if team, ok := args.Get(0).(*model.Team); ok {
		return team, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) GetBySlug(ctx context.Context, slug string) (*model.Team, error) {
	args := m.Called(ctx, slug)
	if team, ok := args.Get(0).(*model.Team); ok {
		return team, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) ListForUser(ctx context.Context, userID string) ([]model.Team, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]model.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) AddMember(ctx context.Context, teamID string, member model.Member) error {
	args := m.Called(ctx, teamID, member)
	return args.Error(0)
}

func (m *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// InvitationRepository is a mock for repository.InvitationRepository.
type InvitationRepository struct {
	mock.Mock
}

func (m *InvitationRepository) CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InvitationRepository) GetInvitationByToken(ctx context.Context, token string) (*model.TeamInvitation, error) {
	args := m.Called(ctx, token)
	if inv, ok := args.Get(0).(*model.TeamInvitation); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvitationRepository) ListInvitations(ctx context.Context, teamID string) ([]model.TeamInvitation, error) {
	args := m.Called(ctx, teamID)
	if list, ok := args.Get(0).([]model.TeamInvitation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvitationRepository) AcceptInvitation(ctx context.Context, inv *model.TeamInvitation, member model.Member) error {
	args := m.Called(ctx, inv, member)
	return args.Error(0)
}

// NotificationRepository is a mock for repository.NotificationRepository.
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) Get(ctx context.Context, id string) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*model.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) List(ctx context.Context, userID string, opts repository.ListNotificationsOptions) ([]model.Notification, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]model.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
