package repository

import (
	"context"

	"github.com/rpggio/shughuli/internal/model"
)

// UserRepository manages user persistence
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id string) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) error
	CompleteCascade(ctx context.Context, p *model.Project, tasks []model.Task) error
}

// TaskRepository manages task persistence
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	ListForUser(ctx context.Context, userID string) ([]model.Task, error)
}

// TeamRepository manages teams and their members
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	Get(ctx context.Context, id string) (*model.Team, error)
	GetBySlug(ctx context.Context, slug string) (*model.Team, error)
	ListForUser(ctx context.Context, userID string) ([]model.Team, error)
	AddMember(ctx context.Context, teamID string, m model.Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error
}

// InvitationRepository manages team invitations
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error
	GetInvitationByToken(ctx context.Context, token string) (*model.TeamInvitation, error)
	ListInvitations(ctx context.Context, teamID string) ([]model.TeamInvitation, error)
	AcceptInvitation(ctx context.Context, inv *model.TeamInvitation, m model.Member) error
}

// NotificationRepository manages notification persistence
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id string) (*model.Notification, error)
	List(ctx context.Context, userID string, opts ListNotificationsOptions) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListNotificationsOptions provides filtering options for listing notifications
type ListNotificationsOptions struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
