package team

import (
	"context"

	"github.com/rpggio/shughuli/internal/domain/notification"
	"github.com/rpggio/shughuli/internal/model"
)

// Repository provides persistence for teams and their members.
type Repository interface {
	Create(ctx context.Context, team *model.Team) error
	Get(ctx context.Context, id string) (*model.Team, error)
	GetBySlug(ctx context.Context, slug string) (*model.Team, error)
	ListForUser(ctx context.Context, userID string) ([]model.Team, error)
	RemoveMember(ctx context.Context, teamID, userID string) error
}

// InvitationRepository provides persistence for team invitations.
type InvitationRepository interface {
	CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error
	GetInvitationByToken(ctx context.Context, token string) (*model.TeamInvitation, error)
	ListInvitations(ctx context.Context, teamID string) ([]model.TeamInvitation, error)
	AcceptInvitation(ctx context.Context, inv *model.TeamInvitation, m model.Member) error
}

// UserReader looks up accounts referenced by invitations.
type UserReader interface {
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	Emit(ctx context.Context, req notification.CreateRequest)
}
