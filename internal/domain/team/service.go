package team

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/authz"
	"github.com/rpggio/shughuli/internal/domain/notification"
	"github.com/rpggio/shughuli/internal/lifecycle"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/rpggio/shughuli/internal/slug"
)

const tokenBytes = 32

// Service handles teams, members and invitations.
type Service struct {
	repo        Repository
	invitations InvitationRepository
	users       UserReader
	notifier    Notifier
	inviteTTL   time.Duration
	logger      *slog.Logger
}

// NewService creates a new team service. A non-positive inviteTTL makes
// invitations never expire.
func NewService(repo Repository, invitations InvitationRepository, users UserReader, notifier Notifier, inviteTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invitations: invitations,
		users:       users,
		notifier:    notifier,
		inviteTTL:   inviteTTL,
		logger:      logger,
	}
}

// CreateRequest defines team creation inputs.
type CreateRequest struct {
	Name        string
	Description string
}

// Create creates a team. The actor becomes its owner and lead.
func (s *Service) Create(ctx context.Context, actor *model.Identity, req CreateRequest) (*model.Team, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	teamSlug, err := slug.Unique(ctx, slug.Make(name), "team", s.slugTaken)
	if err != nil {
		return nil, apperr.Internal("create team", err)
	}

	now := time.Now()
	lead := actor.UserID
	t := &model.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        teamSlug,
		Description: req.Description,
		OwnerID:     actor.UserID,
		LeadID:      &lead,
		Members:     []model.Member{{UserID: actor.UserID, Role: model.TeamRoleLead, JoinedAt: now}},
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.New(apperr.KindConflict, "A team with this slug already exists")
		}
		return nil, apperr.Internal("create team", err)
	}
	return t, nil
}

func (s *Service) slugTaken(ctx context.Context, candidate string) (bool, error) {
	_, err := s.repo.GetBySlug(ctx, candidate)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Get fetches a team the actor belongs to.
func (s *Service) Get(ctx context.Context, actor *model.Identity, id string) (*model.Team, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewTeam(actor, t); !d.Allowed {
		return nil, d.Err()
	}
	return t, nil
}

// ListForUser returns the teams the actor belongs to.
func (s *Service) ListForUser(ctx context.Context, actor *model.Identity) ([]model.Team, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	teams, err := s.repo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("list teams", err)
	}
	return teams, nil
}

// InviteRequest defines invitation inputs.
type InviteRequest struct {
	TeamID string
	Email  string
	Role   model.TeamRole
}

// Invite creates an invitation for an email address. When an account with
// that address exists its owner is notified in-app.
func (s *Service) Invite(ctx context.Context, actor *model.Identity, req InviteRequest) (*model.TeamInvitation, error) {
	t, err := s.load(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanCreateInvitation(actor, t); !d.Allowed {
		return nil, d.Err()
	}

	role := req.Role
	if role == "" {
		role = model.DefaultTeamRole
	}
	if !role.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Unknown team role %q", role)
	}

	email := authz.NormalizeEmail(req.Email)
	var existing *model.User
	if email != "" {
		existing, err = s.users.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("create invitation", err)
		}
	}

	current, err := s.invitations.ListInvitations(ctx, t.ID)
	if err != nil {
		return nil, apperr.Internal("create invitation", err)
	}

	now := time.Now()
	if d := authz.ValidateInvitationTarget(t, email, existing, current, now); !d.Allowed {
		return nil, d.Err()
	}

	token, err := newToken()
	if err != nil {
		return nil, apperr.Internal("create invitation", err)
	}

	inv := &model.TeamInvitation{
		ID:          uuid.NewString(),
		TeamID:      t.ID,
		Email:       email,
		InvitedByID: actor.UserID,
		Role:        role,
		Token:       token,
		ExpiresAt:   lifecycle.InvitationExpiry(now, s.inviteTTL),
		CreatedAt:   now,
	}
	if err := s.invitations.CreateInvitation(ctx, inv); err != nil {
		return nil, apperr.Internal("create invitation", err)
	}

	if existing != nil && s.notifier != nil {
		s.notifier.Emit(ctx, notification.CreateRequest{
			UserID:  existing.ID,
			Title:   "Team invitation",
			Message: fmt.Sprintf("%s invited you to join %s", actor.Username, t.Name),
			Link:    "/invitations/" + token,
		})
	}
	if s.logger != nil {
		s.logger.Info("team invitation created", "team_id", t.ID, "invitation_id", inv.ID)
	}
	return inv, nil
}

// Accept adds the actor to the invitation's team.
func (s *Service) Accept(ctx context.Context, actor *model.Identity, token string) (*model.Team, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}

	inv, err := s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, apperr.Internal("accept invitation", err)
	}

	u, err := s.users.Get(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
		}
		return nil, apperr.Internal("accept invitation", err)
	}
	if d := authz.CanAcceptInvitation(actor, u.Email, inv); !d.Allowed {
		return nil, d.Err()
	}

	now := time.Now()
	accepted, err := lifecycle.AcceptInvitation(*inv, now)
	if err != nil {
		return nil, err
	}

	t, err := s.load(ctx, inv.TeamID)
	if err != nil {
		return nil, err
	}
	member := model.Member{UserID: actor.UserID, Role: inv.Role, JoinedAt: now}
	if t.IsMember(actor.UserID) {
		return nil, apperr.Newf(apperr.KindConflict, "%s is already a member of this team", u.Username)
	}

	if err := s.invitations.AcceptInvitation(ctx, &accepted, member); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, lifecycle.ErrInvitationAccepted
		}
		return nil, apperr.Internal("accept invitation", err)
	}
	t.Members = append(t.Members, member)
	return t, nil
}

// ListInvitations returns every invitation of a team the actor manages.
func (s *Service) ListInvitations(ctx context.Context, actor *model.Identity, teamID string) ([]model.TeamInvitation, error) {
	t, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanManageMembers(actor, t); !d.Allowed {
		return nil, d.Err()
	}
	list, err := s.invitations.ListInvitations(ctx, t.ID)
	if err != nil {
		return nil, apperr.Internal("list invitations", err)
	}
	return list, nil
}

// RemoveMember removes userID from a team the actor manages.
func (s *Service) RemoveMember(ctx context.Context, actor *model.Identity, teamID, userID string) error {
	t, err := s.load(ctx, teamID)
	if err != nil {
		return err
	}
	if d := authz.CanManageMembers(actor, t); !d.Allowed {
		return d.Err()
	}
	if userID == t.OwnerID {
		return ErrRemoveOwner
	}
	if !t.IsMember(userID) {
		return apperr.New(apperr.KindNotFound, "Member not found")
	}
	if err := s.repo.RemoveMember(ctx, t.ID, userID); err != nil {
		return apperr.Internal("remove member", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*model.Team, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, apperr.Internal("get team", err)
	}
	return t, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
