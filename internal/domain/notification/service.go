package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/authz"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

const defaultListLimit = 50

// Service handles notification operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines notification inputs.
type CreateRequest struct {
	UserID  string
	Title   string
	Message string
	Link    string
}

// Create stores a notification for a user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Notification, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}

	n := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	if req.Link != "" {
		link := req.Link
		n.Link = &link
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperr.Internal("create notification", err)
	}
	return n, nil
}

// Emit creates a notification and only logs failures.
func (s *Service) Emit(ctx context.Context, req CreateRequest) {
	if _, err := s.Create(ctx, req); err != nil && s.logger != nil {
		s.logger.Warn("notification not delivered", "user_id", req.UserID, "title", req.Title, "error", err)
	}
}

// List returns the actor's notifications, newest first.
func (s *Service) List(ctx context.Context, actor *model.Identity, opts repository.ListNotificationsOptions) ([]model.Notification, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	list, err := s.repo.List(ctx, actor.UserID, opts)
	if err != nil {
		return nil, apperr.Internal("list notifications", err)
	}
	return list, nil
}

// MarkRead marks one of the actor's notifications as read.
func (s *Service) MarkRead(ctx context.Context, actor *model.Identity, id string) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return apperr.Internal("get notification", err)
	}
	if d := authz.CanViewNotification(actor, n); !d.Allowed {
		return d.Err()
	}
	if n.IsRead {
		return nil
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return apperr.Internal("mark notification read", err)
	}
	return nil
}

// MarkAllRead marks every notification of the actor as read.
func (s *Service) MarkAllRead(ctx context.Context, actor *model.Identity) (int64, error) {
	if actor == nil {
		return 0, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, apperr.Internal("mark notifications read", err)
	}
	return n, nil
}

// UnreadCount returns the number of unread notifications of the actor.
func (s *Service) UnreadCount(ctx context.Context, actor *model.Identity) (int, error) {
	if actor == nil {
		return 0, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	n, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, apperr.Internal("count notifications", err)
	}
	return n, nil
}
