package notification

import (
	"context"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// Repository provides persistence operations for notifications.
type Repository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id string) (*model.Notification, error)
	List(ctx context.Context, userID string, opts repository.ListNotificationsOptions) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}
