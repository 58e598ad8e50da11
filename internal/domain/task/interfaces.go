package task

import (
	"context"

	"github.com/rpggio/shughuli/internal/domain/notification"
	"github.com/rpggio/shughuli/internal/model"
)

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	ListForUser(ctx context.Context, userID string) ([]model.Task, error)
}

// ProjectReader loads the project a task belongs to.
type ProjectReader interface {
	Get(ctx context.Context, id string) (*model.Project, error)
}

// TeamReader loads the team a project belongs to.
type TeamReader interface {
	Get(ctx context.Context, id string) (*model.Team, error)
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	Emit(ctx context.Context, req notification.CreateRequest)
}
