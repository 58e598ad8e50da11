package project

import (
	"context"

	"github.com/rpggio/shughuli/internal/model"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id string) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) error
}

// Cascader persists a completed project and its tasks as one unit.
// Repositories that implement it make Complete atomic.
type Cascader interface {
	CompleteCascade(ctx context.Context, p *model.Project, tasks []model.Task) error
}

// TaskRepository provides the task operations project completion needs.
type TaskRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	Update(ctx context.Context, t *model.Task) error
}

// TeamReader loads the team a project is attached to.
type TeamReader interface {
	Get(ctx context.Context, id string) (*model.Team, error)
}
