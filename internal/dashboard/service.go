package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

// TaskRepository lists the tasks an actor works on.
type TaskRepository interface {
	ListForUser(ctx context.Context, userID string) ([]model.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
}

// ProjectRepository lists the projects an actor owns.
type ProjectRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error)
}

// Service loads an actor's entities and summarizes them.
type Service struct {
	tasks      TaskRepository
	projects   ProjectRepository
	thresholds Thresholds
	logger     *slog.Logger
}

// NewService creates a new dashboard service.
func NewService(tasks TaskRepository, projects ProjectRepository, thresholds Thresholds, logger *slog.Logger) *Service {
	return &Service{tasks: tasks, projects: projects, thresholds: thresholds, logger: logger}
}

// ProjectSummary is the per-project dashboard view.
type ProjectSummary struct {
	Project              model.Project            `json:"project"`
	Progress             int                      `json:"progress"`
	CompletionPercentage int                      `json:"completion_percentage"`
	OverdueTasks         []model.Task             `json:"overdue_tasks"`
	StatusHistogram      map[model.TaskStatus]int `json:"status_histogram"`
}

// ForActor summarizes the actor's tasks and owned projects at now.
func (s *Service) ForActor(ctx context.Context, actor *model.Identity, now time.Time) (*Summary, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}

	tasks, err := s.tasks.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("load dashboard tasks", err)
	}
	projects, err := s.projects.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("load dashboard projects", err)
	}

	summary := Summarize(tasks, projects, now, s.thresholds)
	return &summary, nil
}

// ForProject summarizes one project the caller has already been allowed to view.
func (s *Service) ForProject(ctx context.Context, p *model.Project, now time.Time) (*ProjectSummary, error) {
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("load project tasks", err)
	}
	return &ProjectSummary{
		Project:              *p,
		Progress:             ProjectProgress(*p, tasks),
		CompletionPercentage: CompletionPercentage(tasks),
		OverdueTasks:         OverdueTasks(tasks, now),
		StatusHistogram:      StatusHistogram(tasks),
	}, nil
}
