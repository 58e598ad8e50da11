package project

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/authz"
	"github.com/rpggio/shughuli/internal/lifecycle"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/rpggio/shughuli/internal/slug"
)

// Service handles project operations.
type Service struct {
	repo    Repository
	tasks   TaskRepository
	teams   TeamReader
	cascade Cascader
	logger  *slog.Logger
}

// NewService creates a new project service. When repo also implements
// Cascader, Complete persists through it.
func NewService(repo Repository, tasks TaskRepository, teams TeamReader, logger *slog.Logger) *Service {
	s := &Service{repo: repo, tasks: tasks, teams: teams, logger: logger}
	if c, ok := repo.(Cascader); ok {
		s.cascade = c
	}
	return s
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
	TeamID      string
	IsPublic    bool
	StartDate   time.Time
	DueDate     time.Time
}

// Create creates a new project owned by the actor.
func (s *Service) Create(ctx context.Context, actor *model.Identity, req CreateRequest) (*model.Project, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if !req.DueDate.IsZero() && !req.StartDate.IsZero() && req.DueDate.Before(req.StartDate) {
		return nil, apperr.New(apperr.KindInvalidInput, "Due date must not be before start date")
	}
	if req.TeamID != "" {
		if err := s.checkTeam(ctx, actor, req.TeamID); err != nil {
			return nil, err
		}
	}

	projectSlug, err := slug.Unique(ctx, slug.Make(name), "project", s.slugTaken)
	if err != nil {
		return nil, apperr.Internal("create project", err)
	}

	now := time.Now()
	start := req.StartDate
	if start.IsZero() {
		start = now
	}
	p := &model.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        projectSlug,
		Description: req.Description,
		OwnerID:     actor.UserID,
		Status:      model.ProjectOpen,
		IsPublic:    req.IsPublic,
		StartDate:   start,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.TeamID != "" {
		teamID := req.TeamID
		p.TeamID = &teamID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.New(apperr.KindConflict, "A project with this slug already exists")
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrTeamNotFound
		}
		return nil, apperr.Internal("create project", err)
	}

	if s.logger != nil {
		s.logger.Debug("project created", "project_id", p.ID, "slug", p.Slug)
	}
	return p, nil
}

// checkTeam requires the team to exist and the actor to belong to it.
func (s *Service) checkTeam(ctx context.Context, actor *model.Identity, teamID string) error {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return apperr.Internal("get team", err)
	}
	if d := authz.CanViewTeam(actor, team); !d.Allowed {
		return apperr.New(apperr.KindForbidden, "You are not a member of this team")
	}
	return nil
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

// Get fetches a project the actor may view.
func (s *Service) Get(ctx context.Context, actor *model.Identity, id string) (*model.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewProject(actor, p); !d.Allowed {
		return nil, d.Err()
	}
	return p, nil
}

// GetBySlug fetches a project by slug.
func (s *Service) GetBySlug(ctx context.Context, actor *model.Identity, projectSlug string) (*model.Project, error) {
	p, err := s.repo.GetBySlug(ctx, projectSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, apperr.Internal("get project", err)
	}
	if d := authz.CanViewProject(actor, p); !d.Allowed {
		return nil, d.Err()
	}
	return p, nil
}

// List returns the projects owned by the actor.
func (s *Service) List(ctx context.Context, actor *model.Identity) ([]model.Project, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	projects, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	return projects, nil
}

// UpdateRequest holds optional project changes.
type UpdateRequest struct {
	Name        *string
	Description *string
	Status      *model.ProjectStatus
	Progress    *int
	StartDate   *time.Time
	DueDate     *time.Time
}

// Update applies changes to a project the actor may edit. Moving a project to
// COMPLETED also completes its tasks, after the other changes are applied.
func (s *Service) Update(ctx context.Context, actor *model.Identity, id string, req UpdateRequest) (*model.Project, error) {
	before, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanEditProject(actor, before); !d.Allowed {
		return nil, d.Err()
	}

	p := *before
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Progress != nil {
		p.Progress = lifecycle.ClampProgress(*req.Progress)
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.DueDate != nil {
		p.DueDate = *req.DueDate
	}
	if !p.DueDate.IsZero() && p.DueDate.Before(p.StartDate) {
		return nil, apperr.New(apperr.KindInvalidInput, "Due date must not be before start date")
	}

	if req.Status != nil && *req.Status == model.ProjectCompleted {
		return s.complete(ctx, before, &p)
	}
	if req.Status != nil {
		if err := lifecycle.ValidateProjectTransition(p.Status, *req.Status); err != nil {
			return nil, err
		}
		if p.Status == model.ProjectCompleted {
			p.EndDate = nil
		}
		p.Status = *req.Status
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrTeamNotFound
		}
		return nil, apperr.Internal("update project", err)
	}
	return &p, nil
}

// Delete removes a project the actor owns together with its tasks.
func (s *Service) Delete(ctx context.Context, actor *model.Identity, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if d := authz.CanDeleteProject(actor, p); !d.Allowed {
		return d.Err()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return apperr.Internal("delete project", err)
	}
	return nil
}

// ToggleVisibility sets IsPublic to the requested value.
func (s *Service) ToggleVisibility(ctx context.Context, actor *model.Identity, id string, public bool) (*model.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanToggleVisibility(actor, p, public); !d.Allowed {
		return nil, d.Err()
	}

	updated := lifecycle.SetVisibility(*p, public, time.Now())
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, apperr.Internal("update project visibility", err)
	}
	return &updated, nil
}

// Complete marks the project COMPLETED and every task in it DONE. Either all
// of it is persisted or none of it is.
func (s *Service) Complete(ctx context.Context, actor *model.Identity, id string) (*model.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanEditProject(actor, p); !d.Allowed {
		return nil, d.Err()
	}
	return s.complete(ctx, p, p)
}

// complete completes p, restoring before if the stepwise writes fail.
func (s *Service) complete(ctx context.Context, before, p *model.Project) (*model.Project, error) {
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("complete project", err)
	}

	completed, done, err := lifecycle.CompleteProject(*p, tasks, time.Now())
	if err != nil {
		return nil, err
	}

	if s.cascade != nil {
		if err := s.cascade.CompleteCascade(ctx, &completed, done); err != nil {
			return nil, apperr.Internal("complete project", err)
		}
		return &completed, nil
	}

	if err := s.completeStepwise(ctx, before, &completed, tasks, done); err != nil {
		return nil, apperr.Internal("complete project", err)
	}
	return &completed, nil
}

// completeStepwise writes the tasks and then the project, restoring the
// snapshots of everything already written when a write fails.
func (s *Service) completeStepwise(ctx context.Context, before, after *model.Project, tasksBefore, tasksAfter []model.Task) error {
	original := make(map[string]model.Task, len(tasksBefore))
	for _, t := range tasksBefore {
		original[t.ID] = t
	}

	var written []model.Task
	for i := range tasksAfter {
		t := tasksAfter[i]
		prev := original[t.ID]
		if prev.Status == t.Status && prev.Progress == t.Progress && sameTime(prev.CompletedAt, t.CompletedAt) {
			continue
		}
		if err := s.tasks.Update(ctx, &t); err != nil {
			s.restore(ctx, nil, written)
			return err
		}
		written = append(written, prev)
	}

	if err := s.repo.Update(ctx, after); err != nil {
		s.restore(ctx, before, written)
		return err
	}
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (s *Service) restore(ctx context.Context, p *model.Project, tasks []model.Task) {
	for i := range tasks {
		if err := s.tasks.Update(ctx, &tasks[i]); err != nil && s.logger != nil {
			s.logger.Error("restore task after failed completion", "task_id", tasks[i].ID, "error", err)
		}
	}
	if p == nil {
		return
	}
	if err := s.repo.Update(ctx, p); err != nil && s.logger != nil {
		s.logger.Error("restore project after failed completion", "project_id", p.ID, "error", err)
	}
}

func (s *Service) load(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, apperr.Internal("get project", err)
	}
	return p, nil
}
