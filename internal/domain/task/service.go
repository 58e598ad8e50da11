package task

import (
	"context"
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
)

// Service handles task operations.
type Service struct {
	repo     Repository
	projects ProjectReader
	teams    TeamReader
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new task service. teams and notifier may be nil.
func NewService(repo Repository, projects ProjectReader, teams TeamReader, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, projects: projects, teams: teams, notifier: notifier, logger: logger}
}

// CreateRequest defines task creation inputs.
type CreateRequest struct {
	Title       string
	Description string
	ProjectID   string
	ParentID    string
	AssigneeID  string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	DueDate     *time.Time
	StartDate   *time.Time
}

// Create creates a task in a project the actor may add tasks to.
func (s *Service) Create(ctx context.Context, actor *model.Identity, req CreateRequest) (*model.Task, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.ProjectID) == "" {
		return nil, ErrInvalidInput
	}

	status := req.Status
	if status == "" {
		status = model.TaskTodo
	}
	if !status.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Unknown task status %q", status)
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, "Unknown task priority %q", priority)
	}

	p, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	team, err := s.loadTeam(ctx, p)
	if err != nil {
		return nil, err
	}
	if d := authz.CanCreateTask(actor, p, team); !d.Allowed {
		return nil, d.Err()
	}

	now := time.Now()
	t := model.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		CreatorID:   actor.UserID,
		ProjectID:   p.ID,
		Status:      model.TaskTodo,
		Priority:    priority,
		DueDate:     req.DueDate,
		StartDate:   req.StartDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.ParentID != "" {
		parent, err := s.load(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != p.ID {
			return nil, ErrParentMismatch
		}
		parentID := parent.ID
		t.ParentID = &parentID
	}
	if req.AssigneeID != "" {
		assignee := req.AssigneeID
		t.AssigneeID = &assignee
	}

	t, err = lifecycle.ApplyTaskStatus(t, status, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, apperr.New(apperr.KindInvalidInput, "Assignee not found")
		}
		return nil, apperr.Internal("create task", err)
	}

	if t.AssigneeID != nil && *t.AssigneeID != actor.UserID {
		s.notifyAssignee(ctx, actor, &t)
	}
	return &t, nil
}

// Get fetches a task the actor may view.
func (s *Service) Get(ctx context.Context, actor *model.Identity, id string) (*model.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewTask(actor, t); !d.Allowed {
		return nil, d.Err()
	}
	return t, nil
}

// ListForUser returns tasks the actor created or is assigned to.
func (s *Service) ListForUser(ctx context.Context, actor *model.Identity) ([]model.Task, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	tasks, err := s.repo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("list tasks", err)
	}
	return tasks, nil
}

// ListForProject returns the tasks of a project the actor may view.
func (s *Service) ListForProject(ctx context.Context, actor *model.Identity, projectID string) ([]model.Task, error) {
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanViewProject(actor, p); !d.Allowed {
		return nil, d.Err()
	}
	tasks, err := s.repo.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("list project tasks", err)
	}
	return tasks, nil
}

// UpdateStatus moves a task to status.
func (s *Service) UpdateStatus(ctx context.Context, actor *model.Identity, id string, status model.TaskStatus) (*model.Task, error) {
	t, err := s.loadEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := lifecycle.ApplyTaskStatus(*t, status, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, apperr.Internal("update task status", err)
	}
	return &updated, nil
}

// Assign sets the assignee of a task. An empty assigneeID unassigns it.
func (s *Service) Assign(ctx context.Context, actor *model.Identity, id, assigneeID string) (*model.Task, error) {
	t, err := s.loadEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previous := t.AssigneeID
	if assigneeID == "" {
		t.AssigneeID = nil
	} else {
		assignee := assigneeID
		t.AssigneeID = &assignee
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, apperr.New(apperr.KindInvalidInput, "Assignee not found")
		}
		return nil, apperr.Internal("assign task", err)
	}

	changed := previous == nil || *previous != assigneeID
	if assigneeID != "" && assigneeID != actor.UserID && changed {
		s.notifyAssignee(ctx, actor, t)
	}
	return t, nil
}

// UpdateRequest holds optional task changes.
type UpdateRequest struct {
	Title       *string
	Description *string
	Priority    *model.TaskPriority
	Progress    *int
	DueDate     *time.Time
	StartDate   *time.Time
}

// Update applies changes to a task the actor may edit.
func (s *Service) Update(ctx context.Context, actor *model.Identity, id string, req UpdateRequest) (*model.Task, error) {
	t, err := s.loadEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, apperr.Newf(apperr.KindInvalidInput, "Unknown task priority %q", *req.Priority)
		}
		t.Priority = *req.Priority
	}
	if req.Progress != nil {
		updated, err := lifecycle.SetTaskProgress(*t, *req.Progress, time.Now())
		if err != nil {
			return nil, err
		}
		t = &updated
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.StartDate != nil {
		t.StartDate = req.StartDate
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, apperr.Internal("update task", err)
	}
	return t, nil
}

// Delete removes a task. Allowed for its creator and the project owner.
func (s *Service) Delete(ctx context.Context, actor *model.Identity, id string) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.projectOf(ctx, t)
	if err != nil {
		return err
	}
	if d := authz.CanDeleteTask(actor, t, p); !d.Allowed {
		return d.Err()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return apperr.Internal("delete task", err)
	}
	return nil
}

func (s *Service) notifyAssignee(ctx context.Context, actor *model.Identity, t *model.Task) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(ctx, notification.CreateRequest{
		UserID:  *t.AssigneeID,
		Title:   "New task assigned",
		Message: fmt.Sprintf("%s assigned you to %q", actor.Username, t.Title),
		Link:    "/tasks/" + t.ID,
	})
}

func (s *Service) loadEditable(ctx context.Context, actor *model.Identity, id string) (*model.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.projectOf(ctx, t)
	if err != nil {
		return nil, err
	}
	if d := authz.CanEditTask(actor, t, p); !d.Allowed {
		return nil, d.Err()
	}
	return t, nil
}

// projectOf returns the task's project, or nil when it no longer exists.
func (s *Service) projectOf(ctx context.Context, t *model.Task) (*model.Project, error) {
	p, err := s.projects.Get(ctx, t.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("get project", err)
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, id string) (*model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, apperr.Internal("get task", err)
	}
	return t, nil
}

func (s *Service) loadProject(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, apperr.Internal("get project", err)
	}
	return p, nil
}

func (s *Service) loadTeam(ctx context.Context, p *model.Project) (*model.Team, error) {
	if p.TeamID == nil || s.teams == nil {
		return nil, nil
	}
	team, err := s.teams.Get(ctx, *p.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("get team", err)
	}
	return team, nil
}
