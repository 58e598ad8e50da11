package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/shughuli/internal/domain/task"
	"github.com/rpggio/shughuli/internal/model"
)

type createTaskBody struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ProjectID   string             `json:"project_id"`
	ParentID    string             `json:"parent_id"`
	AssigneeID  string             `json:"assignee_id"`
	Status      model.TaskStatus   `json:"status"`
	Priority    model.TaskPriority `json:"priority"`
	DueDate     *time.Time         `json:"due_date"`
	StartDate   *time.Time         `json:"start_date"`
}

type updateTaskBody struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Priority    *model.TaskPriority `json:"priority"`
	Progress    *int                `json:"progress"`
	DueDate     *time.Time          `json:"due_date"`
	StartDate   *time.Time          `json:"start_date"`
}

type statusBody struct {
	Status model.TaskStatus `json:"status"`
}

type assignBody struct {
	AssigneeID string `json:"assignee_id"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	actor := IdentityFromContext(r.Context())
	var (
		tasks []model.Task
		err   error
	)
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		tasks, err = s.svc.Tasks.ListForProject(r.Context(), actor, projectID)
	} else {
		tasks, err = s.svc.Tasks.ListForUser(r.Context(), actor)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.svc.Tasks.Create(r.Context(), IdentityFromContext(r.Context()), task.CreateRequest{
		Title:       body.Title,
		Description: body.Description,
		ProjectID:   body.ProjectID,
		ParentID:    body.ParentID,
		AssigneeID:  body.AssigneeID,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		StartDate:   body.StartDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var body updateTaskBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.svc.Tasks.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), task.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Progress:    body.Progress,
		DueDate:     body.DueDate,
		StartDate:   body.StartDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body statusBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.svc.Tasks.UpdateStatus(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var body assignBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.svc.Tasks.Assign(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), body.AssigneeID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
