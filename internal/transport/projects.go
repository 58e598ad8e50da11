package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/domain/project"
	"github.com/rpggio/shughuli/internal/model"
)

type createProjectBody struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TeamID      string     `json:"team_id"`
	IsPublic    bool       `json:"is_public"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

type updateProjectBody struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Status      *model.ProjectStatus `json:"status"`
	Progress    *int                 `json:"progress"`
	StartDate   *time.Time           `json:"start_date"`
	DueDate     *time.Time           `json:"due_date"`
}

type visibilityBody struct {
	Public *bool `json:"public"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.Projects.List(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	req := project.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		TeamID:      body.TeamID,
		IsPublic:    body.IsPublic,
	}
	if body.StartDate != nil {
		req.StartDate = *body.StartDate
	}
	if body.DueDate != nil {
		req.DueDate = *body.DueDate
	}

	p, err := s.svc.Projects.Create(r.Context(), IdentityFromContext(r.Context()), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), project.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		Progress:    body.Progress,
		StartDate:   body.StartDate,
		DueDate:     body.DueDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectVisibility(w http.ResponseWriter, r *http.Request) {
	var body visibilityBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Public == nil {
		s.fail(w, r, apperr.New(apperr.KindInvalidInput, "public is required"))
		return
	}

	p, err := s.svc.Projects.ToggleVisibility(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), *body.Public)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCompleteProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Complete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Tasks.ListForProject(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Projects.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.svc.Dashboard.ForProject(r.Context(), p, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
