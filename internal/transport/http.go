package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/domain/project"
	"github.com/rpggio/shughuli/internal/domain/task"
	"github.com/rpggio/shughuli/internal/domain/team"
	"github.com/rpggio/shughuli/internal/domain/user"
	"github.com/rpggio/shughuli/internal/mail"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// UserService is the account surface the HTTP API needs.
type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (*model.User, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, error)
	Me(ctx context.Context, actor *model.Identity) (*model.User, error)
}

// ProjectService is the project surface the HTTP API needs.
type ProjectService interface {
	Create(ctx context.Context, actor *model.Identity, req project.CreateRequest) (*model.Project, error)
	Get(ctx context.Context, actor *model.Identity, id string) (*model.Project, error)
	List(ctx context.Context, actor *model.Identity) ([]model.Project, error)
	Update(ctx context.Context, actor *model.Identity, id string, req project.UpdateRequest) (*model.Project, error)
	Delete(ctx context.Context, actor *model.Identity, id string) error
	ToggleVisibility(ctx context.Context, actor *model.Identity, id string, public bool) (*model.Project, error)
	Complete(ctx context.Context, actor *model.Identity, id string) (*model.Project, error)
}

// TaskService is the task surface the HTTP API needs.
type TaskService interface {
	Create(ctx context.Context, actor *model.Identity, req task.CreateRequest) (*model.Task, error)
	Get(ctx context.Context, actor *model.Identity, id string) (*model.Task, error)
	ListForUser(ctx context.Context, actor *model.Identity) ([]model.Task, error)
	ListForProject(ctx context.Context, actor *model.Identity, projectID string) ([]model.Task, error)
	UpdateStatus(ctx context.Context, actor *model.Identity, id string, status model.TaskStatus) (*model.Task, error)
	Assign(ctx context.Context, actor *model.Identity, id, assigneeID string) (*model.Task, error)
	Update(ctx context.Context, actor *model.Identity, id string, req task.UpdateRequest) (*model.Task, error)
	Delete(ctx context.Context, actor *model.Identity, id string) error
}

// TeamService is the team surface the HTTP API needs.
type TeamService interface {
	Create(ctx context.Context, actor *model.Identity, req team.CreateRequest) (*model.Team, error)
	Get(ctx context.Context, actor *model.Identity, id string) (*model.Team, error)
	ListForUser(ctx context.Context, actor *model.Identity) ([]model.Team, error)
	Invite(ctx context.Context, actor *model.Identity, req team.InviteRequest) (*model.TeamInvitation, error)
	Accept(ctx context.Context, actor *model.Identity, token string) (*model.Team, error)
	ListInvitations(ctx context.Context, actor *model.Identity, teamID string) ([]model.TeamInvitation, error)
	RemoveMember(ctx context.Context, actor *model.Identity, teamID, userID string) error
}

// NotificationService is the inbox surface the HTTP API needs.
type NotificationService interface {
	List(ctx context.Context, actor *model.Identity, opts repository.ListNotificationsOptions) ([]model.Notification, error)
	MarkRead(ctx context.Context, actor *model.Identity, id string) error
	MarkAllRead(ctx context.Context, actor *model.Identity) (int64, error)
	UnreadCount(ctx context.Context, actor *model.Identity) (int, error)
}

// DashboardService is the summary surface the HTTP API needs.
type DashboardService interface {
	ForActor(ctx context.Context, actor *model.Identity, now time.Time) (*dashboard.Summary, error)
	ForProject(ctx context.Context, p *model.Project, now time.Time) (*dashboard.ProjectSummary, error)
}

// TokenIssuer issues and parses bearer tokens.
type TokenIssuer interface {
	IdentityResolver
	Issue(u *model.User, now time.Time) (string, time.Time, error)
}

// Services groups the domain services behind the HTTP API.
type Services struct {
	Users         UserService
	Projects      ProjectService
	Tasks         TaskService
	Teams         TeamService
	Notifications NotificationService
	Dashboard     DashboardService
}

// Config wires the HTTP API.
type Config struct {
	Services Services
	Tokens   TokenIssuer
	Mailer   mail.Mailer
	BaseURL  string
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	svc     Services
	tokens  TokenIssuer
	mailer  mail.Mailer
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewServer builds the REST router.
func NewServer(cfg Config) *chi.Mux {
	s := &Server{
		svc:     cfg.Services,
		tokens:  cfg.Tokens,
		mailer:  cfg.Mailer,
		baseURL: cfg.BaseURL,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.mailer == nil {
		s.mailer = mail.NopMailer{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))
	if cfg.Tokens != nil {
		r.Use(AuthMiddleware(cfg.Tokens))
	}
	s.Mount(r)
	return r
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.handleHealth)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/me", s.handleMe)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Patch("/", s.handleUpdateProject)
			r.Delete("/", s.handleDeleteProject)
			r.Post("/visibility", s.handleProjectVisibility)
			r.Post("/complete", s.handleCompleteProject)
			r.Get("/tasks", s.handleProjectTasks)
			r.Get("/summary", s.handleProjectSummary)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTask)
			r.Patch("/", s.handleUpdateTask)
			r.Delete("/", s.handleDeleteTask)
			r.Post("/status", s.handleTaskStatus)
			r.Post("/assign", s.handleAssignTask)
		})
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", s.handleListTeams)
		r.Post("/", s.handleCreateTeam)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTeam)
			r.Get("/invitations", s.handleListInvitations)
			r.Post("/invitations", s.handleInvite)
			r.Delete("/members/{userID}", s.handleRemoveMember)
		})
	})
	r.Post("/invitations/{token}/accept", s.handleAcceptInvitation)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", s.handleListNotifications)
		r.Get("/unread-count", s.handleUnreadCount)
		r.Post("/read-all", s.handleMarkAllRead)
		r.Post("/{id}/read", s.handleMarkRead)
	})

	r.Get("/dashboard", s.handleDashboard)
	r.Get("/breadcrumbs", s.handleBreadcrumbs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// fail writes err and logs it when it is not a caller error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if s.logger != nil && StatusFor(apperr.KindOf(err)) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}
