package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// TaskService defines task operations needed by MCP.
type TaskService interface {
	ListForUser(ctx context.Context, actor *model.Identity) ([]model.Task, error)
	ListForProject(ctx context.Context, actor *model.Identity, projectID string) ([]model.Task, error)
	UpdateStatus(ctx context.Context, actor *model.Identity, id string, status model.TaskStatus) (*model.Task, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Complete(ctx context.Context, actor *model.Identity, id string) (*model.Project, error)
}

// NotificationService defines inbox operations needed by MCP.
type NotificationService interface {
	List(ctx context.Context, actor *model.Identity, opts repository.ListNotificationsOptions) ([]model.Notification, error)
	UnreadCount(ctx context.Context, actor *model.Identity) (int, error)
}

// DashboardService defines the summary needed by MCP.
type DashboardService interface {
	ForActor(ctx context.Context, actor *model.Identity, now time.Time) (*dashboard.Summary, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tasks         TaskService
	Projects      ProjectService
	Notifications NotificationService
	Dashboard     DashboardService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      IdentityResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// DefaultIdentity is who tool calls act as when no bearer token applies.
	DefaultIdentity *model.Identity
	Logger          *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "shughuli",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and always acts as the default identity.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(defaultIdentityMiddleware(cfg.DefaultIdentity))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	registerTools(server, cfg.Services, now)

	return server
}
