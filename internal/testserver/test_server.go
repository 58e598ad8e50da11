// Package testserver runs the full HTTP and MCP stack on an in-memory database.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shughuli/internal/auth"
	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/domain/notification"
	"github.com/rpggio/shughuli/internal/domain/project"
	"github.com/rpggio/shughuli/internal/domain/task"
	"github.com/rpggio/shughuli/internal/domain/team"
	"github.com/rpggio/shughuli/internal/domain/user"
	"github.com/rpggio/shughuli/internal/mail"
	"github.com/rpggio/shughuli/internal/mcp"
	"github.com/rpggio/shughuli/internal/sqlite"
	"github.com/rpggio/shughuli/internal/transport"
	"github.com/stretchr/testify/require"
)

const (
	Secret  = "integration-secret"
	BaseURL = "https://shughuli.test"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Tokens *auth.Tokens
	Outbox *Outbox
}

// Options adjusts the stack. The zero value uses stock settings.
type Options struct {
	InviteTTL  time.Duration
	Thresholds *dashboard.Thresholds
}

func New(t *testing.T) *TestServer {
	return NewWithOptions(t, Options{InviteTTL: 7 * 24 * time.Hour})
}

func NewWithOptions(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	userRepo := sqlite.NewUserRepository(db)
	teamRepo := sqlite.NewTeamRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	notificationRepo := sqlite.NewNotificationRepository(db)

	thresholds := dashboard.DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}

	notificationSvc := notification.NewService(notificationRepo, nil)
	userSvc := user.NewService(userRepo, nil)
	teamSvc := team.NewService(teamRepo, teamRepo, userRepo, notificationSvc, opts.InviteTTL, nil)
	projectSvc := project.NewService(projectRepo, taskRepo, teamRepo, nil)
	taskSvc := task.NewService(taskRepo, projectRepo, teamRepo, notificationSvc, nil)
	dashboardSvc := dashboard.NewService(taskRepo, projectRepo, thresholds, nil)

	tokens, err := auth.NewTokens(Secret, time.Hour)
	require.NoError(t, err)

	outbox := &Outbox{}
	router := transport.NewServer(transport.Config{
		Services: transport.Services{
			Users:         userSvc,
			Projects:      projectSvc,
			Tasks:         taskSvc,
			Teams:         teamSvc,
			Notifications: notificationSvc,
			Dashboard:     dashboardSvc,
		},
		Tokens:  tokens,
		Mailer:  outbox,
		BaseURL: BaseURL,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tasks:         taskSvc,
			Projects:      projectSvc,
			Notifications: notificationSvc,
			Dashboard:     dashboardSvc,
		},
		Resolver:      tokens,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	router.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	))

	server := httptest.NewServer(router)
	ts := &TestServer{
		Server: server,
		DB:     db,
		Tokens: tokens,
		Outbox: outbox,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Outbox records invitation mail instead of sending it.
type Outbox struct {
	mu   sync.Mutex
	sent []mail.Invitation
}

func (o *Outbox) SendInvitation(_ context.Context, inv mail.Invitation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, inv)
	return nil
}

// Sent returns the invitations recorded so far.
func (o *Outbox) Sent() []mail.Invitation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mail.Invitation(nil), o.sent...)
}

// Last returns the most recent invitation sent to email.
func (o *Outbox) Last(email string) (mail.Invitation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if strings.EqualFold(o.sent[i].To, email) {
			return o.sent[i], true
		}
	}
	return mail.Invitation{}, false
}
