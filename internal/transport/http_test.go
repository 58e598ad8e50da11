package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/auth"
	"github.com/rpggio/shughuli/internal/breadcrumb"
	"github.com/rpggio/shughuli/internal/dashboard"
	"github.com/rpggio/shughuli/internal/domain/project"
	"github.com/rpggio/shughuli/internal/domain/team"
	"github.com/rpggio/shughuli/internal/mail"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/stretchr/testify/require"
)

var testUser = &model.User{ID: "u1", Username: "amani", Email: "amani@example.com"}

type fakeUsers struct {
	UserService
}

func (f *fakeUsers) Authenticate(_ context.Context, login, password string) (*model.User, error) {
	if login == "amani" && password == "correct horse" {
		return testUser, nil
	}
	return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
}

type fakeProjects struct {
	ProjectService
	created project.CreateRequest
	actor   *model.Identity
}

func (f *fakeProjects) Create(_ context.Context, actor *model.Identity, req project.CreateRequest) (*model.Project, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	f.actor = actor
	f.created = req
	return &model.Project{ID: "p1", Name: req.Name, OwnerID: actor.UserID}, nil
}

func (f *fakeProjects) Get(_ context.Context, actor *model.Identity, id string) (*model.Project, error) {
	if id != "p1" {
		return nil, apperr.New(apperr.KindNotFound, "Project not found")
	}
	if actor == nil || actor.UserID != "u1" {
		return nil, apperr.New(apperr.KindForbidden, "Unauthorized")
	}
	return &model.Project{ID: "p1", OwnerID: "u1"}, nil
}

func (f *fakeProjects) Complete(context.Context, *model.Identity, string) (*model.Project, error) {
	return nil, apperr.Internal("complete project", errors.New("disk I/O error"))
}

type fakeTeams struct {
	TeamService
}

func (f *fakeTeams) Invite(_ context.Context, _ *model.Identity, req team.InviteRequest) (*model.TeamInvitation, error) {
	expires := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)
	return &model.TeamInvitation{ID: "i1", TeamID: req.TeamID, Email: req.Email, Role: model.TeamRoleMember, Token: "tok123", ExpiresAt: &expires}, nil
}

func (f *fakeTeams) Get(_ context.Context, _ *model.Identity, id string) (*model.Team, error) {
	return &model.Team{ID: id, Name: "Design"}, nil
}

type fakeDashboard struct {
	DashboardService
	now time.Time
}

func (f *fakeDashboard) ForActor(_ context.Context, actor *model.Identity, now time.Time) (*dashboard.Summary, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	f.now = now
	return &dashboard.Summary{}, nil
}

type recordingMailer struct {
	sent []mail.Invitation
	err  error
}

func (m *recordingMailer) SendInvitation(_ context.Context, inv mail.Invitation) error {
	m.sent = append(m.sent, inv)
	return m.err
}

type testEnv struct {
	server    *httptest.Server
	tokens    *auth.Tokens
	projects  *fakeProjects
	dashboard *fakeDashboard
	mailer    *recordingMailer
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		tokens:    tokens,
		projects:  &fakeProjects{},
		dashboard: &fakeDashboard{},
		mailer:    &recordingMailer{},
		now:       time.Now().UTC().Truncate(time.Second),
	}
	router := NewServer(Config{
		Services: Services{
			Users:     &fakeUsers{},
			Projects:  env.projects,
			Teams:     &fakeTeams{},
			Dashboard: env.dashboard,
		},
		Tokens:  tokens,
		Mailer:  env.mailer,
		BaseURL: "https://app.example.com",
		Now:     func() time.Time { return env.now },
	})
	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, _, err := e.tokens.Issue(testUser, e.now)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_Health(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_LoginIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/login", "", `{"login":"amani","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody[tokenResponse](t, resp)
	require.NotEmpty(t, out.Token)
	require.Equal(t, "u1", out.User.ID)

	id, err := env.tokens.Parse(out.Token)
	require.NoError(t, err)
	require.Equal(t, "amani", id.Username)
}

func TestHTTPServer_LoginRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/login", "", `{"login":"amani","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[errorBody](t, resp)
	require.Equal(t, apperr.KindUnauthorized, body.Error.Kind)
}

func TestHTTPServer_CreateProject(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/projects", env.token(t), `{"name":"Launch","due_date":"2026-11-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	p := decodeBody[model.Project](t, resp)
	require.Equal(t, "Launch", p.Name)
	require.Equal(t, "u1", env.projects.actor.UserID)
	require.Equal(t, 2026, env.projects.created.DueDate.Year())
	require.True(t, env.projects.created.StartDate.IsZero())
}

func TestHTTPServer_AnonymousIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/projects", "", `{"name":"Launch"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_ErrorKinds(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t)

	resp := env.do(t, http.MethodGet, "/projects/missing", token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Project not found", decodeBody[errorBody](t, resp).Error.Message)

	resp = env.do(t, http.MethodPost, "/projects", token, `{"name":"x","unexpected":true}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/projects/p1/complete", token, "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody[errorBody](t, resp)
	require.Equal(t, "complete project failed", body.Error.Message)
	require.NotContains(t, body.Error.Message, "disk")
}

func TestHTTPServer_VisibilityRequiresValue(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/projects/p1/visibility", env.token(t), `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_InviteSendsMail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/teams/team1/invitations", env.token(t), `{"email":"neema@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	inv := decodeBody[map[string]any](t, resp)
	require.NotContains(t, inv, "token")

	require.Len(t, env.mailer.sent, 1)
	sent := env.mailer.sent[0]
	require.Equal(t, "neema@example.com", sent.To)
	require.Equal(t, "Design", sent.TeamName)
	require.Equal(t, "amani", sent.InvitedBy)
	require.Equal(t, "https://app.example.com/invitations/tok123/accept", sent.AcceptURL)
	require.Equal(t, "on October 24, 2026", sent.ExpiresText)
}

func TestHTTPServer_InviteSurvivesMailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("smtp down")

	resp := env.do(t, http.MethodPost, "/teams/team1/invitations", env.token(t), `{"email":"neema@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestHTTPServer_Dashboard(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/dashboard", env.token(t), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.now.Equal(env.dashboard.now))
}

func TestHTTPServer_Breadcrumbs(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/breadcrumbs?path=/dashboard/projects/42", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	crumbs := decodeBody[[]breadcrumb.Crumb](t, resp)
	require.Len(t, crumbs, 3)
	require.Equal(t, "Project Details", crumbs[2].Label)
	require.Equal(t, "/dashboard/projects/42", crumbs[2].Href)
}
