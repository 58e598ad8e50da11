package user

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/auth"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

const minPasswordLength = 8

// Service handles user accounts.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterRequest defines account creation inputs.
type RegisterRequest struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || strings.ContainsAny(username, " /") {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidInput
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Newf(apperr.KindInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("register user", err)
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("register user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("register user", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		Email:        email,
		Role:         model.UserRoleUser,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal("register user", err)
	}
	return u, nil
}

// Authenticate checks a username or email against a password.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		u   *model.User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.repo.GetByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.repo.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Internal("authenticate", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal("get user", err)
	}
	return u, nil
}

// Me returns the account behind the acting identity.
func (s *Service) Me(ctx context.Context, actor *model.Identity) (*model.User, error) {
	if actor == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	return s.Get(ctx, actor.UserID)
}

// IdentityFor returns the identity of the account with the given username.
func (s *Service) IdentityFor(ctx context.Context, username string) (*model.Identity, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal("get user", err)
	}
	return u.Identity(), nil
}
