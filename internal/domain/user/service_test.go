package user_test

import (
	"context"
	"testing"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/auth"
	"github.com/rpggio/shughuli/internal/domain/user"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/rpggio/shughuli/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByEmail", ctx, "neema@example.com").Return(nil, repository.ErrNotFound)
	repo.On("GetByUsername", ctx, "neema").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := user.NewService(repo, nil)
	u, err := svc.Register(ctx, user.RegisterRequest{
		Username: "neema",
		Email:    " Neema@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "neema", u.Name)
	require.Equal(t, "neema@example.com", u.Email)
	require.True(t, auth.CheckPassword(u.PasswordHash, "supersecret"))
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetByEmail", ctx, "neema@example.com").Return(&model.User{ID: "u1"}, nil)

	svc := user.NewService(repo, nil)
	_, err := svc.Register(ctx, user.RegisterRequest{Username: "neema", Email: "neema@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := user.NewService(&mocks.UserRepository{}, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "", Email: "a@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = svc.Register(ctx, user.RegisterRequest{Username: "a", Email: "not-an-email", Password: "supersecret"})
	require.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = svc.Register(ctx, user.RegisterRequest{Username: "a", Email: "a@example.com", Password: "short"})
	require.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	repo := &mocks.UserRepository{}
	stored := &model.User{ID: "u1", Username: "neema", Email: "neema@example.com", PasswordHash: hash}
	repo.On("GetByUsername", ctx, "neema").Return(stored, nil)
	repo.On("GetByEmail", ctx, "neema@example.com").Return(stored, nil)
	repo.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)

	svc := user.NewService(repo, nil)

	u, err := svc.Authenticate(ctx, "neema", "supersecret")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)

	_, err = svc.Authenticate(ctx, "NEEMA@example.com", "supersecret")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "neema", "wrong-password")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost", "supersecret")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestUserService_Me(t *testing.T) {
	svc := user.NewService(&mocks.UserRepository{}, nil)
	_, err := svc.Me(context.Background(), nil)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestUserService_IdentityFor(t *testing.T) {
	repo := &mocks.UserRepository{}
	repo.On("GetByUsername", mock.Anything, "amani").Return(&model.User{ID: "u1", Username: "amani"}, nil)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	svc := user.NewService(repo, nil)

	id, err := svc.IdentityFor(context.Background(), " amani ")
	require.NoError(t, err)
	require.Equal(t, &model.Identity{UserID: "u1", Username: "amani"}, id)

	_, err = svc.IdentityFor(context.Background(), "ghost")
	require.ErrorIs(t, err, user.ErrUserNotFound)
}
