package user

import (
	"context"

	"github.com/rpggio/shughuli/internal/model"
)

// Repository provides persistence for users.
type Repository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
