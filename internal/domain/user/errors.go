package user

import "github.com/rpggio/shughuli/internal/apperr"

var (
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")
	// ErrInvalidInput indicates invalid registration input.
	ErrInvalidInput = apperr.New(apperr.KindInvalidInput, "invalid user input")
	// ErrEmailTaken indicates another account uses the email.
	ErrEmailTaken = apperr.New(apperr.KindConflict, "email is already registered")
	// ErrUsernameTaken indicates another account uses the username.
	ErrUsernameTaken = apperr.New(apperr.KindConflict, "username is already taken")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
)
