package notification

import "github.com/rpggio/shughuli/internal/apperr"

var (
	// ErrNotificationNotFound indicates the notification doesn't exist.
	ErrNotificationNotFound = apperr.New(apperr.KindNotFound, "notification not found")
	// ErrInvalidInput indicates invalid notification input.
	ErrInvalidInput = apperr.New(apperr.KindInvalidInput, "invalid notification input")
)
