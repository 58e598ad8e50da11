package mcp

import (
	"fmt"

	"github.com/rpggio/shughuli/internal/apperr"
)

// APIError is the error a tool call reports to the client.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var recoveryHints = map[apperr.Kind]string{
	apperr.KindUnauthorized: "Authenticate first",
	apperr.KindForbidden:    "Only the owner or a permitted member can do this",
	apperr.KindNotFound:     "Check the ID spelling",
	apperr.KindInvalidInput: "Check the arguments against the tool schema",
	apperr.KindConflict:     "Reload the current state before retrying",
}

// MapError converts a service error into an APIError. Internal causes are
// never exposed.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	kind := apperr.KindOf(err)
	return &APIError{
		Code:         string(kind),
		Message:      apperr.MessageOf(err),
		RecoveryHint: recoveryHints[kind],
	}
}
