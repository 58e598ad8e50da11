package team

import "github.com/rpggio/shughuli/internal/apperr"

var (
	// ErrTeamNotFound indicates the team doesn't exist.
	ErrTeamNotFound = apperr.New(apperr.KindNotFound, "Team not found")
	// ErrInvitationNotFound indicates the invitation token is unknown.
	ErrInvitationNotFound = apperr.New(apperr.KindNotFound, "Invitation not found")
	// ErrInvalidInput indicates invalid team input.
	ErrInvalidInput = apperr.New(apperr.KindInvalidInput, "invalid team input")
	// ErrRemoveOwner indicates an attempt to remove the team owner.
	ErrRemoveOwner = apperr.New(apperr.KindConflict, "The team owner cannot be removed")
)
