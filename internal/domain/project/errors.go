package project

import "github.com/rpggio/shughuli/internal/apperr"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = apperr.New(apperr.KindNotFound, "Project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = apperr.New(apperr.KindInvalidInput, "invalid project input")
	// ErrTeamNotFound indicates the team a project names doesn't exist.
	ErrTeamNotFound = apperr.New(apperr.KindInvalidInput, "Team not found")
)
