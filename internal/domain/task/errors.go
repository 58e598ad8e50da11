package task

import "github.com/rpggio/shughuli/internal/apperr"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = apperr.New(apperr.KindNotFound, "Task not found")
	// ErrProjectNotFound indicates the task's project doesn't exist.
	ErrProjectNotFound = apperr.New(apperr.KindNotFound, "Project not found")
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = apperr.New(apperr.KindInvalidInput, "invalid task input")
	// ErrParentMismatch indicates a subtask whose parent lives in another project.
	ErrParentMismatch = apperr.New(apperr.KindInvalidInput, "Parent task must belong to the same project")
)
