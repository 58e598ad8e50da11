package lifecycle

import (
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

// ApplyTaskStatus returns t moved to status at now.
func ApplyTaskStatus(t model.Task, status model.TaskStatus, now time.Time) (model.Task, error) {
	if !status.Valid() {
		return t, apperr.Newf(apperr.KindInvalidInput, "Unknown task status %q", status)
	}
	if status == model.TaskDone {
		return completeTask(t, now), nil
	}
	t.Status = status
	t.CompletedAt = nil
	t.UpdatedAt = now
	return t, nil
}

// SetTaskProgress returns t with the clamped progress. A DONE task stays at 100.
func SetTaskProgress(t model.Task, progress int, now time.Time) (model.Task, error) {
	progress = ClampProgress(progress)
	if t.Status == model.TaskDone && progress != 100 {
		return t, apperr.New(apperr.KindInvalidInput, "Progress of a done task is fixed at 100")
	}
	t.Progress = progress
	t.UpdatedAt = now
	return t, nil
}

func completeTask(t model.Task, now time.Time) model.Task {
	if t.Status != model.TaskDone || t.CompletedAt == nil {
		at := now
		t.CompletedAt = &at
	}
	t.Status = model.TaskDone
	t.Progress = 100
	t.UpdatedAt = now
	return t
}
