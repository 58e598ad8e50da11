// Package lifecycle holds the state transitions of projects, tasks and invitations.
package lifecycle

import (
	"strings"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

var projectTransitions = map[model.ProjectStatus]map[model.ProjectStatus]bool{
	model.ProjectOpen:      {model.ProjectOngoing: true, model.ProjectCompleted: true, model.ProjectCancelled: true},
	model.ProjectOngoing:   {model.ProjectOpen: true, model.ProjectCompleted: true, model.ProjectCancelled: true},
	model.ProjectCompleted: {model.ProjectOngoing: true},
	model.ProjectCancelled: {model.ProjectOpen: true},
}

// ValidateProjectTransition validates a requested project status change.
func ValidateProjectTransition(from, to model.ProjectStatus) error {
	if !to.Valid() {
		return apperr.Newf(apperr.KindInvalidInput, "Unknown project status %q", to)
	}
	if from == to {
		return apperr.Newf(apperr.KindConflict, "Project is already %s", strings.ToLower(string(to)))
	}
	if !projectTransitions[from][to] {
		return apperr.Newf(apperr.KindInvalidInput, "Cannot move project from %s to %s", from, to)
	}
	return nil
}

// CompleteProject returns p marked COMPLETED at now together with every task
// moved to DONE. Inputs are not modified.
func CompleteProject(p model.Project, tasks []model.Task, now time.Time) (model.Project, []model.Task, error) {
	if err := ValidateProjectTransition(p.Status, model.ProjectCompleted); err != nil {
		return p, nil, err
	}

	p.Status = model.ProjectCompleted
	p.Progress = 100
	end := now
	p.EndDate = &end
	p.UpdatedAt = now

	done := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != p.ID {
			continue
		}
		done = append(done, completeTask(t, now))
	}
	return p, done, nil
}

// SetVisibility returns p with IsPublic set.
func SetVisibility(p model.Project, public bool, now time.Time) model.Project {
	p.IsPublic = public
	p.UpdatedAt = now
	return p
}

// ClampProgress keeps a progress value in [0, 100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
