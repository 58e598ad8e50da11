// Package dashboard summarizes task and project collections into view-model values.
package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/rpggio/shughuli/internal/model"
)

// CompletionPercentage returns the rounded share of DONE tasks, 0 for no tasks.
func CompletionPercentage(tasks []model.Task) int {
	done := 0
	for _, t := range tasks {
		if t.Status == model.TaskDone {
			done++
		}
	}
	return percentage(done, len(tasks))
}

// OverdueTasks returns tasks not DONE whose due date is before now.
func OverdueTasks(tasks []model.Task, now time.Time) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if isTaskOverdue(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// OverduePercentage returns the rounded share of overdue tasks, 0 for no tasks.
func OverduePercentage(tasks []model.Task, now time.Time) int {
	overdue := 0
	for _, t := range tasks {
		if isTaskOverdue(t, now) {
			overdue++
		}
	}
	return percentage(overdue, len(tasks))
}

func isTaskOverdue(t model.Task, now time.Time) bool {
	return t.Status != model.TaskDone && t.DueDate != nil && t.DueDate.Before(now)
}

// StatusHistogram counts tasks per status. Every status is present.
func StatusHistogram(tasks []model.Task) map[model.TaskStatus]int {
	hist := make(map[model.TaskStatus]int, len(model.AllTaskStatuses()))
	for _, s := range model.AllTaskStatuses() {
		hist[s] = 0
	}
	for _, t := range tasks {
		hist[t.Status]++
	}
	return hist
}

// ActiveProjects returns at most limit projects that are neither completed nor
// cancelled, most recently updated first.
func ActiveProjects(projects []model.Project, limit int) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if p.Status == model.ProjectCompleted || p.Status == model.ProjectCancelled {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return truncate(out, limit)
}

// TodaysAgenda returns at most limit tasks not DONE that are due on the same
// calendar day as today, in input order. Days are compared in today's location.
func TodaysAgenda(tasks []model.Task, today time.Time, limit int) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.Status == model.TaskDone || t.DueDate == nil {
			continue
		}
		if sameDay(*t.DueDate, today) {
			out = append(out, t)
		}
	}
	return truncate(out, limit)
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DueSoon returns projects not COMPLETED whose due date is at most window
// after now. Projects already past due are included.
func DueSoon(projects []model.Project, now time.Time, window time.Duration) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if p.Status == model.ProjectCompleted || p.DueDate.IsZero() {
			continue
		}
		if p.DueDate.Sub(now) <= window {
			out = append(out, p)
		}
	}
	return out
}

// ProjectOverdue returns projects not COMPLETED whose due date lies more than
// grace before now.
func ProjectOverdue(projects []model.Project, now time.Time, grace time.Duration) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if p.Status == model.ProjectCompleted || p.DueDate.IsZero() {
			continue
		}
		if now.Sub(p.DueDate) > grace {
			out = append(out, p)
		}
	}
	return out
}

// ProjectProgress derives a project's progress from its tasks.
func ProjectProgress(p model.Project, tasks []model.Task) int {
	if p.Status == model.ProjectCompleted {
		return 100
	}
	var own []model.Task
	for _, t := range tasks {
		if t.ProjectID == p.ID {
			own = append(own, t)
		}
	}
	if len(own) == 0 {
		return p.Progress
	}
	return CompletionPercentage(own)
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
