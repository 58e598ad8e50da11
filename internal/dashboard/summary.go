package dashboard

import (
	"time"

	"github.com/rpggio/shughuli/internal/model"
)

// Thresholds holds the time windows and list sizes used by the dashboard.
// The backward overdue grace and the forward due-soon window are independent.
type Thresholds struct {
	DueSoonWindow time.Duration
	OverdueGrace  time.Duration
	ActiveLimit   int
	AgendaLimit   int
}

const (
	DefaultDueSoonWindow = 7 * 24 * time.Hour
	DefaultOverdueGrace  = 24 * time.Hour
	DefaultActiveLimit   = 3
	DefaultAgendaLimit   = 3
)

// DefaultThresholds returns the stock dashboard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DueSoonWindow: DefaultDueSoonWindow,
		OverdueGrace:  DefaultOverdueGrace,
		ActiveLimit:   DefaultActiveLimit,
		AgendaLimit:   DefaultAgendaLimit,
	}
}

// Summary is the dashboard view-model.
type Summary struct {
	TotalTasks           int                      `json:"total_tasks"`
	CompletionPercentage int                      `json:"completion_percentage"`
	OverduePercentage    int                      `json:"overdue_percentage"`
	StatusHistogram      map[model.TaskStatus]int `json:"status_histogram"`
	OverdueTasks         []model.Task             `json:"overdue_tasks"`
	TodaysAgenda         []model.Task             `json:"todays_agenda"`
	TotalProjects        int                      `json:"total_projects"`
	ActiveProjects       []model.Project          `json:"active_projects"`
	DueSoonProjects      []model.Project          `json:"due_soon_projects"`
	OverdueProjects      []model.Project          `json:"overdue_projects"`
	GeneratedAt          time.Time                `json:"generated_at"`
}

// Summarize builds the dashboard view-model from raw collections.
func Summarize(tasks []model.Task, projects []model.Project, now time.Time, th Thresholds) Summary {
	return Summary{
		TotalTasks:           len(tasks),
		CompletionPercentage: CompletionPercentage(tasks),
		OverduePercentage:    OverduePercentage(tasks, now),
		StatusHistogram:      StatusHistogram(tasks),
		OverdueTasks:         OverdueTasks(tasks, now),
		TodaysAgenda:         TodaysAgenda(tasks, now, th.AgendaLimit),
		TotalProjects:        len(projects),
		ActiveProjects:       ActiveProjects(projects, th.ActiveLimit),
		DueSoonProjects:      DueSoon(projects, now, th.DueSoonWindow),
		OverdueProjects:      ProjectOverdue(projects, now, th.OverdueGrace),
		GeneratedAt:          now,
	}
}
