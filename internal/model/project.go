package model

import "time"

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectOpen      ProjectStatus = "OPEN"
	ProjectOngoing   ProjectStatus = "ONGOING"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectOngoing, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is owned by exactly one user and groups tasks.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	OwnerID     string        `json:"owner_id"`
	TeamID      *string       `json:"team_id,omitempty"`
	Status      ProjectStatus `json:"status"`
	IsPublic    bool          `json:"is_public"`
	Progress    int           `json:"progress"`
	StartDate   time.Time     `json:"start_date"`
	DueDate     time.Time     `json:"due_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
