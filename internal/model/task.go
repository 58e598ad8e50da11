package model

import "time"

// TaskStatus represents the workflow status of a task
type TaskStatus string

const (
	TaskBacklog    TaskStatus = "BACKLOG"
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
	TaskArchived   TaskStatus = "ARCHIVED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// AllTaskStatuses lists every task status in workflow order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskBacklog,
		TaskTodo,
		TaskInProgress,
		TaskReview,
		TaskDone,
		TaskArchived,
		TaskCancelled,
	}
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	for _, known := range AllTaskStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// TaskPriority ranks tasks.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task belongs to one project and has at most one assignee.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	CreatorID   string       `json:"creator_id"`
	AssigneeID  *string      `json:"assignee_id,omitempty"`
	ProjectID   string       `json:"project_id"`
	ParentID    *string      `json:"parent_id,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Progress    int          `json:"progress"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
