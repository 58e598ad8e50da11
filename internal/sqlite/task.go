package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// TaskRepository implements repository.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, creator_id, assignee_id, project_id, parent_id,
	status, priority, progress, due_date, start_date, completed_at, created_at, updated_at`

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.CreatorID,
		t.AssigneeID,
		t.ProjectID,
		t.ParentID,
		t.Status,
		t.Priority,
		t.Progress,
		t.DueDate,
		t.StartDate,
		t.CompletedAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

// Update writes every mutable task column
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	return updateTask(ctx, r.db, t)
}

// Delete removes a task and its subtasks
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByProject returns the tasks of a project, oldest first
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, projectID)
}

// ListForUser returns tasks a user created or is assigned to
func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE creator_id = ? OR assignee_id = ?
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, userID, userID)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func updateTask(ctx context.Context, db execer, t *model.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, assignee_id = ?, parent_id = ?, status = ?, priority = ?,
			progress = ?, due_date = ?, start_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.AssigneeID,
		t.ParentID,
		t.Status,
		t.Priority,
		t.Progress,
		t.DueDate,
		t.StartDate,
		t.CompletedAt,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t           model.Task
		assigneeID  sql.NullString
		parentID    sql.NullString
		dueDate     sql.NullTime
		startDate   sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CreatorID,
		&assigneeID,
		&t.ProjectID,
		&parentID,
		&t.Status,
		&t.Priority,
		&t.Progress,
		&dueDate,
		&startDate,
		&completedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	t.AssigneeID = stringPtr(assigneeID)
	t.ParentID = stringPtr(parentID)
	t.DueDate = timePtr(dueDate)
	t.StartDate = timePtr(startDate)
	t.CompletedAt = timePtr(completedAt)
	return &t, nil
}
