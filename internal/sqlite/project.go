package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, slug, description, owner_id, team_id, status, is_public,
	progress, start_date, due_date, end_date, created_at, updated_at`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.OwnerID,
		p.TeamID,
		p.Status,
		p.IsPublic,
		p.Progress,
		nullTime(p.StartDate),
		nullTime(p.DueDate),
		p.EndDate,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a project by slug
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`
	return scanProject(r.db.QueryRowContext(ctx, query, slug))
}

// ListByOwner returns the projects owned by a user, most recently updated first
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = ?
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// Update writes every mutable project column
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	return updateProject(ctx, r.db, p)
}

// Delete removes a project; its tasks are removed by the foreign key cascade
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
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

// CompleteCascade writes the completed project and its tasks in one transaction
func (r *ProjectRepository) CompleteCascade(ctx context.Context, p *model.Project, tasks []model.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range tasks {
		if tasks[i].ProjectID != p.ID {
			return fmt.Errorf("task %s does not belong to project %s", tasks[i].ID, p.ID)
		}
		if err := updateTask(ctx, tx, &tasks[i]); err != nil {
			return err
		}
	}
	if err := updateProject(ctx, tx, p); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateProject(ctx context.Context, db execer, p *model.Project) error {
	query := `
		UPDATE projects
		SET name = ?, slug = ?, description = ?, team_id = ?, status = ?, is_public = ?,
			progress = ?, start_date = ?, due_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		p.Name,
		p.Slug,
		p.Description,
		p.TeamID,
		p.Status,
		p.IsPublic,
		p.Progress,
		nullTime(p.StartDate),
		nullTime(p.DueDate),
		p.EndDate,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update project: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var (
		p         model.Project
		teamID    sql.NullString
		startDate sql.NullTime
		dueDate   sql.NullTime
		endDate   sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.OwnerID,
		&teamID,
		&p.Status,
		&p.IsPublic,
		&p.Progress,
		&startDate,
		&dueDate,
		&endDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	p.TeamID = stringPtr(teamID)
	p.StartDate = timeValue(startDate)
	p.DueDate = timeValue(dueDate)
	p.EndDate = timePtr(endDate)
	return &p, nil
}
