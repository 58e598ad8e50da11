package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
)

// TeamRepository implements repository.TeamRepository and
// repository.InvitationRepository for SQLite
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `t.id, t.name, t.slug, t.description, t.owner_id, t.lead_id, t.created_at`

// Create creates a team together with its initial members
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (id, name, slug, description, owner_id, lead_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		team.ID,
		team.Name,
		team.Slug,
		team.Description,
		team.OwnerID,
		team.LeadID,
		team.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create team: %w", err)
	}

	for _, m := range team.Members {
		if err := insertMember(ctx, tx, team.ID, m); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a team with its members
func (r *TeamRepository) Get(ctx context.Context, id string) (*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.id = ?`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a team by slug
func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.slug = ?`
	return r.getOne(ctx, query, slug)
}

// ListForUser returns the teams a user belongs to
func (r *TeamRepository) ListForUser(ctx context.Context, userID string) ([]model.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = ?
		ORDER BY t.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	var teams []model.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, *team)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	// Members are loaded after the cursor is closed: the pool holds one connection.
	for i := range teams {
		members, err := r.members(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}
	return teams, nil
}

// AddMember adds a user to a team
func (r *TeamRepository) AddMember(ctx context.Context, teamID string, m model.Member) error {
	return insertMember(ctx, r.db, teamID, m)
}

// RemoveMember removes a user from a team
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE team_id = ? AND user_id = ?`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
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

func (r *TeamRepository) getOne(ctx context.Context, query string, arg string) (*model.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	members, err := r.members(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

func (r *TeamRepository) members(ctx context.Context, teamID string) ([]model.Member, error) {
	query := `
		SELECT user_id, role, joined_at
		FROM team_members
		WHERE team_id = ?
		ORDER BY joined_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

func insertMember(ctx context.Context, db execer, teamID string, m model.Member) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query, teamID, m.UserID, m.Role, m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func scanTeam(row rowScanner) (*model.Team, error) {
	var (
		team   model.Team
		leadID sql.NullString
	)
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Slug,
		&team.Description,
		&team.OwnerID,
		&leadID,
		&team.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	team.LeadID = stringPtr(leadID)
	return &team, nil
}

const invitationColumns = `id, team_id, email, invited_by_id, role, token, accepted,
	accepted_at, expires_at, created_at`

// CreateInvitation stores a new invitation
func (r *TeamRepository) CreateInvitation(ctx context.Context, inv *model.TeamInvitation) error {
	query := `
		INSERT INTO team_invitations (` + invitationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.TeamID,
		inv.Email,
		inv.InvitedByID,
		inv.Role,
		inv.Token,
		inv.Accepted,
		inv.AcceptedAt,
		inv.ExpiresAt,
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitationByToken retrieves an invitation by its token
func (r *TeamRepository) GetInvitationByToken(ctx context.Context, token string) (*model.TeamInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM team_invitations WHERE token = ?`
	return scanInvitation(r.db.QueryRowContext(ctx, query, token))
}

// ListInvitations returns every invitation of a team, newest first
func (r *TeamRepository) ListInvitations(ctx context.Context, teamID string) ([]model.TeamInvitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM team_invitations
		WHERE team_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []model.TeamInvitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}
	return invitations, nil
}

// AcceptInvitation marks the invitation accepted and adds the member in one transaction
func (r *TeamRepository) AcceptInvitation(ctx context.Context, inv *model.TeamInvitation, m model.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE team_invitations SET accepted = ?, accepted_at = ? WHERE id = ? AND accepted = 0`,
		inv.Accepted, inv.AcceptedAt, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}

	if err := insertMember(ctx, tx, inv.TeamID, m); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanInvitation(row rowScanner) (*model.TeamInvitation, error) {
	var (
		inv        model.TeamInvitation
		acceptedAt sql.NullTime
		expiresAt  sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.TeamID,
		&inv.Email,
		&inv.InvitedByID,
		&inv.Role,
		&inv.Token,
		&inv.Accepted,
		&acceptedAt,
		&expiresAt,
		&inv.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}
	inv.AcceptedAt = timePtr(acceptedAt)
	inv.ExpiresAt = timePtr(expiresAt)
	return &inv, nil
}
