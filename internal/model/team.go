package model

import "time"

// TeamRole is the role of a member inside a team.
type TeamRole string

const (
	TeamRoleLead   TeamRole = "LEAD"
	TeamRoleMember TeamRole = "MEMBER"

	DefaultTeamRole = TeamRoleMember
)

// Valid reports whether r is a known team role.
func (r TeamRole) Valid() bool {
	return r == TeamRoleLead || r == TeamRoleMember
}

// Member links a user to a team.
type Member struct {
	UserID   string    `json:"user_id"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Team groups users. The owner is always a member with role LEAD.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	LeadID      *string   `json:"lead_id,omitempty"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsMember reports whether userID belongs to the team.
func (t *Team) IsMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamInvitation invites an email address to join a team.
type TeamInvitation struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	Email       string     `json:"email"`
	InvitedByID string     `json:"invited_by_id"`
	Role        TeamRole   `json:"role"`
	Token       string     `json:"-"`
	Accepted    bool       `json:"accepted"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
