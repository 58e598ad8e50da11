package model

import "time"

// UserRole is the account-level role of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// User is an account that owns projects and teams and may be assigned tasks.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Role          UserRole  `json:"role"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// Identity is the acting user for a request. A nil *Identity means no actor.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Identity returns the acting identity for u.
func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Username: u.Username}
}
