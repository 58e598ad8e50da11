package lifecycle

import (
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

// InvitationState is the derived state of a team invitation.
type InvitationState string

const (
	InvitationPending  InvitationState = "pending"
	InvitationAccepted InvitationState = "accepted"
	InvitationExpired  InvitationState = "expired"
)

var (
	// ErrInvitationAccepted indicates the invitation was already used.
	ErrInvitationAccepted = apperr.New(apperr.KindConflict, "Invitation has already been accepted")
	// ErrInvitationExpired indicates the invitation outlived its TTL.
	ErrInvitationExpired = apperr.New(apperr.KindConflict, "Invitation has expired")
)

// InvitationStateAt returns the state of inv at now. Accepted is terminal.
func InvitationStateAt(inv *model.TeamInvitation, now time.Time) InvitationState {
	if inv.Accepted {
		return InvitationAccepted
	}
	if inv.ExpiresAt != nil && !now.Before(*inv.ExpiresAt) {
		return InvitationExpired
	}
	return InvitationPending
}

// InvitationExpiry returns the expiry for an invitation created at createdAt.
// A non-positive ttl disables expiry.
func InvitationExpiry(createdAt time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	at := createdAt.Add(ttl)
	return &at
}

// AcceptInvitation moves a pending invitation to accepted.
func AcceptInvitation(inv model.TeamInvitation, now time.Time) (model.TeamInvitation, error) {
	switch InvitationStateAt(&inv, now) {
	case InvitationAccepted:
		return inv, ErrInvitationAccepted
	case InvitationExpired:
		return inv, ErrInvitationExpired
	}
	inv.Accepted = true
	at := now
	inv.AcceptedAt = &at
	return inv, nil
}
