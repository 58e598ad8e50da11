package authz

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/lifecycle"
	"github.com/rpggio/shughuli/internal/model"
)

// CanViewTeam allows team members.
func CanViewTeam(actor *model.Identity, team *model.Team) Decision {
	if actor == nil {
		return unauthenticated
	}
	if team.OwnerID == actor.UserID || team.IsMember(actor.UserID) {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "Forbidden")
}

// CanCreateInvitation allows the team owner and the team lead.
func CanCreateInvitation(actor *model.Identity, team *model.Team) Decision {
	if actor == nil {
		return unauthenticated
	}
	if team.OwnerID == actor.UserID {
		return Allow()
	}
	if team.LeadID != nil && *team.LeadID == actor.UserID {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "You do not have permission to invite members to this team")
}

// CanManageMembers follows the invitation rule.
func CanManageMembers(actor *model.Identity, team *model.Team) Decision {
	return CanCreateInvitation(actor, team)
}

// ValidateInvitationTarget checks that email may be invited to team.
// existing is the account registered under email, if any. invitations are the
// team's invitations; only ones pending at now block a new invite.
func ValidateInvitationTarget(team *model.Team, email string, existing *model.User, invitations []model.TeamInvitation, now time.Time) Decision {
	email = NormalizeEmail(email)
	if email == "" {
		return Deny(apperr.KindInvalidInput, "Email is required")
	}

	if existing != nil && team.IsMember(existing.ID) {
		return Deny(apperr.KindConflict, fmt.Sprintf("%s is already a member of this team", existing.Username))
	}

	for i := range invitations {
		inv := &invitations[i]
		if inv.TeamID != team.ID || NormalizeEmail(inv.Email) != email {
			continue
		}
		if lifecycle.InvitationStateAt(inv, now) == lifecycle.InvitationPending {
			return Deny(apperr.KindConflict, "User already has a pending invite")
		}
	}

	return Allow()
}

// CanAcceptInvitation allows the account the invitation was addressed to.
func CanAcceptInvitation(actor *model.Identity, actorEmail string, inv *model.TeamInvitation) Decision {
	if actor == nil {
		return unauthenticated
	}
	if NormalizeEmail(actorEmail) != NormalizeEmail(inv.Email) {
		return Deny(apperr.KindForbidden, "This invitation was sent to a different email address")
	}
	return Allow()
}

// NormalizeEmail trims and lowercases an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
