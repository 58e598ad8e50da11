package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/shughuli/internal/domain/team"
	"github.com/rpggio/shughuli/internal/mail"
	"github.com/rpggio/shughuli/internal/model"
)

type createTeamBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type inviteBody struct {
	Email string         `json:"email"`
	Role  model.TeamRole `json:"role"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Teams.ListForUser(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var body createTeamBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.svc.Teams.Create(r.Context(), IdentityFromContext(r.Context()), team.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Teams.Get(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := s.svc.Teams.ListInvitations(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var body inviteBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	actor := IdentityFromContext(r.Context())
	teamID := chi.URLParam(r, "id")
	inv, err := s.svc.Teams.Invite(r.Context(), actor, team.InviteRequest{
		TeamID: teamID,
		Email:  body.Email,
		Role:   body.Role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.sendInvitationMail(r.Context(), actor, inv)
	writeJSON(w, http.StatusCreated, inv)
}

// sendInvitationMail delivers the invitation link. Failures are logged and
// never undo the invitation.
func (s *Server) sendInvitationMail(ctx context.Context, actor *model.Identity, inv *model.TeamInvitation) {
	teamName := inv.TeamID
	if t, err := s.svc.Teams.Get(ctx, actor, inv.TeamID); err == nil {
		teamName = t.Name
	}

	msg := mail.Invitation{
		To:        inv.Email,
		TeamName:  teamName,
		InvitedBy: actor.Username,
		Token:     inv.Token,
		AcceptURL: mail.AcceptURL(s.baseURL, inv.Token),
	}
	if inv.ExpiresAt != nil {
		msg.ExpiresText = "on " + inv.ExpiresAt.Format("January 2, 2006")
	}

	if err := s.mailer.SendInvitation(ctx, msg); err != nil && s.logger != nil {
		s.logger.Warn("invitation email failed", "invitation_id", inv.ID, "error", err)
	}
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Teams.Accept(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Teams.RemoveMember(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
