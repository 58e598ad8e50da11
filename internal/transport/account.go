package transport

import (
	"net/http"
	"time"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/domain/user"
	"github.com/rpggio/shughuli/internal/model"
)

type registerBody struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.svc.Users.Register(r.Context(), user.RegisterRequest{
		Name:     body.Name,
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.svc.Users.Authenticate(r.Context(), body.Login, body.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusOK, u)
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u *model.User) {
	if s.tokens == nil {
		writeJSON(w, status, tokenResponse{User: u})
		return
	}
	token, expires, err := s.tokens.Issue(u, s.now())
	if err != nil {
		s.fail(w, r, apperr.Internal("issue token", err))
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, ExpiresAt: expires, User: u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Me(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
