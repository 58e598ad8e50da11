package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

type contextKey int

const (
	identityKey contextKey = iota
	sessionIDKey
)

// IdentityResolver resolves the acting identity from a bearer token.
type IdentityResolver interface {
	Parse(token string) (*model.Identity, error)
}

// identityFrom returns the acting identity, or nil when none was resolved.
func identityFrom(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(identityKey).(*model.Identity)
	return id
}

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

func userIDFrom(ctx context.Context) string {
	if id := identityFrom(ctx); id != nil {
		return id.UserID
	}
	return ""
}

// authMiddleware requires a bearer token on tool calls.
func authMiddleware(resolver IdentityResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol methods and resource reads need no identity.
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, unauthorized("missing headers")
			}

			header := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				return nil, unauthorized("missing bearer token")
			}

			id, err := resolver.Parse(token)
			if err != nil || id == nil {
				return nil, unauthorized("invalid bearer token")
			}

			ctx = context.WithValue(ctx, identityKey, id)
			return next(ctx, method, req)
		}
	}
}

// defaultIdentityMiddleware acts as a fixed user when auth is off. A nil
// identity leaves calls anonymous.
func defaultIdentityMiddleware(id *model.Identity) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if id != nil {
				ctx = context.WithValue(ctx, identityKey, id)
			}
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware extracts the session ID from the Mcp-Session-Id header
// (HTTP) or request metadata (stdio).
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}

			// Some notifications carry nil params behind a non-nil interface.
			if sessionID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if sid, ok := meta["session_id"].(string); ok {
								sessionID = sid
							}
						}
					}()
				}
			}

			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}
			return next(ctx, method, req)
		}
	}
}

func unauthorized(reason string) error {
	return &APIError{
		Code:         string(apperr.KindUnauthorized),
		Message:      "unauthorized: " + reason,
		RecoveryHint: "Send Authorization: Bearer <token> from POST /auth/login",
	}
}
