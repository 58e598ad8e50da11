package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/stretchr/testify/require"
)

type staticResolver struct{}

func (staticResolver) Parse(token string) (*model.Identity, error) {
	if token != "good" {
		return nil, errors.New("invalid")
	}
	return &model.Identity{UserID: "u1", Username: "amani"}, nil
}

func callThrough(t *testing.T, mw sdkmcp.Middleware, method string, header http.Header) (*model.Identity, error) {
	t.Helper()
	var seen *model.Identity
	handler := mw(func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		seen = identityFrom(ctx)
		return nil, nil
	})
	req := &sdkmcp.CallToolRequest{Extra: &sdkmcp.RequestExtra{Header: header}}
	_, err := handler(context.Background(), method, req)
	return seen, err
}

func TestAuthMiddleware(t *testing.T) {
	mw := authMiddleware(staticResolver{})

	id, err := callThrough(t, mw, "tools/call", http.Header{"Authorization": []string{"Bearer good"}})
	require.NoError(t, err)
	require.Equal(t, "u1", id.UserID)

	_, err = callThrough(t, mw, "tools/call", http.Header{"Authorization": []string{"Bearer bad"}})
	require.ErrorContains(t, err, "invalid bearer token")

	_, err = callThrough(t, mw, "tools/call", http.Header{})
	require.ErrorContains(t, err, "missing bearer token")

	id, err = callThrough(t, mw, "tools/list", http.Header{})
	require.NoError(t, err)
	require.Nil(t, id)
}

func TestDefaultIdentityMiddleware(t *testing.T) {
	id, err := callThrough(t, defaultIdentityMiddleware(&model.Identity{UserID: "local"}), "tools/call", nil)
	require.NoError(t, err)
	require.Equal(t, "local", id.UserID)

	id, err = callThrough(t, defaultIdentityMiddleware(nil), "tools/call", nil)
	require.NoError(t, err)
	require.Nil(t, id)
}
