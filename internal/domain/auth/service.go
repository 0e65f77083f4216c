package auth

import (
	"context"
)

type AuthService interface {
	// Login exchanges the administrator credential for an access token.
	Login(ctx context.Context, req LoginRequest) (AccessTokenResponse, error)
	// Logout revokes the given access token until the process restarts.
	Logout(ctx context.Context, token string) error
}
