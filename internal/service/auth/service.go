package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	jwt.Service
	username     string
	passwordHash []byte
}

// NewAuthService authenticates the single administrator configured by
// ADMIN_USERNAME and ADMIN_PASSWORD_HASH (a bcrypt hash).
func NewAuthService(jwtService jwt.Service, username string, passwordHash string) auth.AuthService {
	return &AuthServiceImpl{
		Service:      jwtService,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.AccessTokenResponse, error) {
	if a.username == "" {
		return auth.AccessTokenResponse{}, auth.ErrAuthDisabled
	}
	if err := loginReq.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(loginReq.Username), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(loginReq.Password))
	if !usernameOK || passwordErr != nil {
		slog.Warn("Admin login rejected", "username", loginReq.Username)
		return auth.AccessTokenResponse{}, auth.ErrInvalidCredentials
	}

	var (
		tokenResponse auth.AccessTokenResponse
		err           error
	)
	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(a.username, true)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if a.username == "" {
		return auth.ErrAuthDisabled
	}
	if token == "" {
		return auth.ErrInvalidToken
	}
	if !a.Service.IsTokenRevoked(token) {
		a.Service.RevokeToken(token)
	}
	return nil
}
