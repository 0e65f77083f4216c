package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(jwtSvc, "admin", string(hash)), jwtSvc
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	svc, jwtSvc := newTestAuthService(t)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))

	token, err := jwtSvc.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "root", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "username")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestAuthService_Login_Disabled(t *testing.T) {
	svc := NewAuthService(jwt.NewJWTService(testSecret, testAccessExp), "", "")

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "admin", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAuthDisabled)
	assert.ErrorIs(t, svc.Logout(context.Background(), "token"), auth.ErrAuthDisabled)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, jwtSvc := newTestAuthService(t)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	assert.True(t, jwtSvc.IsTokenRevoked(resp.AccessToken))

	// revoking twice is harmless
	assert.NoError(t, svc.Logout(ctx, resp.AccessToken))
	assert.ErrorIs(t, svc.Logout(ctx, ""), auth.ErrInvalidToken)
}
