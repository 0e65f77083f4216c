package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
)

func newGuardedHandler(jwtService jwt.Service) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return jwtauth.Verifier(jwtService.JWTAuth())(AdminRequired(jwtService)(ok))
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/attendance/abc", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "1h")
	h := newGuardedHandler(jwtService)

	adminToken, _, err := jwtService.GenerateAccessToken("admin", true)
	require.NoError(t, err)
	userToken, _, err := jwtService.GenerateAccessToken("kiosk", false)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, "not-a-jwt").Code)
	})

	t.Run("token without admin claim", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, userToken).Code)
	})

	t.Run("admin token", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(h, adminToken).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		jwtService.RevokeToken(adminToken)
		rec := serve(h, adminToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token revoked")
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("some-other-secret", "1h")
		foreign, _, err := other.GenerateAccessToken("admin", true)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve(h, foreign).Code)
	})
}
