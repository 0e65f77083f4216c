package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AdminRequired guards administrative routes. It runs after jwtauth.Verifier
// and accepts only unrevoked access tokens carrying the is_admin claim.
func AdminRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, _ := claims["type"].(string); tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
				slog.Warn("Non-admin token on admin route", "subject", token.Subject(), "path", r.URL.Path)
				response.HandleError(w, auth.ErrAdminPrivilegeRequired)
				return
			}

			slog.Debug("Admin request", "subject", token.Subject(), "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}
