package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"village-server/internal/auth"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/response"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
	AuthCookieName            = "auth_token"
)

// JWT authenticates requests with a bearer token, falling back to the
// auth_token cookie, and stores the claims in the request context.
func JWT(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			token := bearerToken(r)
			if token == "" {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				response.Error(w, r, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			logger.Debug("JWT authentication successful",
				"player_id", claims.PlayerID,
				"username", claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// PlayerID returns the authenticated player of the request.
func PlayerID(r *http.Request) (string, error) {
	claims := GetUserFromContext(r)
	if claims == nil {
		return "", errors.Unauthorized("no user claims found in context")
	}
	return claims.PlayerID, nil
}
