package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crucial707/taskboard/internal/auth"
)

type key string

// UsernameKey holds the authenticated username in the request context.
const UsernameKey key = "username"

// MessageInvalidToken is the body error for every authentication failure.
const MessageInvalidToken = "Invalid JWT Token"

// JWTMiddleware rejects requests without a valid "Bearer <token>" Authorization
// header and stores the token's username in the request context.
func JWTMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername returns the username set by JWTMiddleware, or "" when the request was not authenticated.
func GetUsername(ctx context.Context) string {
	s, _ := ctx.Value(UsernameKey).(string)
	return s
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": MessageInvalidToken})
}
