package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// UserIDKey is the context key for the requesting user's ID.
const UserIDKey contextKey = "user_id"

// UserExtractor extracts the requesting user from the request.
// It checks the X-User-Id header, then the user query parameter, and
// falls back to "anonymous". Authentication itself is handled upstream;
// the orchestrator only needs an identity to key runs and usage counters.
func UserExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ""

		if h := r.Header.Get("X-User-Id"); h != "" {
			user = strings.TrimSpace(h)
		}
		if user == "" {
			if q := r.URL.Query().Get("user"); q != "" {
				user = strings.TrimSpace(q)
			}
		}
		if user == "" {
			user = "anonymous"
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID retrieves the user ID from the request context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return "anonymous"
}
