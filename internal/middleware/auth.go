package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/edgecraft/backend/internal/auth"
	"github.com/edgecraft/backend/pkg/utils"
)

type contextKey int

const userIDKey contextKey = iota

// Authenticator guards routes behind a Bearer session token.
type Authenticator struct {
	sessions *auth.SessionStore
}

// NewAuthenticator builds the auth middleware over the session store.
func NewAuthenticator(sessions *auth.SessionStore) *Authenticator {
	return &Authenticator{sessions: sessions}
}

// RequireUser rejects requests without a valid session and stores the
// resolved user id on the request context.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			utils.RespondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := a.sessions.UserIDByToken(r.Context(), token)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID stores the authenticated user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// bearerToken extracts the raw token from the Authorization header, or from
// the "token" query parameter for transports that cannot set headers
// (EventSource, WebSocket).
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
