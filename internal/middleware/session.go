package middleware

import (
	"context"
	"net/http"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/session"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionCookie is the name of the cookie holding the session ID
const SessionCookie = "contract_session"

// SessionStore is the part of the session store the middleware needs
type SessionStore interface {
	GetOrCreate(id string) (*session.Session, bool)
}

// Sessions attaches the browser's session to the request context, issuing a
// new cookie when the session is unknown or expired.
func Sessions(store SessionStore, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			sess, created := store.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the session from context
func SessionFromContext(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}
