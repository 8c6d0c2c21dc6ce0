package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

type contextKey string

const UserContextKey contextKey = "user"

// User is the signed-in user as recorded in the session.
type User struct {
	ID    string
	Name  string
	Email string
}

// DisplayName returns Name, or Email when the service sent no name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Middleware provides HTTP middleware for authentication.
type Middleware struct {
	sessions *scs.SessionManager
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager) *Middleware {
	return &Middleware{sessions: sm}
}

// OptionalUser sets the *User on the request context when the session has one.
func (m *Middleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := m.sessionUser(r.Context()); u != nil {
			r = r.WithContext(context.WithValue(r.Context(), UserContextKey, u))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if no signed-in session exists.
// On success, sets the *User on the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := m.sessionUser(r.Context())
		if u == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) sessionUser(ctx context.Context) *User {
	id := m.sessions.GetString(ctx, SessionUserIDKey)
	if id == "" {
		return nil
	}
	return &User{
		ID:    id,
		Name:  m.sessions.GetString(ctx, SessionNameKey),
		Email: m.sessions.GetString(ctx, SessionEmailKey),
	}
}

// UserFromContext retrieves the signed-in user from the context.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(UserContextKey).(*User)
	return u
}
