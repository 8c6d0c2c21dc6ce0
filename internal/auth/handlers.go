package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/winnersswap/swap-web/internal/authclient"
)

// Handlers manages the session side of signing in and out.
type Handlers struct {
	sessions *scs.SessionManager
}

// NewHandlers creates a new Handlers.
func NewHandlers(sm *scs.SessionManager) *Handlers {
	return &Handlers{sessions: sm}
}

// Establish starts a signed-in session for a successful login. The session
// token is renewed first to prevent fixation.
func (h *Handlers) Establish(ctx context.Context, res *authclient.LoginResult, remember bool) error {
	if err := h.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	userID := string(res.User.ID)
	if userID == "" {
		userID = res.User.Email
	}
	if userID == "" {
		userID = uuid.NewString()
	}
	h.sessions.Put(ctx, SessionUserIDKey, userID)
	h.sessions.Put(ctx, SessionNameKey, res.User.Name)
	h.sessions.Put(ctx, SessionEmailKey, res.User.Email)
	h.sessions.Put(ctx, SessionTokenKey, res.Token)
	h.sessions.RememberMe(ctx, remember)
	return nil
}

// Logout destroys the session and redirects to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
