package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/winnersswap/swap-web/internal/auth"
	"github.com/winnersswap/swap-web/internal/logging"
	"github.com/winnersswap/swap-web/internal/login"
)

// LoginForm holds the echoed form values. The password is never rendered back.
type LoginForm struct {
	Email    string
	Remember bool
	FormID   string
}

// LoginPage is the template data for the login page and its fragments.
type LoginPage struct {
	BasePage
	Form        LoginForm
	FieldErrors login.FieldErrors
	Errors      []string
	CanSubmit   bool
	OOB         bool
}

// Submitter runs one login attempt.
type Submitter interface {
	Submit(ctx context.Context, f login.Form) login.Outcome
}

// LoginHandler serves the login page, eager validation, and submission.
type LoginHandler struct {
	shell    *Shell
	flow     Submitter
	sessions *auth.Handlers
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(shell *Shell, flow Submitter, sessions *auth.Handlers) *LoginHandler {
	return &LoginHandler{shell: shell, flow: flow, sessions: sessions}
}

// Show handles GET /login. Signed-in users go straight to /.
func (h *LoginHandler) Show(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, "login.html", LoginPage{
		BasePage: h.shell.Page(r),
		Form:     LoginForm{FormID: uuid.NewString()},
	})
}

// Validate handles POST /login/validate, fired on every field change. It
// swaps the field errors and the submit button out of band. A field's error is
// only shown once the field has content or is the one that fired.
func (h *LoginHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	f := formFromRequest(r)
	fe := login.Validate(f)

	shown := login.FieldErrors{}
	trigger := r.Header.Get("HX-Trigger-Name")
	for field, msg := range fe {
		if r.FormValue(field) != "" || field == trigger {
			shown[field] = msg
		}
	}

	renderFragment(w, "login_validation", LoginPage{
		BasePage:    h.shell.Page(r),
		FieldErrors: shown,
		CanSubmit:   fe.Valid(),
		OOB:         true,
	})
}

// Submit handles POST /login. Success navigates the whole page to /; failure
// replaces the error list above the submit control.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	f := formFromRequest(r)
	out := h.flow.Submit(r.Context(), f)

	if out.OK() {
		if err := h.sessions.Establish(r.Context(), out.Result, f.Remember); err != nil {
			logging.FromContext(r.Context()).Error("start session", zap.Error(err))
			out = login.Outcome{Errors: []string{login.GenericError}}
		} else {
			if isHTMX(r) {
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	if f.FormID == "" {
		f.FormID = uuid.NewString()
	}
	data := LoginPage{
		BasePage:    h.shell.Page(r),
		Form:        LoginForm{Email: f.Email, Remember: f.Remember, FormID: f.FormID},
		FieldErrors: out.FieldErrors,
		Errors:      out.Errors,
		CanSubmit:   out.FieldErrors.Valid(),
	}
	if isHTMX(r) {
		data.OOB = true
		renderFragment(w, "login_result", data)
		return
	}
	// A full page reload drops the password, so the button starts disabled.
	data.CanSubmit = false
	renderStatus(w, http.StatusUnprocessableEntity, "login.html", data)
}

func formFromRequest(r *http.Request) login.Form {
	f := login.Form{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Remember: r.FormValue("remember") == "true" || r.FormValue("remember") == "on",
		FormID:   r.FormValue("form_id"),
	}
	return f
}
