package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/winnersswap/swap-web/internal/i18n"
	"github.com/winnersswap/swap-web/internal/metrics"
)

// LanguageHandler handles the language selection endpoint.
type LanguageHandler struct {
	langs  *i18n.Store
	secure bool
	now    func() time.Time
}

// NewLanguageHandler creates a new LanguageHandler. secure controls the
// Secure and Partitioned cookie attributes.
func NewLanguageHandler(langs *i18n.Store, secure bool) *LanguageHandler {
	return &LanguageHandler{langs: langs, secure: secure, now: time.Now}
}

// Set handles POST /language. The visitor's state is derived from the shared
// store by dispatching ChangeLanguage through the reducer; the result is
// mirrored into the userLanguage cookie.
func (h *LanguageHandler) Set(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	lang := strings.ToLower(strings.TrimSpace(r.FormValue("lang")))

	next := i18n.Reduce(h.langs.State(), i18n.ChangeLanguage{Language: lang})
	if lang == "" || next.Language != lang {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, i18n.NewCookie(next.Language, h.secure, h.now()))
	metrics.LanguageChangesTotal.WithLabelValues(next.Language).Inc()

	if isHTMX(r) {
		// Re-render the page in the new language.
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path of the Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	return ref.Path
}
