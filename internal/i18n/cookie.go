package i18n

import (
	"net/http"
	"time"
)

const (
	// CookieName mirrors the selected language on the client.
	CookieName = "userLanguage"

	// CookieLifetime is how long the language cookie persists.
	CookieLifetime = 365 * 24 * time.Hour
)

// NewCookie returns the userLanguage cookie for lang. Partitioned cookies must
// be Secure, so both attributes are dropped when secure is false.
func NewCookie(lang string, secure bool, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:        CookieName,
		Value:       lang,
		Path:        "/",
		Expires:     now.Add(CookieLifetime).UTC(),
		MaxAge:      int(CookieLifetime / time.Second),
		Secure:      secure,
		Partitioned: secure,
		HttpOnly:    false,
		SameSite:    http.SameSiteLaxMode,
	}
}
