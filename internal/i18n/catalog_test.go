package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_T(t *testing.T) {
	c, err := NewCatalog([]string{"en", "es", "pt"})
	require.NoError(t, err)

	assert.Equal(t, "Sign in", c.T("en", "sign-in"))
	assert.Equal(t, "Iniciar sesión", c.T("es", "sign-in"))
	assert.Equal(t, "Entrar", c.T("PT", "sign-in"))
	assert.Equal(t, "Sign in", c.T("fr", "sign-in"), "unknown language renders English")
	assert.Equal(t, "no-such-key", c.T("es", "no-such-key"))
}

func TestCatalog_LanguageWithoutTranslations(t *testing.T) {
	c, err := NewCatalog([]string{"de"})
	require.NoError(t, err)
	assert.Equal(t, "Forgot password?", c.T("de", "forgot-password"))
}

func TestNewCatalog_InvalidCode(t *testing.T) {
	_, err := NewCatalog([]string{"not a tag"})
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	supported := []string{"en", "es", "pt"}
	assert.Equal(t, "pt", Match(supported, "pt-BR,pt;q=0.9,en;q=0.5"))
	assert.Equal(t, "es", Match(supported, "fr;q=0.9, es;q=0.8"))
	assert.Equal(t, "", Match(supported, ""))
	assert.Equal(t, "", Match(nil, "en"))
}

func TestRequestState(t *testing.T) {
	base := State{Language: "en", Supported: []string{"en", "es", "pt"}}

	t.Run("cookie wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "ES"})
		r.Header.Set("Accept-Language", "pt")
		assert.Equal(t, "es", RequestState(r, base).Language)
	})
	t.Run("unsupported cookie falls through to header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "fr"})
		r.Header.Set("Accept-Language", "pt-BR")
		assert.Equal(t, "pt", RequestState(r, base).Language)
	})
	t.Run("default", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "en", RequestState(r, base).Language)
	})
}

func TestNewCookie(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	c := NewCookie("es", true, now)
	assert.Equal(t, "userLanguage", c.Name)
	assert.Equal(t, "es", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
	assert.Equal(t, now.AddDate(0, 0, 365), c.Expires)
	assert.True(t, c.Secure)
	assert.True(t, c.Partitioned)
	assert.False(t, c.HttpOnly)

	insecure := NewCookie("es", false, now)
	assert.False(t, insecure.Secure)
	assert.False(t, insecure.Partitioned)
}
