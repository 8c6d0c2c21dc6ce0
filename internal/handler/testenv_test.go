package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/winnersswap/swap-web/internal/auth"
	"github.com/winnersswap/swap-web/internal/authclient"
	"github.com/winnersswap/swap-web/internal/handler"
	"github.com/winnersswap/swap-web/internal/i18n"
	"github.com/winnersswap/swap-web/internal/login"
	"github.com/winnersswap/swap-web/internal/testutil"
)

// testEnv is the full router wired against a fake authentication service.
type testEnv struct {
	Router        http.Handler
	Languages     *i18n.Store
	UpstreamCalls *atomic.Int32
}

// newTestEnv starts a fake authentication service answering with upstream and
// builds the router over an in-memory session database.
func newTestEnv(t *testing.T, upstream http.HandlerFunc) *testEnv {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	sm := auth.NewSessionManager(testutil.NewTestDB(t), "sqlite3", time.Hour, false)
	langs := i18n.NewStore([]string{"en", "es", "pt"}, "en")
	catalog, err := i18n.NewCatalog(langs.State().Supported)
	require.NoError(t, err)

	client := authclient.New(srv.URL, 2*time.Second, authclient.WithHTTPClient(srv.Client()))
	router := handler.NewRouter(handler.Deps{
		Logger:         zap.NewNop(),
		SessionManager: sm,
		AuthHandlers:   auth.NewHandlers(sm),
		AuthMiddleware: auth.NewMiddleware(sm),
		Languages:      langs,
		Catalog:        catalog,
		LoginFlow:      login.NewFlow(client),
	})
	return &testEnv{Router: router, Languages: langs, UpstreamCalls: calls}
}

// okUpstream answers every login with a user and token.
func okUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"user":{"id":1,"name":"Ana","email":"ana@example.com"},"token":"tok"}`))
}

type reqOpt func(*http.Request)

func htmx(r *http.Request) { r.Header.Set("HX-Request", "true") }

func withCookies(cs []*http.Cookie) reqOpt {
	return func(r *http.Request) {
		for _, c := range cs {
			r.AddCookie(c)
		}
	}
}

func withHeader(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func (e *testEnv) get(t *testing.T, path string, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(t *testing.T, path string, form url.Values, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func errorTexts(doc *goquery.Document) []string {
	var out []string
	doc.Find("#login-errors p").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func cookieNamed(cs []*http.Cookie, name string) *http.Cookie {
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	return nil
}
