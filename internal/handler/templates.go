package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/winnersswap/swap-web/internal/auth"
	"github.com/winnersswap/swap-web/internal/build"
	"github.com/winnersswap/swap-web/internal/i18n"
	"github.com/winnersswap/swap-web/internal/nav"
	"github.com/winnersswap/swap-web/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Lang      string
	Languages []string
	Nav       []nav.RenderedItem
	User      *auth.User // nil for signed-out visitors
	Version   string

	catalog *i18n.Catalog
}

// T translates key into the page language.
func (p BasePage) T(key string) string {
	if p.catalog == nil {
		return key
	}
	return p.catalog.T(p.Lang, key)
}

// Shell builds the layout data shared by every page: navigation, language
// selection, and the signed-in user.
type Shell struct {
	langs   *i18n.Store
	catalog *i18n.Catalog
}

// NewShell creates a Shell.
func NewShell(langs *i18n.Store, catalog *i18n.Catalog) *Shell {
	return &Shell{langs: langs, catalog: catalog}
}

// Page returns the BasePage for r.
func (s *Shell) Page(r *http.Request) BasePage {
	st := i18n.RequestState(r, s.langs.State())
	return BasePage{
		Lang:      st.Language,
		Languages: i18n.SplitSupported(st.SupportedAsString()),
		Nav:       nav.Build(r.URL.Path),
		User:      auth.UserFromContext(r.Context()),
		Version:   build.Version,
		catalog:   s.catalog,
	}
}

// pageCache maps a render key (e.g. "login.html") to a compiled template set
// containing base.html + partials + that one page file. Each page gets its own
// set so {{define "content"}} blocks don't collide.
var (
	pageCache    map[string]*template.Template
	fragmentTmpl *template.Template
)

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	// Standalone set for HTMX fragment rendering (partials only).
	fragmentTmpl = template.Must(template.New("").ParseFS(web.TemplateFS, partials...))

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		pageCache[filepath.Base(p)] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

// isHTMX returns true when the request was sent by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render executes a full-page template (base layout + named page).
func render(w http.ResponseWriter, tmpl string, data any) {
	renderStatus(w, http.StatusOK, tmpl, data)
}

// renderStatus is render with an explicit status code.
func renderStatus(w http.ResponseWriter, status int, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// renderFragment executes a named template from the partials set.
func renderFragment(w http.ResponseWriter, tmpl string, data any) {
	var buf strings.Builder
	if err := fragmentTmpl.ExecuteTemplate(&buf, tmpl, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}
