package handler

import (
	"net/http"
)

// SectionPage is the template data for placeholder sections.
type SectionPage struct {
	BasePage
	TitleKey string
}

type notFoundPage struct {
	BasePage
	Path string
}

// PagesHandler serves the home page and the sections linked from the shell.
type PagesHandler struct {
	shell *Shell
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(shell *Shell) *PagesHandler {
	return &PagesHandler{shell: shell}
}

// Home serves GET /.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, "home.html", h.shell.Page(r))
}

// Section returns a handler rendering the placeholder page titled by titleKey.
func (h *PagesHandler) Section(titleKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, "section.html", SectionPage{BasePage: h.shell.Page(r), TitleKey: titleKey})
	}
}

// NotFound renders the 404 page inside the shell.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderStatus(w, http.StatusNotFound, "404.html", notFoundPage{BasePage: h.shell.Page(r), Path: r.URL.Path})
}
