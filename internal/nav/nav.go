// Package nav defines the static navigation shell.
package nav

import "strings"

// Item is a navigation target. Title is the i18n key of the display title.
type Item struct {
	Path  string
	Title string
}

// RenderedItem is an Item resolved against the current request path.
type RenderedItem struct {
	Href   string
	Title  string
	Active bool
}

// Items is the navigation shown in both the desktop bar and the mobile menu.
var Items = []Item{
	{Path: "/", Title: "nav.home"},
	{Path: "/trade", Title: "nav.trade"},
	{Path: "/rewards", Title: "nav.rewards"},
	{Path: "/perfil", Title: "nav.perfil"},
}

// Build resolves Items against currentPath.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	out := make([]RenderedItem, 0, len(Items))
	for _, it := range Items {
		out = append(out, RenderedItem{
			Href:   it.Path,
			Title:  it.Title,
			Active: IsActive(it.Path, currentPath),
		})
	}
	return out
}

// IsActive reports whether itemPath matches currentPath exactly or is a parent
// of it on a segment boundary. "/" only matches itself.
func IsActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, strings.TrimSuffix(itemPath, "/")+"/")
}
