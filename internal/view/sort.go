package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wahlandcase/gitweb/internal/models"
)

// sortListings orders by entry type, then by name. "dir" collates before
// "file", so directories come first.
func sortListings(listings []models.Listing) {
	// A Collator is not safe for concurrent use
	c := collate.New(language.English)
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i].Entry, listings[j].Entry
		if n := c.CompareString(a.Type, b.Type); n != 0 {
			return n < 0
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
}

type crumb struct {
	Name string
	Path string
}

// breadcrumbs splits path into clickable segments, each carrying the
// accumulated prefix up to and including itself. The first crumb is the
// repository root.
func breadcrumbs(root, path string) []crumb {
	crumbs := []crumb{{Name: root, Path: ""}}
	prefix := ""
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if prefix == "" {
			prefix = part
		} else {
			prefix += "/" + part
		}
		crumbs = append(crumbs, crumb{Name: part, Path: prefix})
	}
	return crumbs
}

// entryPath is the repository path of a child of dir
func entryPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
