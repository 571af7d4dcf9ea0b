package utils

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// BaseName strips any directory part from a client supplied name so it can
// be joined under a server directory. It returns "" for names that reduce
// to nothing usable.
func BaseName(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	if s == "" {
		return ""
	}
	b := filepath.Base(path.Clean("/" + s))
	if b == "/" || b == "." || b == ".." {
		return ""
	}
	return b
}

// PhotoURL is the public path an uploaded project photo is served from.
func PhotoURL(projectID, filename string) string {
	return "/uploads/" + url.PathEscape(projectID) + "/" + url.PathEscape(filename)
}

// SafePageID reports whether id can name a page without any path tricks.
func SafePageID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`)
}
