// Package media turns stored object file names into public CDN URLs.
package media

import (
	"net/url"
	"strings"
)

// URL joins a stored file name to the CDN base. Values that are already
// absolute URLs are returned unchanged, and an empty base leaves the name as is.
func URL(base, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	if u, err := url.Parse(filename); err == nil && u.Scheme != "" && u.Host != "" {
		return filename
	}
	if base == "" {
		return filename
	}
	segments := strings.Split(strings.TrimLeft(filename, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

// Resolver is a URL builder bound to one CDN base.
type Resolver struct {
	base string
}

func NewResolver(base string) Resolver {
	return Resolver{base: base}
}

func (r Resolver) URL(filename string) string {
	return URL(r.base, filename)
}
