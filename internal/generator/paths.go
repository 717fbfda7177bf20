package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a route to its index.html relative to the output
// directory: /docs/a/content/b/c -> docs/a/content/b/c/index.html.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	clean = path.Clean(clean)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func absoluteURL(baseURL, route string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}
