package generator

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/riguelni/go-docs/internal/catalog"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists pages in reading order. Pages without a modification
// time are stamped with fallback.
func buildSitemap(baseURL string, pages []*catalog.Page, fallback time.Time) (string, error) {
	set := urlset{Xmlns: sitemapNamespace}
	seen := make(map[string]bool, len(pages))
	for _, page := range pages {
		if page == nil {
			continue
		}
		loc := absoluteURL(baseURL, page.Route)
		if seen[loc] {
			continue
		}
		seen[loc] = true

		modified := page.LastModified
		if modified.IsZero() {
			modified = fallback
		}
		entry := sitemapURL{Loc: loc}
		if !modified.IsZero() {
			entry.LastMod = modified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("generator: encode sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func buildRobots(baseURL string, includeSitemap bool) string {
	robots := "User-agent: *\nAllow: /\n"
	if includeSitemap {
		robots += fmt.Sprintf("\nSitemap: %s\n", absoluteURL(baseURL, "/sitemap.xml"))
	}
	return robots
}
