// Package catalog loads the documentation content: the site manifest, every
// page file and the routes that address them. A loaded Site is immutable;
// reloading builds a new Site and swaps it into a Store.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riguelni/go-docs/internal/placeholder"
)

// RoutePrefix is the leading path segment of every page route.
const RoutePrefix = "/docs"

// Link is a static label/href pair.
type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// Site is a loaded catalog.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	AssetsDir   string
	Links       []Link
	Sections    []*Section
	LoadedAt    time.Time

	pages   []*Page
	byRoute map[string]*Page
}

type Section struct {
	Slug        string
	Title       string
	Subsections []*Subsection
}

type Subsection struct {
	Slug    string
	Title   string
	Section *Section
	Pages   []*Page
}

// Page is one markdown document and its position in the site.
type Page struct {
	ID           uuid.UUID
	Route        string
	CanonicalURL string
	Section      *Section
	Subsection   *Subsection
	Slug         string
	Title        string
	Description  string
	Order        int
	Source       []byte
	Placeholders placeholder.Set
	SourcePath   string
	LastModified time.Time
	// Index is the position in the linear reading order.
	Index int
}

// Route joins the route for a page.
func Route(section, subsection, page string) string {
	return RoutePrefix + "/" + section + "/content/" + subsection + "/" + page
}

// Pages returns every page in reading order.
func (s *Site) Pages() []*Page {
	if s == nil {
		return nil
	}
	return append([]*Page(nil), s.pages...)
}

// Len reports the number of pages.
func (s *Site) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pages)
}

// Page looks a page up by route. Trailing slashes are ignored.
func (s *Site) Page(route string) (*Page, error) {
	if s == nil {
		return nil, ErrContentNotFound
	}
	key := normalizeRoute(route)
	if page, ok := s.byRoute[key]; ok {
		return page, nil
	}
	return nil, &PageError{Path: key, Err: ErrContentNotFound}
}

// First returns the first page in reading order, or nil for an empty site.
func (s *Site) First() *Page {
	if s == nil || len(s.pages) == 0 {
		return nil
	}
	return s.pages[0]
}

// At returns the page at index i in reading order, or nil.
func (s *Site) At(i int) *Page {
	if s == nil || i < 0 || i >= len(s.pages) {
		return nil
	}
	return s.pages[i]
}

// Section returns the section with slug, or nil.
func (s *Site) Section(slug string) *Section {
	if s == nil {
		return nil
	}
	for _, sec := range s.Sections {
		if sec.Slug == slug {
			return sec
		}
	}
	return nil
}

// Search returns pages whose title or source contains query, case-insensitive,
// in reading order. An empty query matches nothing.
func (s *Site) Search(query string) []*Page {
	needle := strings.ToLower(strings.TrimSpace(query))
	if s == nil || needle == "" {
		return nil
	}
	var out []*Page
	for _, p := range s.pages {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(string(p.Source)), needle) {
			out = append(out, p)
		}
	}
	return out
}

// LastModified returns the newest page modification time.
func (s *Site) LastModified() time.Time {
	var latest time.Time
	if s == nil {
		return latest
	}
	for _, p := range s.pages {
		if p.LastModified.After(latest) {
			latest = p.LastModified
		}
	}
	return latest
}

// sortPages orders pages by Order then Slug. It applies when the manifest
// does not list files explicitly.
func sortPages(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Order != pages[j].Order {
			return pages[i].Order < pages[j].Order
		}
		return pages[i].Slug < pages[j].Slug
	})
}

func normalizeRoute(route string) string {
	trimmed := strings.TrimSpace(route)
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	return trimmed
}
