// Package nav derives the navigation chrome around a page: breadcrumbs with
// sibling dropdowns, the section sidebar, prev/next links and the "on this
// page" anchors.
package nav

import (
	"strconv"
	"time"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/markdown"
)

// Entry is a static label/href pair.
type Entry struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active,omitempty"`
}

// Crumb is one breadcrumb. Siblings populate its dropdown.
type Crumb struct {
	Entry
	Siblings []Entry `json:"siblings,omitempty"`
}

// Group is a sidebar block for one subsection.
type Group struct {
	Title   string  `json:"title"`
	Slug    string  `json:"slug"`
	Active  bool    `json:"active,omitempty"`
	Entries []Entry `json:"entries"`
}

// Anchor is an "on this page" link to a heading.
type Anchor struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Level int    `json:"level"`
}

// Scroll is the contract handed to the client script: scroll to the anchor
// minus HeaderOffset pixels after waiting SettleDelay for layout.
type Scroll struct {
	HeaderOffset int           `json:"header_offset"`
	SettleDelay  time.Duration `json:"settle_delay"`
}

// Attrs renders the contract as data attributes.
func (s Scroll) Attrs() map[string]string {
	return map[string]string{
		"data-scroll-offset": strconv.Itoa(s.HeaderOffset),
		"data-scroll-settle": strconv.FormatInt(s.SettleDelay.Milliseconds(), 10),
	}
}

// Options selects the heading levels listed on the page and the scroll
// contract. Zero levels default to 2..3.
type Options struct {
	MinLevel     int
	MaxLevel     int
	HeaderOffset int
	SettleDelay  time.Duration
}

// Navigation is everything the layout needs besides the page body.
type Navigation struct {
	Header      []Entry  `json:"header"`
	Sections    []Entry  `json:"sections"`
	Breadcrumbs []Crumb  `json:"breadcrumbs"`
	Sidebar     []Group  `json:"sidebar"`
	Prev        *Entry   `json:"prev,omitempty"`
	Next        *Entry   `json:"next,omitempty"`
	OnThisPage  []Anchor `json:"on_this_page"`
	Scroll      Scroll   `json:"scroll"`
}

const rootLabel = "Docs"

// Build assembles the navigation for page. headings come from the rendered
// page and may be nil while the page is still loading.
func Build(site *catalog.Site, page *catalog.Page, headings []markdown.Heading, opts Options) Navigation {
	n := Navigation{
		Scroll: Scroll{HeaderOffset: opts.HeaderOffset, SettleDelay: opts.SettleDelay},
	}
	if site == nil || page == nil {
		return n
	}

	n.Header = headerEntries(site)
	n.Sections = sectionEntries(site, page.Section)
	n.Breadcrumbs = Breadcrumbs(site, page)
	n.Sidebar = Sidebar(page)
	n.Prev, n.Next = Adjacent(site, page)
	n.OnThisPage = OnThisPage(headings, opts.MinLevel, opts.MaxLevel)
	return n
}

// Site returns the page independent chrome: header links and one entry per
// section. Used for pages outside the catalog such as the 404 page.
func Site(site *catalog.Site, opts Options) Navigation {
	n := Navigation{
		Scroll: Scroll{HeaderOffset: opts.HeaderOffset, SettleDelay: opts.SettleDelay},
	}
	if site == nil {
		return n
	}
	n.Header = headerEntries(site)
	n.Sections = sectionEntries(site, nil)
	return n
}

func headerEntries(site *catalog.Site) []Entry {
	entries := make([]Entry, 0, len(site.Links))
	for _, link := range site.Links {
		entries = append(entries, Entry{Label: link.Label, Href: link.Href})
	}
	return entries
}

// Breadcrumbs returns Docs > Section > Subsection > Page.
func Breadcrumbs(site *catalog.Site, page *catalog.Page) []Crumb {
	if site == nil || page == nil || page.Section == nil || page.Subsection == nil {
		return nil
	}
	root := Crumb{Entry: Entry{Label: rootLabel, Href: href(site.First())}}

	section := Crumb{
		Entry:    Entry{Label: page.Section.Title, Href: href(firstInSection(page.Section))},
		Siblings: sectionEntries(site, page.Section),
	}

	subsection := Crumb{Entry: Entry{Label: page.Subsection.Title, Href: href(firstIn(page.Subsection))}}
	for _, sub := range page.Section.Subsections {
		subsection.Siblings = append(subsection.Siblings, Entry{
			Label:  sub.Title,
			Href:   href(firstIn(sub)),
			Active: sub == page.Subsection,
		})
	}

	current := Crumb{Entry: Entry{Label: page.Title, Href: page.Route, Active: true}}
	current.Siblings = pageEntries(page.Subsection, page)

	return []Crumb{root, section, subsection, current}
}

// Sidebar returns one group per subsection of the page's section.
func Sidebar(page *catalog.Page) []Group {
	if page == nil || page.Section == nil {
		return nil
	}
	groups := make([]Group, 0, len(page.Section.Subsections))
	for _, sub := range page.Section.Subsections {
		groups = append(groups, Group{
			Title:   sub.Title,
			Slug:    sub.Slug,
			Active:  sub == page.Subsection,
			Entries: pageEntries(sub, page),
		})
	}
	return groups
}

// Adjacent returns the previous and next pages in reading order.
func Adjacent(site *catalog.Site, page *catalog.Page) (prev, next *Entry) {
	if site == nil || page == nil {
		return nil, nil
	}
	if p := site.At(page.Index - 1); p != nil {
		prev = &Entry{Label: p.Title, Href: p.Route}
	}
	if p := site.At(page.Index + 1); p != nil {
		next = &Entry{Label: p.Title, Href: p.Route}
	}
	return prev, next
}

// OnThisPage lists headings with minLevel <= level <= maxLevel as #fragment
// links. Headings without an id are skipped since nothing can link to them.
func OnThisPage(headings []markdown.Heading, minLevel, maxLevel int) []Anchor {
	if minLevel <= 0 {
		minLevel = 2
	}
	if maxLevel <= 0 {
		maxLevel = 3
	}
	var anchors []Anchor
	for _, h := range headings {
		if h.ID == "" || h.Level < minLevel || h.Level > maxLevel {
			continue
		}
		anchors = append(anchors, Anchor{Label: h.Text, Href: "#" + h.ID, Level: h.Level})
	}
	return anchors
}

func sectionEntries(site *catalog.Site, current *catalog.Section) []Entry {
	entries := make([]Entry, 0, len(site.Sections))
	for _, sec := range site.Sections {
		first := firstInSection(sec)
		if first == nil {
			continue
		}
		entries = append(entries, Entry{Label: sec.Title, Href: first.Route, Active: sec == current})
	}
	return entries
}

func pageEntries(sub *catalog.Subsection, current *catalog.Page) []Entry {
	entries := make([]Entry, 0, len(sub.Pages))
	for _, p := range sub.Pages {
		entries = append(entries, Entry{Label: p.Title, Href: p.Route, Active: p == current})
	}
	return entries
}

func firstIn(sub *catalog.Subsection) *catalog.Page {
	if sub == nil || len(sub.Pages) == 0 {
		return nil
	}
	return sub.Pages[0]
}

func firstInSection(sec *catalog.Section) *catalog.Page {
	for _, sub := range sec.Subsections {
		if p := firstIn(sub); p != nil {
			return p
		}
	}
	return nil
}

func href(p *catalog.Page) string {
	if p == nil {
		return ""
	}
	return p.Route
}
