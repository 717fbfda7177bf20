package view

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/nav"
	"github.com/riguelni/go-docs/internal/themes"
)

// Page is the template model for one documentation page.
type Page struct {
	SiteTitle   string
	Title       string
	Description string
	Route       string
	Canonical   string
	Page        *catalog.Page
	Result      *markdown.Result
	Body        template.HTML
	Nav         nav.Navigation
	Theme       themes.Context
	RevealDelay time.Duration
}

// Builder renders catalog pages into template models.
type Builder struct {
	Markdown    *markdown.Renderer
	Nav         nav.Options
	Theme       themes.Context
	RevealDelay time.Duration
}

// Build renders page's markdown and assembles its navigation.
func (b Builder) Build(ctx context.Context, site *catalog.Site, page *catalog.Page) (*Page, error) {
	if b.Markdown == nil {
		return nil, errors.New("view: markdown renderer required")
	}
	if site == nil || page == nil {
		return nil, catalog.ErrContentNotFound
	}
	result, err := b.Markdown.Render(ctx, page.Source, page.Placeholders)
	if err != nil {
		return nil, fmt.Errorf("view: render %s: %w", page.Route, err)
	}
	return &Page{
		SiteTitle:   site.Title,
		Title:       page.Title,
		Description: page.Description,
		Route:       page.Route,
		Canonical:   page.CanonicalURL,
		Page:        page,
		Result:      result,
		Body:        template.HTML(result.HTML),
		Nav:         nav.Build(site, page, result.Headings, b.Nav),
		Theme:       b.Theme,
		RevealDelay: b.RevealDelay,
	}, nil
}

// NotFound is the model for a route with no page.
func (b Builder) NotFound(site *catalog.Site, route string) *Page {
	p := &Page{
		Title: "Page not found",
		Route: route,
		Nav:   nav.Site(site, b.Nav),
		Theme: b.Theme,
	}
	if site != nil {
		p.SiteTitle = site.Title
	}
	return p
}
