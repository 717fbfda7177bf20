package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/nav"
)

const defaultSearchLimit = 20

type ListPagesArgs struct {
	Section string `json:"section"`
}

type GetPageArgs struct {
	Route string `json:"route"`
}

type SearchHeadingsArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// PageSummary is one entry of list_pages.
type PageSummary struct {
	Route       string `json:"route"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Section     string `json:"section"`
	Subsection  string `json:"subsection"`
}

// PageDocument is the get_page payload.
type PageDocument struct {
	PageSummary
	Canonical   string               `json:"canonical,omitempty"`
	Markdown    string               `json:"markdown"`
	Headings    []markdown.Heading   `json:"headings"`
	Collisions  []markdown.Collision `json:"collisions,omitempty"`
	Breadcrumbs []nav.Crumb          `json:"breadcrumbs"`
	Prev        *nav.Entry           `json:"prev,omitempty"`
	Next        *nav.Entry           `json:"next,omitempty"`
}

// HeadingHit is one search_headings result.
type HeadingHit struct {
	Route     string `json:"route"`
	PageTitle string `json:"page_title"`
	Heading   string `json:"heading"`
	ID        string `json:"id"`
	Level     int    `json:"level"`
	Href      string `json:"href"`
}

type tools struct {
	opts Options
}

func (t *tools) listPages(_ context.Context, _ mcpgo.CallToolRequest, args ListPagesArgs) (*mcpgo.CallToolResult, error) {
	site := t.opts.Store.Site()
	section := strings.TrimSpace(args.Section)
	if section != "" && site.Section(section) == nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("unknown section %q", section)), nil
	}
	out := make([]PageSummary, 0, site.Len())
	for _, page := range site.Pages() {
		summary := summarize(page)
		if section != "" && summary.Section != section {
			continue
		}
		out = append(out, summary)
	}
	return jsonResult(out)
}

func (t *tools) getPage(ctx context.Context, _ mcpgo.CallToolRequest, args GetPageArgs) (*mcpgo.CallToolResult, error) {
	route := strings.TrimSpace(args.Route)
	if route == "" {
		return mcpgo.NewToolResultError("route is required"), nil
	}
	site := t.opts.Store.Site()
	page, err := site.Page(route)
	if err != nil {
		if errors.Is(err, catalog.ErrContentNotFound) {
			return mcpgo.NewToolResultError(fmt.Sprintf("page not found: %s", route)), nil
		}
		return nil, err
	}
	result, err := t.opts.Markdown.Render(ctx, page.Source, page.Placeholders)
	if err != nil {
		t.opts.Logger.Error("mcp.get_page.render_failed", "route", page.Route, "error", err)
		return mcpgo.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	doc := PageDocument{
		PageSummary: summarize(page),
		Canonical:   page.CanonicalURL,
		Markdown:    string(page.Source),
		Headings:    result.Headings,
		Collisions:  result.Collisions,
		Breadcrumbs: nav.Breadcrumbs(site, page),
	}
	doc.Prev, doc.Next = nav.Adjacent(site, page)
	return jsonResult(doc)
}

func (t *tools) searchHeadings(ctx context.Context, _ mcpgo.CallToolRequest, args SearchHeadingsArgs) (*mcpgo.CallToolResult, error) {
	needle := strings.ToLower(strings.TrimSpace(args.Query))
	if needle == "" {
		return mcpgo.NewToolResultError("query is required"), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits := make([]HeadingHit, 0)
	for _, page := range t.opts.Store.Site().Pages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := t.opts.Markdown.Render(ctx, page.Source, page.Placeholders)
		if err != nil {
			t.opts.Logger.Warn("mcp.search_headings.render_failed", "route", page.Route, "error", err)
			continue
		}
		for _, h := range result.Headings {
			if !strings.Contains(strings.ToLower(h.Text), needle) {
				continue
			}
			href := page.Route
			if h.ID != "" {
				href += "#" + h.ID
			}
			hits = append(hits, HeadingHit{
				Route:     page.Route,
				PageTitle: page.Title,
				Heading:   h.Text,
				ID:        h.ID,
				Level:     h.Level,
				Href:      href,
			})
			if len(hits) >= limit {
				return jsonResult(hits)
			}
		}
	}
	return jsonResult(hits)
}

func summarize(page *catalog.Page) PageSummary {
	s := PageSummary{Route: page.Route, Title: page.Title, Description: page.Description}
	if page.Section != nil {
		s.Section = page.Section.Slug
	}
	if page.Subsection != nil {
		s.Subsection = page.Subsection.Slug
	}
	return s
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcpgo.NewToolResultText(string(data)), nil
}
