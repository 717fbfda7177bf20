package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/markdown"
)

const overviewRoute = "/docs/integrations/content/github/overview"

func newTools(t *testing.T) *tools {
	t.Helper()
	fsys := fstest.MapFS{
		"site.yaml": {Data: []byte(`title: Riguelni Docs
sections:
  - slug: integrations
    title: Integrations
    subsections:
      - slug: github
        title: GitHub
      - slug: jira
        title: Jira
`)},
		"pages/integrations/github/overview.md": {Data: []byte("---\ntitle: Overview\norder: 1\n---\n# GitHub Overview\n\n## Install the app\n\n## Permissions\n")},
		"pages/integrations/jira/setup.md":      {Data: []byte("---\ntitle: Setup\norder: 1\n---\n# Jira Setup\n\n## Install the app\n")},
	}
	site, err := catalog.Load(context.Background(), fsys, catalog.LoadOptions{})
	require.NoError(t, err)
	renderer, err := markdown.New(markdown.Options{CacheSize: 8})
	require.NoError(t, err)
	return &tools{opts: Options{Store: catalog.NewStore(site, nil), Markdown: renderer, Logger: nil}}
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewServerRequiresCollaborators(t *testing.T) {
	_, err := NewServer(Options{})
	require.Error(t, err)

	tl := newTools(t)
	s, err := NewServer(tl.opts)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestListPages(t *testing.T) {
	tl := newTools(t)
	result, err := tl.listPages(context.Background(), mcpgo.CallToolRequest{}, ListPagesArgs{})
	require.NoError(t, err)

	var pages []PageSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &pages))
	require.Len(t, pages, 2)
	require.Equal(t, overviewRoute, pages[0].Route)
	require.Equal(t, "github", pages[0].Subsection)

	result, err = tl.listPages(context.Background(), mcpgo.CallToolRequest{}, ListPagesArgs{Section: "billing"})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestGetPage(t *testing.T) {
	tl := newTools(t)
	result, err := tl.getPage(context.Background(), mcpgo.CallToolRequest{}, GetPageArgs{Route: overviewRoute})
	require.NoError(t, err)

	var doc PageDocument
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &doc))
	require.Equal(t, "Overview", doc.Title)
	require.Contains(t, doc.Markdown, "## Install the app")
	require.Len(t, doc.Headings, 3)
	require.Equal(t, "install-the-app", doc.Headings[1].ID)
	require.NotEmpty(t, doc.Breadcrumbs)
	require.Nil(t, doc.Prev)
	require.NotNil(t, doc.Next)
	require.Equal(t, "/docs/integrations/content/jira/setup", doc.Next.Href)
}

func TestGetPageNotFound(t *testing.T) {
	tl := newTools(t)
	result, err := tl.getPage(context.Background(), mcpgo.CallToolRequest{}, GetPageArgs{Route: "/docs/x/content/y/z"})
	require.NoError(t, err)
	require.True(t, result.IsError)

	result, err = tl.getPage(context.Background(), mcpgo.CallToolRequest{}, GetPageArgs{})
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func TestSearchHeadings(t *testing.T) {
	tl := newTools(t)
	result, err := tl.searchHeadings(context.Background(), mcpgo.CallToolRequest{}, SearchHeadingsArgs{Query: "install"})
	require.NoError(t, err)

	var hits []HeadingHit
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &hits))
	require.Len(t, hits, 2)
	require.Equal(t, overviewRoute+"#install-the-app", hits[0].Href)

	result, err = tl.searchHeadings(context.Background(), mcpgo.CallToolRequest{}, SearchHeadingsArgs{Query: "install", Limit: 1})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &hits))
	require.Len(t, hits, 1)
}

func TestHTTPHandlerServesInitialize(t *testing.T) {
	tl := newTools(t)
	s, err := NewServer(tl.opts)
	require.NoError(t, err)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	HTTPHandler(s, "/mcp").ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "riguelni-docs")
}
