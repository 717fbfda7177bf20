// Package mcp exposes the docs catalog to MCP clients. Pages are served as
// markdown together with their headings and navigation so an assistant can
// cite anchors that resolve on the live site.
package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/nav"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Tool names.
const (
	ToolListPages      = "list_pages"
	ToolGetPage        = "get_page"
	ToolSearchHeadings = "search_headings"
)

const (
	defaultName    = "riguelni-docs"
	defaultVersion = "0.1.0"
)

// Options wires the server to the catalog.
type Options struct {
	Name     string
	Version  string
	Store    *catalog.Store
	Markdown *markdown.Renderer
	Nav      nav.Options
	Logger   interfaces.Logger
}

// NewServer builds an MCP server with the docs tools registered.
func NewServer(opts Options) (*server.MCPServer, error) {
	if opts.Store == nil {
		return nil, errors.New("mcp: catalog store required")
	}
	if opts.Markdown == nil {
		return nil, errors.New("mcp: markdown renderer required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOp()
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = defaultName
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = defaultVersion
	}

	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	t := &tools{opts: opts}

	s.AddTool(mcpgo.NewTool(ToolListPages,
		mcpgo.WithDescription("List documentation pages in reading order, optionally limited to one section"),
		mcpgo.WithString("section",
			mcpgo.Description("Section slug to filter by (e.g. 'integrations')"),
		),
	), mcpgo.NewTypedToolHandler(t.listPages))

	s.AddTool(mcpgo.NewTool(ToolGetPage,
		mcpgo.WithDescription("Get a page's markdown with its headings, breadcrumbs and prev/next links"),
		mcpgo.WithString("route",
			mcpgo.Required(),
			mcpgo.Description("Page route, e.g. /docs/integrations/content/github/overview"),
		),
	), mcpgo.NewTypedToolHandler(t.getPage))

	s.AddTool(mcpgo.NewTool(ToolSearchHeadings,
		mcpgo.WithDescription("Find headings whose text contains the query; results link to route#anchor"),
		mcpgo.WithString("query",
			mcpgo.Required(),
			mcpgo.Description("Case-insensitive text to look for"),
		),
		mcpgo.WithNumber("limit",
			mcpgo.Description("Maximum number of results (default 20)"),
		),
	), mcpgo.NewTypedToolHandler(t.searchHeadings))

	return s, nil
}

type httpRequestKey struct{}

// RequestFromContext returns the HTTP request that carried a streamable MCP call.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// HTTPHandler serves s over streamable HTTP at endpoint.
func HTTPHandler(s *server.MCPServer, endpoint string) http.Handler {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return context.WithValue(ctx, httpRequestKey{}, r)
		}),
	)
}

// ServeStdio serves s over stdin/stdout until ctx is done.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
