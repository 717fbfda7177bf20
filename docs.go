// Package docs is the entry point of the Riguelni documentation site. A
// Module loads the page catalog and exposes the services built on it: the
// streaming HTTP server, the static generator and the MCP tool server.
package docs

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/di"
	"github.com/riguelni/go-docs/internal/generator"
	dochttp "github.com/riguelni/go-docs/internal/http"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/slug"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// CatalogStore exports the live page catalog.
type CatalogStore = *catalog.Store

// Option customises the module wiring.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithLogWriter      = di.WithLogWriter
	WithContent        = di.WithContent
	WithTemplate       = di.WithTemplate
	WithMetrics        = di.WithMetrics
)

// Module represents the top level docs runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a docs module from cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Catalog returns the live page catalog.
func (m *Module) Catalog() CatalogStore {
	return m.container.Catalog()
}

// Markdown returns the shared markdown renderer.
func (m *Module) Markdown() *markdown.Renderer {
	return m.container.Markdown()
}

// Generator returns the static generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// HTTP returns the SSR server.
func (m *Module) HTTP() *dochttp.Server {
	return m.container.HTTPServer()
}

// MCP returns the MCP tool server.
func (m *Module) MCP() (*server.MCPServer, error) {
	return m.container.MCPServer()
}

// Watch reloads the catalog on content changes until ctx ends.
func (m *Module) Watch(ctx context.Context) error {
	return m.container.Watch(ctx)
}

// Slug derives the anchor id used for a heading with the given text.
func Slug(text string) string {
	return slug.Slugify(text)
}
