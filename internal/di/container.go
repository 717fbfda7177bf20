package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/riguelni/go-docs/internal/catalog"
	"github.com/riguelni/go-docs/internal/commands"
	markdowncmd "github.com/riguelni/go-docs/internal/commands/markdown"
	staticcmd "github.com/riguelni/go-docs/internal/commands/static"
	"github.com/riguelni/go-docs/internal/generator"
	dochttp "github.com/riguelni/go-docs/internal/http"
	"github.com/riguelni/go-docs/internal/logging"
	"github.com/riguelni/go-docs/internal/logging/console"
	"github.com/riguelni/go-docs/internal/logging/gologger"
	"github.com/riguelni/go-docs/internal/markdown"
	"github.com/riguelni/go-docs/internal/mcp"
	"github.com/riguelni/go-docs/internal/metrics"
	"github.com/riguelni/go-docs/internal/nav"
	"github.com/riguelni/go-docs/internal/runtimeconfig"
	"github.com/riguelni/go-docs/internal/themes"
	"github.com/riguelni/go-docs/internal/view"
	"github.com/riguelni/go-docs/pkg/interfaces"
	"github.com/riguelni/go-docs/site"
)

// Version is reported by the metrics build-info gauge and the MCP server.
var Version = "dev"

// ErrWatchRequiresDir is returned by Watch when pages come from the embedded
// content rather than a directory on disk.
var ErrWatchRequiresDir = errors.New("di: watch mode requires content.dir")

// Container wires the docs services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	content        fs.FS
	template       interfaces.TemplateRenderer
	themeLoader    themes.ManifestLoader
	metrics        *metrics.Metrics
	now            func() time.Time

	store     *catalog.Store
	markdown  *markdown.Renderer
	selector  *themes.Selector
	builder   view.Builder
	generator generator.Service
	mcpServer *server.MCPServer
	http      *dochttp.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter sends console logs to w instead of stdout.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithContent replaces the content file system. It takes precedence over
// Content.Dir and the embedded site.
func WithContent(content fs.FS) Option {
	return func(c *Container) {
		c.content = content
	}
}

// WithTemplate overrides the default template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithThemeLoader overrides how theme manifests are read.
func WithThemeLoader(loader themes.ManifestLoader) Option {
	return func(c *Container) {
		c.themeLoader = loader
	}
}

// WithMetrics supplies the metrics registry. Without it one is created when
// Server.Metrics is enabled.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithClock overrides the clock stamped on loaded catalogs.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// NewContainer validates cfg, loads the catalog and builds every service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureContent()
	if c.metrics == nil && cfg.Server.Metrics {
		c.metrics = metrics.New(Version, runtime.Version())
	}

	var observer markdown.Observer
	if c.metrics != nil {
		observer = c.metrics
	}
	renderer, err := markdown.New(markdown.Options{
		Extensions:       cfg.Markdown.Extensions,
		HardWraps:        cfg.Markdown.HardWraps,
		SafeMode:         cfg.Markdown.SafeMode,
		UniqueHeadingIDs: cfg.Markdown.UniqueHeadingIDs,
		CacheSize:        cfg.Markdown.CacheSize,
		Logger:           logging.RenderLogger(c.loggerProvider),
		Observer:         observer,
	})
	if err != nil {
		return nil, fmt.Errorf("di: markdown renderer: %w", err)
	}
	c.markdown = renderer

	site, err := c.loadSite(ctx)
	if err != nil {
		return nil, err
	}
	c.store = catalog.NewStore(site, logging.CatalogLogger(c.loggerProvider))
	c.store.OnSwap(func(*catalog.Site) { c.markdown.Purge() })

	if err := c.configureTheme(); err != nil {
		return nil, err
	}
	c.builder = view.Builder{
		Markdown:    c.markdown,
		Nav:         c.navOptions(),
		Theme:       c.mustTheme(),
		RevealDelay: cfg.Reveal.Delay,
	}

	c.generator = generator.NewService(generator.Config{
		OutputDir:       cfg.Generator.OutputDir,
		BaseURL:         site.BaseURL,
		CleanBuild:      cfg.Generator.CleanBuild,
		Incremental:     cfg.Generator.Incremental,
		CopyAssets:      cfg.Generator.CopyAssets,
		GenerateSitemap: cfg.Generator.GenerateSitemap,
		GenerateRobots:  cfg.Generator.GenerateRobots,
		Workers:         cfg.Generator.Workers,
		RenderTimeout:   cfg.Generator.RenderTimeout,
	}, generator.Dependencies{
		Catalog:     c.store,
		Builder:     c.builder,
		Templates:   c.template,
		ThemeAssets: c.selector.Assets(),
		Content:     c.content,
		Metrics:     c.metrics,
		Logger:      logging.GeneratorLogger(c.loggerProvider),
	})

	if cfg.MCP.Enabled {
		if _, err := c.MCPServer(); err != nil {
			return nil, err
		}
	}
	c.configureHTTP()

	logging.ModuleLogger(c.loggerProvider, "").Info("container.ready",
		"pages", site.Len(),
		"content", c.contentSource(),
		"theme", c.Config.Theme.Name,
		"mcp", cfg.MCP.Enabled,
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("di: %w", err)
		}
		c.loggerProvider = console.NewProvider(console.Options{Writer: c.logWriter, MinLevel: &level})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: %w", err)
		}
		c.loggerProvider = provider
	case "none":
		c.loggerProvider = noopProvider{}
	default:
		return fmt.Errorf("%w: %q", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
	return nil
}

func (c *Container) configureContent() {
	if c.content != nil {
		return
	}
	if dir := strings.TrimSpace(c.Config.Content.Dir); dir != "" {
		c.content = os.DirFS(dir)
		return
	}
	c.content = site.Content()
}

func (c *Container) contentSource() string {
	if dir := strings.TrimSpace(c.Config.Content.Dir); dir != "" {
		return dir
	}
	return "embedded"
}

func (c *Container) loadSite(ctx context.Context) (*catalog.Site, error) {
	site, err := catalog.Load(ctx, c.content, catalog.LoadOptions{
		Title:   c.Config.Site.Title,
		BaseURL: c.Config.Site.BaseURL,
		Logger:  logging.CatalogLogger(c.loggerProvider),
		Now:     c.now,
	})
	if err != nil {
		return nil, fmt.Errorf("di: load catalog from %s: %w", c.contentSource(), err)
	}
	return site, nil
}

func (c *Container) configureTheme() error {
	themeCfg := c.Config.Theme
	c.selector = themes.NewSelector(themes.Config{
		Dir:     themeCfg.Dir,
		Name:    themeCfg.Name,
		Variant: themeCfg.Variant,
	}, c.themeLoader, logging.ModuleLogger(c.loggerProvider, "docs.themes"))

	if _, err := c.selector.Select(""); err != nil {
		return fmt.Errorf("di: select theme: %w", err)
	}
	if c.template == nil {
		renderer, err := themes.NewRenderer(themes.RendererOptions{Dir: themeCfg.Dir})
		if err != nil {
			return fmt.Errorf("di: template renderer: %w", err)
		}
		c.template = renderer
	}
	return nil
}

// mustTheme is only called after configureTheme proved the selection works.
func (c *Container) mustTheme() themes.Context {
	ctx, _ := c.selector.Select("")
	return ctx
}

func (c *Container) navOptions() nav.Options {
	n := c.Config.Navigation
	return nav.Options{
		MinLevel:     n.MinLevel,
		MaxLevel:     n.MaxLevel,
		HeaderOffset: n.HeaderOffset,
		SettleDelay:  n.SettleDelay,
	}
}

func (c *Container) configureHTTP() {
	opts := []dochttp.Option{
		dochttp.WithStore(c.store),
		dochttp.WithBuilder(c.builder),
		dochttp.WithTemplates(c.template),
		dochttp.WithThemeAssets(c.selector.Assets()),
		dochttp.WithContent(c.content),
		dochttp.WithMetrics(c.metrics),
		dochttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.mcpServer != nil {
		endpoint := c.Config.MCP.Endpoint
		opts = append(opts, dochttp.WithHandler(endpoint, mcp.HTTPHandler(c.mcpServer, endpoint)))
	}
	c.http = dochttp.NewServer(opts...)
}

// Reloader reloads the catalog from the configured content.
func (c *Container) Reloader() catalog.Reloader {
	return func(ctx context.Context) (*catalog.Site, error) {
		site, err := c.loadSite(ctx)
		c.metrics.ObserveReload(err, siteLen(site))
		return site, err
	}
}

// Reload re-reads the content and swaps the active catalog.
func (c *Container) Reload(ctx context.Context) error {
	return c.store.Reload(ctx, c.Reloader())
}

// Watch reloads the catalog whenever Content.Dir changes. It blocks until
// ctx ends.
func (c *Container) Watch(ctx context.Context) error {
	dir := strings.TrimSpace(c.Config.Content.Dir)
	if dir == "" {
		return ErrWatchRequiresDir
	}
	return c.store.Watch(ctx, dir, c.Config.Content.Debounce, c.Reloader())
}

// RegisterCommands registers the static and markdown command handlers.
func (c *Container) RegisterCommands(reg commands.CommandRegistry) (*staticcmd.HandlerSet, *markdowncmd.HandlerSet, error) {
	static, err := staticcmd.RegisterStaticCommands(reg, c.generator, c.loggerProvider, c.metrics)
	if err != nil {
		return nil, nil, err
	}
	md, err := markdowncmd.RegisterMarkdownCommands(reg, c.generator, c.markdown, c.loggerProvider, c.metrics)
	if err != nil {
		return nil, nil, err
	}
	return static, md, nil
}

// MCPServer returns the MCP tool server, building it on first use.
func (c *Container) MCPServer() (*server.MCPServer, error) {
	if c.mcpServer != nil {
		return c.mcpServer, nil
	}
	s, err := mcp.NewServer(mcp.Options{
		Name:     c.Config.MCP.Name,
		Version:  c.Config.MCP.Version,
		Store:    c.store,
		Markdown: c.markdown,
		Nav:      c.navOptions(),
		Logger:   logging.MCPLogger(c.loggerProvider),
	})
	if err != nil {
		return nil, fmt.Errorf("di: mcp server: %w", err)
	}
	c.mcpServer = s
	return s, nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Content() fs.FS { return c.content }

func (c *Container) Catalog() *catalog.Store { return c.store }

func (c *Container) Markdown() *markdown.Renderer { return c.markdown }

func (c *Container) TemplateRenderer() interfaces.TemplateRenderer { return c.template }

func (c *Container) ViewBuilder() view.Builder { return c.builder }

func (c *Container) GeneratorService() generator.Service { return c.generator }

func (c *Container) HTTPServer() *dochttp.Server { return c.http }

// Metrics is nil when Server.Metrics is disabled and none was supplied.
func (c *Container) Metrics() *metrics.Metrics { return c.metrics }

func siteLen(site *catalog.Site) int {
	if site == nil {
		return 0
	}
	return site.Len()
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
