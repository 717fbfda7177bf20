package bootstrap

import (
	"context"
	"fmt"
	"strings"

	docs "github.com/riguelni/go-docs"
	"github.com/riguelni/go-docs/internal/commands"
	staticcmd "github.com/riguelni/go-docs/internal/commands/static"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Options captures configuration for the static CLI bootstrap. Empty values
// keep whatever the config file (or the defaults) say.
type Options struct {
	ConfigPath     string
	ContentDir     string
	OutputDir      string
	BaseURL        string
	Workers        int
	Incremental    bool
	LoggerProvider interfaces.LoggerProvider
}

// Resources bundles the module with the registered static command handlers.
type Resources struct {
	Module   *docs.Module
	Handlers *staticcmd.HandlerSet
	Logger   interfaces.Logger
}

// BuildModule constructs a docs module configured for static builds.
func BuildModule(ctx context.Context, opts Options) (*Resources, error) {
	cfg := docs.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := docs.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.Site.BaseURL = base
	}
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}
	if opts.Incremental {
		cfg.Generator.Incremental = true
	}
	cfg.Content.Watch = false
	cfg.MCP.Enabled = false

	var diOpts []docs.Option
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, docs.WithLoggerProvider(opts.LoggerProvider))
	}
	module, err := docs.New(ctx, cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docs module: %w", err)
	}

	container := module.Container()
	handlers, err := staticcmd.RegisterStaticCommands(nil, container.GeneratorService(), container.LoggerProvider(), container.Metrics())
	if err != nil {
		return nil, fmt.Errorf("register static commands: %w", err)
	}
	return &Resources{
		Module:   module,
		Handlers: handlers,
		Logger:   commands.CommandLogger(container.LoggerProvider(), "static"),
	}, nil
}

// SplitRoutes parses a comma separated route list into a trimmed slice.
func SplitRoutes(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	routes := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			routes = append(routes, trimmed)
		}
	}
	return routes
}
