package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	docs "github.com/riguelni/go-docs"
	"github.com/riguelni/go-docs/internal/commands"
	markdowncmd "github.com/riguelni/go-docs/internal/commands/markdown"
	"github.com/riguelni/go-docs/internal/logging/console"
	"github.com/riguelni/go-docs/pkg/interfaces"
)

// Options captures configuration for markdown CLI bootstraps.
type Options struct {
	ConfigPath     string
	ContentDir     string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the docs module and the markdown command handlers.
type Module struct {
	Module   *docs.Module
	Handlers *markdowncmd.HandlerSet
	Logger   interfaces.Logger
}

// LoadConfig returns the defaults, or the file at opts.ConfigPath, with
// the content directory override applied.
func LoadConfig(opts Options) (docs.Config, error) {
	cfg := docs.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := docs.LoadConfig(path)
		if err != nil {
			return docs.Config{}, err
		}
		cfg = loaded
	}
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	cfg.Content.Watch = false
	cfg.MCP.Enabled = false
	cfg.Server.Metrics = false
	// Previews print to stdout; keep log lines on stderr.
	if cfg.Logging.Provider == "" || cfg.Logging.Provider == "console" {
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

// BuildModule constructs a docs module with the markdown handlers wired.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	diOpts := []docs.Option{docs.WithLogWriter(os.Stderr)}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, docs.WithLoggerProvider(opts.LoggerProvider))
	}
	module, err := docs.New(context.Background(), cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docs module: %w", err)
	}

	container := module.Container()
	handlers, err := markdowncmd.RegisterMarkdownCommands(nil, container.GeneratorService(), container.Markdown(), container.LoggerProvider(), nil)
	if err != nil {
		return nil, fmt.Errorf("register markdown commands: %w", err)
	}
	return &Module{
		Module:   module,
		Handlers: handlers,
		Logger:   commands.CommandLogger(container.LoggerProvider(), "markdown"),
	}, nil
}

// ImportHandler builds the import handler on its own. Importing writes into
// a content tree that may not load as a catalog yet, so no module is built.
func ImportHandler(opts Options) (*markdowncmd.ImportPageHandler, error) {
	provider := opts.LoggerProvider
	if provider == nil {
		level := console.LevelInfo
		provider = console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level})
	}
	return markdowncmd.NewImportPageHandler(commands.CommandLogger(provider, "markdown"), nil), nil
}
