package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	docs "github.com/riguelni/go-docs"
	dochttp "github.com/riguelni/go-docs/internal/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

type options struct {
	configPath  string
	addr        string
	contentDir  string
	watch       bool
	mcp         bool
	revealDelay time.Duration
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.addr, "addr", "", "Listen address (overrides server.addr)")
	fs.StringVar(&opts.contentDir, "content-dir", "", "Content root (defaults to the embedded site)")
	fs.BoolVar(&opts.watch, "watch", false, "Reload pages when files under --content-dir change")
	fs.BoolVar(&opts.mcp, "mcp", false, "Mount the MCP endpoint on the HTTP server")
	fs.DurationVar(&opts.revealDelay, "reveal-delay", -1, "Skeleton delay before content is revealed (negative keeps the config value)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func loadConfig(opts options) (docs.Config, error) {
	cfg := docs.DefaultConfig()
	if path := strings.TrimSpace(opts.configPath); path != "" {
		loaded, err := docs.LoadConfig(path)
		if err != nil {
			return docs.Config{}, err
		}
		cfg = loaded
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.contentDir != "" {
		cfg.Content.Dir = opts.contentDir
	}
	if opts.watch {
		cfg.Content.Watch = true
	}
	if opts.mcp {
		cfg.MCP.Enabled = true
	}
	if opts.revealDelay >= 0 {
		cfg.Reveal.Delay = opts.revealDelay
	}
	if cfg.Content.Watch && strings.TrimSpace(cfg.Content.Dir) == "" {
		return docs.Config{}, fmt.Errorf("--watch requires --content-dir")
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	module, err := docs.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise docs module: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return module.HTTP().ListenAndServe(ctx, dochttp.ServeConfig{
			Addr:              cfg.Server.Addr,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		})
	})
	if cfg.Content.Watch {
		group.Go(func() error {
			return module.Watch(ctx)
		})
	}
	return group.Wait()
}
