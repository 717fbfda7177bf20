package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	docs "github.com/riguelni/go-docs"
	"github.com/riguelni/go-docs/internal/mcp"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	moduleBuilder = docs.New
	serve         = mcp.ServeStdio
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("mcp: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	module, err := moduleBuilder(ctx, cfg, docs.WithLogWriter(stderr))
	if err != nil {
		return fmt.Errorf("initialise docs module: %w", err)
	}
	s, err := module.MCP()
	if err != nil {
		return err
	}
	return serve(ctx, s, stdin, stdout)
}

// loadConfig applies flags over the optional config file. stdout carries the
// protocol, so any provider other than console or none is replaced by the
// console logger, which writes to stderr.
func loadConfig(args []string) (docs.Config, error) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Content root (defaults to the embedded site)")
	if err := fs.Parse(args); err != nil {
		return docs.Config{}, err
	}

	cfg := docs.DefaultConfig()
	if *configPath != "" {
		loaded, err := docs.LoadConfig(*configPath)
		if err != nil {
			return docs.Config{}, err
		}
		cfg = loaded
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}
	cfg.Server.Metrics = false
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "console", "none":
	default:
		cfg.Logging.Provider = "console"
	}
	return cfg, nil
}
