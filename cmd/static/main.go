package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	command "github.com/goliatone/go-command"

	"github.com/riguelni/go-docs/cmd/static/internal/bootstrap"
	staticcmd "github.com/riguelni/go-docs/internal/commands/static"
)

type moduleOptions = bootstrap.Options

type handlerSet struct {
	build command.Commander[staticcmd.BuildSiteCommand]
	diff  command.Commander[staticcmd.DiffSiteCommand]
	clean command.Commander[staticcmd.CleanSiteCommand]
}

type moduleResources struct {
	handlers handlerSet
}

var moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
	resources, err := bootstrap.BuildModule(context.Background(), opts)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			build: resources.Handlers.Build,
			diff:  resources.Handlers.Diff,
			clean: resources.Handlers.Clean,
		},
	}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("static: %v", err)
	}
}

func usage() string {
	return "usage: static <build|diff|clean> [flags]"
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand; %s", usage())
	}
	sub := args[0]
	switch sub {
	case "build", "diff", "clean":
	default:
		return fmt.Errorf("unknown subcommand %q; %s", sub, usage())
	}

	fs := flag.NewFlagSet("static "+sub, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Content root (defaults to the embedded site)")
	outputDir := fs.String("output", "", "Output directory (overrides generator.output_dir)")
	baseURL := fs.String("base-url", "", "Absolute site URL used for canonical links and the sitemap")
	workers := fs.Int("workers", 0, "Render workers (0 uses GOMAXPROCS)")
	incremental := fs.Bool("incremental", false, "Skip pages whose output is unchanged")
	routes := fs.String("route", "", "Comma separated routes to build instead of the whole site")
	dryRun := fs.Bool("dry-run", false, "Render without writing files")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	resources, err := moduleBuilder(moduleOptions{
		ConfigPath:  *configPath,
		ContentDir:  *contentDir,
		OutputDir:   *outputDir,
		BaseURL:     *baseURL,
		Workers:     *workers,
		Incremental: *incremental,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers := resources.handlers
	switch sub {
	case "build":
		if handlers.build == nil {
			return errors.New("build handler not configured")
		}
		return handlers.build.Execute(ctx, staticcmd.BuildSiteCommand{
			Routes:         bootstrap.SplitRoutes(*routes),
			DryRun:         *dryRun,
			ResultCallback: logResult,
		})
	case "diff":
		if handlers.diff == nil {
			return errors.New("diff handler not configured")
		}
		return handlers.diff.Execute(ctx, staticcmd.DiffSiteCommand{
			Routes:         bootstrap.SplitRoutes(*routes),
			ResultCallback: logResult,
		})
	default:
		if handlers.clean == nil {
			return errors.New("clean handler not configured")
		}
		if err := handlers.clean.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
			return err
		}
		log.Printf("module=static operation=clean status=ok")
		return nil
	}
}

func logResult(envelope staticcmd.ResultEnvelope) {
	operation, _ := envelope.Metadata["operation"].(string)
	if operation == "" {
		operation = "build"
	}
	result := envelope.Result
	if result == nil {
		log.Printf("module=static operation=%s", operation)
		return
	}
	log.Printf("module=static operation=%s summary pages_built=%d pages_skipped=%d assets_built=%d assets_skipped=%d dry_run=%t duration=%s build_id=%s",
		operation, result.PagesBuilt, result.PagesSkipped, result.AssetsBuilt, result.AssetsSkipped, result.DryRun, result.Duration, result.BuildID)
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			log.Printf("module=static operation=%s route=%s error=%v", operation, diag.Route, diag.Err)
		}
	}
}
