package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/riguelni/go-docs/cmd/markdown/internal/bootstrap"
	markdowncmd "github.com/riguelni/go-docs/internal/commands/markdown"
)

var (
	moduleBuilder = bootstrap.BuildModule

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if err := runPreview(os.Args[1:]); err != nil {
		log.Fatalf("markdown preview: %v", err)
	}
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("markdown-preview", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	contentDir := fs.String("content-dir", "", "Content root (defaults to the embedded site)")
	route := fs.String("route", "", "Catalog route to render through the page template")
	file := fs.String("file", "", "Markdown file to render on its own")
	format := fs.String("format", markdowncmd.FormatHTML, "Output format: html or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Handlers == nil || module.Handlers.Render == nil {
		return fmt.Errorf("render handler not configured")
	}

	cmd := markdowncmd.RenderPageCommand{
		Route:  *route,
		Path:   *file,
		Format: *format,
		Output: stdout,
		ResultCallback: func(res markdowncmd.PreviewResult) {
			fmt.Fprintf(stderr, "\nbytes=%d headings=%d collisions=%d\n", res.Bytes, res.Headings, res.Collisions)
		},
	}
	if err := module.Handlers.Render.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute render command: %w", err)
	}
	return nil
}
