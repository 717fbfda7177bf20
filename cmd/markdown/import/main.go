package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/riguelni/go-docs/cmd/markdown/internal/bootstrap"
	markdowncmd "github.com/riguelni/go-docs/internal/commands/markdown"
)

var handlerBuilder = func(opts bootstrap.Options) (command.Commander[markdowncmd.ImportPageCommand], error) {
	return bootstrap.ImportHandler(opts)
}

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("markdown-import", flag.ContinueOnError)
	root := fs.String("content-dir", "site/content", "Content root the page file is written under")
	source := fs.String("source", "", "URL or local HTML file to import")
	selector := fs.String("selector", "", "Element to convert: #id, .class or a tag name (defaults to body)")
	section := fs.String("section", "", "Section slug")
	subsection := fs.String("subsection", "", "Subsection slug")
	slug := fs.String("slug", "", "Page slug (defaults to the slugified page title)")
	order := fs.Int("order", 0, "Reading order within the subsection")
	placeholders := fs.Bool("placeholders", true, "Replace images with [IMAGE_PLACEHOLDER_n] tokens")
	overwrite := fs.Bool("overwrite", false, "Replace an existing page file")
	timeout := fs.Duration("timeout", 15*time.Second, "Fetch timeout for URLs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	handler, err := handlerBuilder(bootstrap.Options{})
	if err != nil {
		return fmt.Errorf("bootstrap handler: %w", err)
	}

	var written string
	cmd := markdowncmd.ImportPageCommand{
		Source:         *source,
		Selector:       *selector,
		Root:           *root,
		Section:        *section,
		Subsection:     *subsection,
		Slug:           *slug,
		Order:          *order,
		Placeholders:   *placeholders,
		Overwrite:      *overwrite,
		Timeout:        *timeout,
		ResultCallback: func(path string) { written = path },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintf(os.Stdout, "imported %s -> %s\n", *source, written)
	return nil
}
